package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	uh *handler.UserHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired, clinicHeader)

	users.Get("/me", uh.GetMe)
	users.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionRead), uh.ListStaff)
	users.Patch("/:id/role", requirePerm(authorize.ResourceRBAC, authorize.ActionGrant), uh.UpdateRole)
}
