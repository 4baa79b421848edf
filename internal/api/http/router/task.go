package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerTaskRoutes(
	api fiber.Router,
	th *handler.TaskHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	tasks := api.Group("/tasks", authRequired, clinicHeader)

	tasks.Get("/definitions", requirePerm(authorize.ResourceTaskConfig, authorize.ActionRead), th.ListDefinitions)
	tasks.Get("/configs", requirePerm(authorize.ResourceTaskConfig, authorize.ActionRead), th.ListConfigs)
	tasks.Put("/configs/:code", requirePerm(authorize.ResourceTaskConfig, authorize.ActionUpdate), th.UpsertConfig)
}
