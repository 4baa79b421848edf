package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerPatientRoutes(
	api fiber.Router,
	ph *handler.PatientHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	patients := api.Group("/patients", authRequired, clinicHeader)

	patients.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionRead), ph.List)
	patients.Post("/", requirePerm(authorize.ResourcePatient, authorize.ActionCreate), ph.Create)
	patients.Get("/:id", requirePerm(authorize.ResourcePatient, authorize.ActionRead), ph.Get)
	patients.Patch("/:id", requirePerm(authorize.ResourcePatient, authorize.ActionUpdate), ph.Update)
}
