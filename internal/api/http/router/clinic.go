package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerClinicRoutes(
	api fiber.Router,
	ch *handler.ClinicHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	cl := api.Group("/clinic", authRequired, clinicHeader)

	cl.Get("/", requirePerm(authorize.ResourceClinic, authorize.ActionRead), ch.Get)
	cl.Get("/doctors", requirePerm(authorize.ResourceClinic, authorize.ActionRead), ch.ListDoctors)

	cl.Get("/working-hours", requirePerm(authorize.ResourceClinicSettings, authorize.ActionRead), ch.GetWorkingHours)
	cl.Put("/working-hours", requirePerm(authorize.ResourceClinicSettings, authorize.ActionUpdate), ch.UpdateWorkingHours)

	cl.Get("/overrides", requirePerm(authorize.ResourceClinicSettings, authorize.ActionRead), ch.ListOverrides)
	cl.Put("/overrides/:date", requirePerm(authorize.ResourceClinicSettings, authorize.ActionUpdate), ch.UpsertOverride)
	cl.Delete("/overrides/:date", requirePerm(authorize.ResourceClinicSettings, authorize.ActionUpdate), ch.DeleteOverride)
}
