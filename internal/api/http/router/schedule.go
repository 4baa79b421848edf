package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerScheduleRoutes(
	api fiber.Router,
	sh *handler.ScheduleHandler,
	ch *handler.ControlHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	schedule := api.Group("/schedule", authRequired, clinicHeader)
	schedule.Get("/day", requirePerm(authorize.ResourceSchedule, authorize.ActionRead), sh.Day)
	schedule.Post("/conflicts", requirePerm(authorize.ResourceSchedule, authorize.ActionRead), sh.CheckConflict)

	control := api.Group("/control", authRequired, clinicHeader)
	control.Get("/", requirePerm(authorize.ResourceControl, authorize.ActionRead), ch.List)
}
