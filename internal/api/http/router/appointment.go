package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired, clinicHeader)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.ListDay)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Book)

	a := appts.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.GetByID)
	a.Patch("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Update)
	a.Delete("/", requirePerm(authorize.ResourceAppointment, authorize.ActionDelete), ah.Delete)
	a.Patch("/status", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.ChangeStatus)
	a.Patch("/doctor", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.AssignDoctor)
}
