package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

func (r *Router) registerPaymentRoutes(
	api fiber.Router,
	ph *handler.PaymentHandler,
	authRequired fiber.Handler,
	clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	payments := api.Group("/payments", authRequired, clinicHeader)

	payments.Get("/", requirePerm(authorize.ResourcePayment, authorize.ActionRead), ph.ListByAppointment)
	payments.Post("/", requirePerm(authorize.ResourcePayment, authorize.ActionCreate), ph.Create)
	payments.Patch("/:id/status", requirePerm(authorize.ResourcePayment, authorize.ActionUpdate), ph.UpdateStatus)
	payments.Delete("/:id", requirePerm(authorize.ResourcePayment, authorize.ActionDelete), ph.Delete)
}
