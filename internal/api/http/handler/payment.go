package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/payment"
)

type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func mapPaymentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, payment.ErrAppointmentNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /payments?appointment_id=
func (h *PaymentHandler) ListByAppointment(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, err := uuid.Parse(c.Query("appointment_id"))
	if err != nil {
		return badRequest(c, "appointment_id is required")
	}

	payments, err := h.svc.ListByAppointment(c.Context(), clinicID, apptID)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return ok(c, payments)
}

// POST /payments
func (h *PaymentHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var req payment.CreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.AppointmentID == uuid.Nil {
		return badRequest(c, "appointment_id is required")
	}

	p, err := h.svc.Create(c.Context(), clinicID, req)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return created(c, p)
}

// PATCH /payments/:id/status
func (h *PaymentHandler) UpdateStatus(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	paymentID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid payment id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.UpdateStatus(c.Context(), clinicID, paymentID, repo.PaymentStatus(body.Status))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return ok(c, p)
}

// DELETE /payments/:id
func (h *PaymentHandler) Delete(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	paymentID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid payment id")
	}

	if err := h.svc.Delete(c.Context(), clinicID, paymentID); err != nil {
		return mapPaymentError(c, err)
	}
	return noContent(c)
}
