package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/service/control"
)

type ControlHandler struct {
	svc control.Service
}

func NewControlHandler(svc control.Service) *ControlHandler {
	return &ControlHandler{svc: svc}
}

// GET /control?date=YYYY-MM-DD
func (h *ControlHandler) List(c fiber.Ctx) error {
	viewer, valid := viewerFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	date, valid := dateQuery(c, "date")
	if !valid {
		return badRequest(c, "date is required as YYYY-MM-DD")
	}

	list, err := h.svc.List(c.Context(), viewer, date)
	if err != nil {
		if errors.Is(err, control.ErrClinicNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c, err)
	}
	return ok(c, list)
}
