package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/service/scheduling"
)

type ScheduleHandler struct {
	svc scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrClinicNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, scheduling.ErrDoctorRequired),
		errors.Is(err, scheduling.ErrInvalidTimeRange):
		return badRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrMalformedSchedule):
		return unprocessable(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /schedule/day?date=YYYY-MM-DD
func (h *ScheduleHandler) Day(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	date, valid := dateQuery(c, "date")
	if !valid {
		return badRequest(c, "date is required as YYYY-MM-DD")
	}

	view, err := h.svc.DayView(c.Context(), clinicID, date)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, view)
}

// POST /schedule/conflicts
func (h *ScheduleHandler) CheckConflict(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		DoctorID  uuid.UUID  `json:"doctor_id"`
		StartsAt  time.Time  `json:"starts_at"`
		EndsAt    time.Time  `json:"ends_at"`
		ExcludeID *uuid.UUID `json:"exclude_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.CheckConflict(c.Context(), clinicID, scheduling.ConflictRequest{
		DoctorID:  body.DoctorID,
		StartsAt:  body.StartsAt,
		EndsAt:    body.EndsAt,
		ExcludeID: body.ExcludeID,
	})
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, res)
}
