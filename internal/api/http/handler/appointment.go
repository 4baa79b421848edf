package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/appointment"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound),
		errors.Is(err, appointment.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidDoctor),
		errors.Is(err, appointment.ErrInvalidTimeRange),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, appointment.ErrInvalidChannel):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /appointments?date=YYYY-MM-DD
func (h *AppointmentHandler) ListDay(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	date, valid := dateQuery(c, "date")
	if !valid {
		return badRequest(c, "date is required as YYYY-MM-DD")
	}

	appts, err := h.svc.ListDay(c.Context(), clinicID, date)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.GetByID(c.Context(), clinicID, apptID)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments
//
// A doctor double booking is returned as a warning next to the saved
// appointment, never as an error.
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		PatientID       uuid.UUID  `json:"patient_id"`
		DoctorID        *uuid.UUID `json:"doctor_id"`
		StartsAt        time.Time  `json:"starts_at"`
		EndsAt          time.Time  `json:"ends_at"`
		Status          string     `json:"status"`
		Channel         string     `json:"channel"`
		TreatmentType   *string    `json:"treatment_type"`
		TreatmentNote   *string    `json:"treatment_note"`
		EstimatedAmount *int64     `json:"estimated_amount"`
		Tags            []string   `json:"tags"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.PatientID == uuid.Nil {
		return badRequest(c, "patient_id is required")
	}

	res, err := h.svc.Book(c.Context(), clinicID, appointment.BookRequest{
		PatientID:       body.PatientID,
		DoctorID:        body.DoctorID,
		StartsAt:        body.StartsAt,
		EndsAt:          body.EndsAt,
		Status:          repo.AppointmentStatus(body.Status),
		Channel:         body.Channel,
		TreatmentType:   body.TreatmentType,
		TreatmentNote:   body.TreatmentNote,
		EstimatedAmount: body.EstimatedAmount,
		Tags:            body.Tags,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, res)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var req appointment.UpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Update(c.Context(), clinicID, apptID, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, res)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) ChangeStatus(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.ChangeStatus(c.Context(), clinicID, apptID, repo.AppointmentStatus(body.Status))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// PATCH /appointments/:id/doctor
//
// A null doctor_id unassigns the appointment.
func (h *AppointmentHandler) AssignDoctor(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		DoctorID *uuid.UUID `json:"doctor_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.AssignDoctor(c.Context(), clinicID, apptID, body.DoctorID)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, res)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	apptID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Delete(c.Context(), clinicID, apptID); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}
