package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/clinic"
)

type ClinicHandler struct {
	svc clinic.Service
}

func NewClinicHandler(svc clinic.Service) *ClinicHandler {
	return &ClinicHandler{svc: svc}
}

func mapClinicError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, clinic.ErrClinicNotFound),
		errors.Is(err, clinic.ErrOverrideNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, clinic.ErrInvalidHours),
		errors.Is(err, clinic.ErrInvalidOverride),
		errors.Is(err, repo.ErrMalformedSchedule):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /clinic
func (h *ClinicHandler) Get(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	cl, err := h.svc.GetClinic(c.Context(), clinicID)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, cl)
}

// GET /clinic/working-hours
func (h *ClinicHandler) GetWorkingHours(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	hours, err := h.svc.GetWorkingHours(c.Context(), clinicID)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, hours)
}

// PUT /clinic/working-hours
func (h *ClinicHandler) UpdateWorkingHours(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var hours repo.WeeklyHours
	if err := c.Bind().JSON(&hours); err != nil {
		return badRequest(c, "invalid working hours: "+err.Error())
	}

	out, err := h.svc.UpdateWorkingHours(c.Context(), clinicID, hours)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, out)
}

// GET /clinic/overrides
func (h *ClinicHandler) ListOverrides(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	out, err := h.svc.ListOverrides(c.Context(), clinicID)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, out)
}

// PUT /clinic/overrides/:date
func (h *ClinicHandler) UpsertOverride(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	date, err := repo.ParseDate(c.Params("date"))
	if err != nil {
		return badRequest(c, "invalid date")
	}

	var body struct {
		Open     string `json:"open"`
		Close    string `json:"close"`
		IsClosed bool   `json:"is_closed"`
		Note     string `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	o := repo.DateOverride{Date: date, IsClosed: body.IsClosed, Note: body.Note}
	if !body.IsClosed {
		if o.Open, err = repo.ParseTimeOfDay(body.Open); err != nil {
			return badRequest(c, err.Error())
		}
		if o.Close, err = repo.ParseTimeOfDay(body.Close); err != nil {
			return badRequest(c, err.Error())
		}
	}

	out, err := h.svc.UpsertOverride(c.Context(), clinicID, o)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, out)
}

// DELETE /clinic/overrides/:date
func (h *ClinicHandler) DeleteOverride(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	date, err := repo.ParseDate(c.Params("date"))
	if err != nil {
		return badRequest(c, "invalid date")
	}
	if err := h.svc.DeleteOverride(c.Context(), clinicID, date); err != nil {
		return mapClinicError(c, err)
	}
	return noContent(c)
}

// GET /clinic/doctors
func (h *ClinicHandler) ListDoctors(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	doctors, err := h.svc.ListDoctors(c.Context(), clinicID)
	if err != nil {
		return mapClinicError(c, err)
	}
	return ok(c, doctors)
}
