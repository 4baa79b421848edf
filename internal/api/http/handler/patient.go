package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrPatientAlreadyExists):
		return conflict(c, err.Error())
	case errors.Is(err, patient.ErrNameRequired), errors.Is(err, patient.ErrInvalidPhone):
		return badRequest(c, err.Error())
	case errors.Is(err, patient.ErrEncryptionDisabled):
		return unprocessable(c, err.Error())
	}
	return internalError(c, err)
}

// target resolves the clinic scope and, when withID is set, the :id param.
func (h *PatientHandler) target(c fiber.Ctx, withID bool) (clinicID, patientID uuid.UUID, err error) {
	var found bool
	if clinicID, found = clinicIDFromLocals(c); !found {
		return uuid.Nil, uuid.Nil, badRequest(c, "missing clinic context")
	}
	if !withID {
		return clinicID, uuid.Nil, nil
	}
	if patientID, found = uuidParam(c, "id"); !found {
		return uuid.Nil, uuid.Nil, badRequest(c, "invalid patient id")
	}
	return clinicID, patientID, nil
}

// GET /patients?q=&page=&per_page=
func (h *PatientHandler) List(c fiber.Ctx) error {
	clinicID, _, err := h.target(c, false)
	if err != nil || clinicID == uuid.Nil {
		return err
	}

	req := patient.ListPatientsRequest{
		Page:    fiber.Query[int](c, "page"),
		PerPage: fiber.Query[int](c, "per_page"),
		Search:  c.Query("q"),
	}
	page, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, page)
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	clinicID, _, err := h.target(c, false)
	if err != nil || clinicID == uuid.Nil {
		return err
	}

	var body patient.CreatePatientRequest
	if c.Bind().JSON(&body) != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.svc.Create(c.Context(), clinicID, body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	clinicID, patientID, err := h.target(c, true)
	if err != nil || patientID == uuid.Nil {
		return err
	}

	p, err := h.svc.GetByID(c.Context(), clinicID, patientID)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PATCH /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	clinicID, patientID, err := h.target(c, true)
	if err != nil || patientID == uuid.Nil {
		return err
	}

	var body patient.UpdatePatientRequest
	if c.Bind().JSON(&body) != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.svc.Update(c.Context(), clinicID, patientID, body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}
