package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type WindowView struct {
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
	Enabled bool   `json:"enabled"`
}

type DayAppointment struct {
	*repo.Appointment
	Hour           int    `json:"hour"`
	PatientName    string `json:"patient_name"`
	DoctorName     string `json:"doctor_name"`
	DoctorAssigned bool   `json:"doctor_assigned"`
}

type DayView struct {
	Date         string           `json:"date"`
	Timezone     string           `json:"timezone"`
	Window       WindowView       `json:"window"`
	Slots        []int            `json:"slots"`
	Appointments []DayAppointment `json:"appointments"`
}

type ConflictRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	ExcludeID *uuid.UUID `json:"exclude_id,omitempty"`
}

// ConflictResult is advisory. Callers show Warning and save anyway.
type ConflictResult struct {
	Conflict    bool        `json:"conflict"`
	Conflicting []uuid.UUID `json:"conflicting"`
	Warning     string      `json:"warning,omitempty"`
}

// DoctorNotAssigned is shown for unassigned appointments and for doctors
// missing from the clinic's doctor list.
const DoctorNotAssigned = "doctor not assigned"

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	DayView(ctx context.Context, clinicID uuid.UUID, date repo.Date) (*DayView, error)
	CheckConflict(ctx context.Context, clinicID uuid.UUID, req ConflictRequest) (*ConflictResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type schedulingService struct {
	db   *repo.Client
	days daybook.Service
}

func New(db *repo.Client, days daybook.Service) Service {
	return &schedulingService{db: db, days: days}
}

func (s *schedulingService) DayView(ctx context.Context, clinicID uuid.UUID, date repo.Date) (*DayView, error) {
	snap, err := s.days.Load(ctx, clinicID, date)
	if err != nil {
		if errors.Is(err, daybook.ErrClinicNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("day view: %w", err)
	}
	return buildDayView(snap)
}

func buildDayView(snap *daybook.Snapshot) (*DayView, error) {
	window, err := Resolve(snap.WorkingHours, snap.Overrides, snap.Date)
	if err != nil {
		return nil, err
	}
	loc := snap.Location()

	view := &DayView{
		Date:     snap.Date.String(),
		Timezone: loc.String(),
		Window:   WindowView{Enabled: window.Enabled},
		Slots:    BuildSlots(window, snap.Appointments, loc),
	}
	if window.Enabled {
		view.Window.Open = window.Open.String()
		view.Window.Close = window.Close.String()
	}

	view.Appointments = lo.Map(snap.Appointments, func(a *repo.Appointment, _ int) DayAppointment {
		doctor, ok := snap.DoctorName(a)
		if !ok {
			doctor = DoctorNotAssigned
		}
		return DayAppointment{
			Appointment:    a,
			Hour:           a.StartsAt.In(loc).Hour(),
			PatientName:    snap.PatientNames[a.PatientID],
			DoctorName:     doctor,
			DoctorAssigned: ok,
		}
	})
	return view, nil
}

func (s *schedulingService) CheckConflict(ctx context.Context, clinicID uuid.UUID, req ConflictRequest) (*ConflictResult, error) {
	if req.DoctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	existing, err := s.db.Appointment.ListOverlapping(ctx, clinicID, req.DoctorID, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("check conflict: %w", err)
	}

	hits := Conflicts(req.DoctorID, req.StartsAt, req.EndsAt, existing, req.ExcludeID)
	res := &ConflictResult{
		Conflict:    len(hits) > 0,
		Conflicting: lo.Map(hits, func(a *repo.Appointment, _ int) uuid.UUID { return a.ID }),
	}
	if res.Conflict {
		res.Warning = fmt.Sprintf("doctor already has %d appointment(s) in this time range", len(hits))
	}
	return res, nil
}
