package appointment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
	"github.com/Alijeyrad/klinik_backend/internal/service/scheduling"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Channels are the ways a booking can reach the clinic.
var Channels = []string{"phone", "walk_in", "online", "whatsapp", "referral"}

const defaultChannel = "phone"

type BookRequest struct {
	PatientID       uuid.UUID              `json:"patient_id"`
	DoctorID        *uuid.UUID             `json:"doctor_id"`
	StartsAt        time.Time              `json:"starts_at"`
	EndsAt          time.Time              `json:"ends_at"`
	Status          repo.AppointmentStatus `json:"status"`
	Channel         string                 `json:"channel"`
	TreatmentType   *string                `json:"treatment_type"`
	TreatmentNote   *string                `json:"treatment_note"`
	EstimatedAmount *int64                 `json:"estimated_amount"`
	Tags            []string               `json:"tags"`
}

// UpdateRequest edits an appointment. Nil fields are left untouched.
type UpdateRequest struct {
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Channel         *string    `json:"channel"`
	TreatmentType   *string    `json:"treatment_type"`
	TreatmentNote   *string    `json:"treatment_note"`
	EstimatedAmount *int64     `json:"estimated_amount"`
	Tags            *[]string  `json:"tags"`
}

// Result carries the saved appointment and, when the doctor was already
// busy, the advisory conflict. The save is never blocked by it.
type Result struct {
	Appointment *repo.Appointment          `json:"appointment"`
	Conflict    *scheduling.ConflictResult `json:"conflict,omitempty"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListDay(ctx context.Context, clinicID uuid.UUID, date repo.Date) ([]*repo.Appointment, error)
	GetByID(ctx context.Context, clinicID, apptID uuid.UUID) (*repo.Appointment, error)
	Book(ctx context.Context, clinicID uuid.UUID, req BookRequest) (*Result, error)
	Update(ctx context.Context, clinicID, apptID uuid.UUID, req UpdateRequest) (*Result, error)
	ChangeStatus(ctx context.Context, clinicID, apptID uuid.UUID, status repo.AppointmentStatus) (*repo.Appointment, error)
	AssignDoctor(ctx context.Context, clinicID, apptID uuid.UUID, doctorID *uuid.UUID) (*Result, error)
	Delete(ctx context.Context, clinicID, apptID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db    *repo.Client
	sched scheduling.Service
	days  daybook.Service
	pub   events.Publisher
	cfg   config.SchedulingConfig
}

func New(db *repo.Client, sched scheduling.Service, days daybook.Service, pub events.Publisher, cfg config.SchedulingConfig) Service {
	return &appointmentService{db: db, sched: sched, days: days, pub: pub, cfg: cfg}
}

func (s *appointmentService) ListDay(ctx context.Context, clinicID uuid.UUID, date repo.Date) ([]*repo.Appointment, error) {
	snap, err := s.days.Load(ctx, clinicID, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return snap.Appointments, nil
}

func (s *appointmentService) GetByID(ctx context.Context, clinicID, apptID uuid.UUID) (*repo.Appointment, error) {
	a, err := s.db.Appointment.Get(ctx, clinicID, apptID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *appointmentService) Book(ctx context.Context, clinicID uuid.UUID, req BookRequest) (*Result, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	status := req.Status
	if status == "" {
		status = repo.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	channel, err := normalizeChannel(req.Channel)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Patient.Get(ctx, clinicID, req.PatientID); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if err := s.checkDoctor(ctx, clinicID, req.DoctorID); err != nil {
		return nil, err
	}

	a := &repo.Appointment{
		ClinicID:        clinicID,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Status:          status,
		Channel:         channel,
		TreatmentType:   req.TreatmentType,
		TreatmentNote:   req.TreatmentNote,
		EstimatedAmount: req.EstimatedAmount,
		Tags:            cleanTags(req.Tags),
	}

	conflict, err := s.conflict(ctx, clinicID, a)
	if err != nil {
		return nil, err
	}
	if err := s.db.Appointment.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.changed(ctx, a, events.KindCreated, a.StartsAt)
	return &Result{Appointment: a, Conflict: conflict}, nil
}

func (s *appointmentService) Update(ctx context.Context, clinicID, apptID uuid.UUID, req UpdateRequest) (*Result, error) {
	a, err := s.GetByID(ctx, clinicID, apptID)
	if err != nil {
		return nil, err
	}
	previousStart := a.StartsAt

	if req.StartsAt != nil {
		a.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		a.EndsAt = *req.EndsAt
	}
	if !a.EndsAt.After(a.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	if req.Channel != nil {
		ch, err := normalizeChannel(*req.Channel)
		if err != nil {
			return nil, err
		}
		a.Channel = ch
	}
	if req.TreatmentType != nil {
		a.TreatmentType = req.TreatmentType
	}
	if req.TreatmentNote != nil {
		a.TreatmentNote = req.TreatmentNote
	}
	if req.EstimatedAmount != nil {
		a.EstimatedAmount = req.EstimatedAmount
	}
	if req.Tags != nil {
		a.Tags = cleanTags(*req.Tags)
	}

	conflict, err := s.conflict(ctx, clinicID, a)
	if err != nil {
		return nil, err
	}
	if err := s.db.Appointment.Update(ctx, a); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.changed(ctx, a, events.KindUpdated, previousStart, a.StartsAt)
	return &Result{Appointment: a, Conflict: conflict}, nil
}

func (s *appointmentService) ChangeStatus(ctx context.Context, clinicID, apptID uuid.UUID, status repo.AppointmentStatus) (*repo.Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	a, err := s.GetByID(ctx, clinicID, apptID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Appointment.UpdateStatus(ctx, clinicID, apptID, status); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	a.Status = status

	s.changed(ctx, a, events.KindUpdated, a.StartsAt)
	return a, nil
}

// AssignDoctor sets the doctor, or clears it when doctorID is nil.
func (s *appointmentService) AssignDoctor(ctx context.Context, clinicID, apptID uuid.UUID, doctorID *uuid.UUID) (*Result, error) {
	a, err := s.GetByID(ctx, clinicID, apptID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDoctor(ctx, clinicID, doctorID); err != nil {
		return nil, err
	}
	a.DoctorID = doctorID

	conflict, err := s.conflict(ctx, clinicID, a)
	if err != nil {
		return nil, err
	}
	if err := s.db.Appointment.UpdateDoctor(ctx, clinicID, apptID, doctorID); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assign doctor: %w", err)
	}

	s.changed(ctx, a, events.KindUpdated, a.StartsAt)
	return &Result{Appointment: a, Conflict: conflict}, nil
}

func (s *appointmentService) Delete(ctx context.Context, clinicID, apptID uuid.UUID) error {
	a, err := s.GetByID(ctx, clinicID, apptID)
	if err != nil {
		return err
	}
	if err := s.db.Appointment.Delete(ctx, clinicID, apptID); err != nil {
		if repo.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.changed(ctx, a, events.KindDeleted, a.StartsAt)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *appointmentService) checkDoctor(ctx context.Context, clinicID uuid.UUID, doctorID *uuid.UUID) error {
	if doctorID == nil {
		return nil
	}
	u, err := s.db.User.GetInClinic(ctx, clinicID, *doctorID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrInvalidDoctor
		}
		return fmt.Errorf("get doctor: %w", err)
	}
	if u.Role != repo.RoleDoctor || !u.IsActive {
		return ErrInvalidDoctor
	}
	return nil
}

// conflict asks the scheduler whether a's doctor is double-booked. It
// returns nil when there is nothing to warn about.
func (s *appointmentService) conflict(ctx context.Context, clinicID uuid.UUID, a *repo.Appointment) (*scheduling.ConflictResult, error) {
	if !a.HasDoctor() || !a.Status.Blocking() {
		return nil, nil
	}
	req := scheduling.ConflictRequest{
		DoctorID: *a.DoctorID,
		StartsAt: a.StartsAt,
		EndsAt:   a.EndsAt,
	}
	if a.ID != uuid.Nil {
		req.ExcludeID = &a.ID
	}
	res, err := s.sched.CheckConflict(ctx, clinicID, req)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidTimeRange) {
			return nil, ErrInvalidTimeRange
		}
		return nil, err
	}
	if !res.Conflict {
		return nil, nil
	}
	return res, nil
}

// changed publishes the appointment change for every clinic-local day it
// touched.
func (s *appointmentService) changed(ctx context.Context, a *repo.Appointment, kind events.Kind, starts ...time.Time) {
	loc := s.cfg.Location()
	if c, err := s.db.Clinic.Get(ctx, a.ClinicID); err == nil {
		loc = c.Location(loc)
	}
	dates := lo.Uniq(lo.Map(starts, func(t time.Time, _ int) string {
		return repo.DateOf(t.In(loc)).String()
	}))
	events.Emit(ctx, s.pub, constants.SubjectAppointmentChanged, events.Event{
		ClinicID: a.ClinicID,
		EntityID: a.ID,
		Kind:     kind,
		Dates:    dates,
	})
}

func normalizeChannel(ch string) (string, error) {
	ch = strings.ToLower(strings.TrimSpace(ch))
	if ch == "" {
		return defaultChannel, nil
	}
	if !slices.Contains(Channels, ch) {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, ch)
	}
	return ch, nil
}

func cleanTags(tags []string) []string {
	out := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
	if out == nil {
		return []string{}
	}
	return out
}
