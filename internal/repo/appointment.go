package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCompleted AppointmentStatus = "completed"
)

var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusNoShow, StatusCompleted}

func (s AppointmentStatus) Valid() bool { return slices.Contains(AppointmentStatuses, s) }

// Closed statuses need no further follow-up from reception.
func (s AppointmentStatus) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Blocking reports whether an appointment in this status occupies its
// doctor's time.
func (s AppointmentStatus) Blocking() bool {
	return s != StatusCancelled && s != StatusNoShow
}

var (
	ErrInvalidRange  = errors.New("appointment must end after it starts")
	ErrInvalidStatus = errors.New("invalid appointment status")
)

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	ClinicID        uuid.UUID         `json:"clinic_id"`
	PatientID       uuid.UUID         `json:"patient_id"`
	DoctorID        *uuid.UUID        `json:"doctor_id,omitempty"`
	StartsAt        time.Time         `json:"starts_at"`
	EndsAt          time.Time         `json:"ends_at"`
	Status          AppointmentStatus `json:"status"`
	Channel         string            `json:"channel"`
	TreatmentType   *string           `json:"treatment_type,omitempty"`
	TreatmentNote   *string           `json:"treatment_note,omitempty"`
	EstimatedAmount *int64            `json:"estimated_amount,omitempty"`
	Tags            []string          `json:"tags"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Validate checks the row-level invariants the store also enforces.
func (a *Appointment) Validate() error {
	if !a.EndsAt.After(a.StartsAt) {
		return ErrInvalidRange
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	return nil
}

func (a *Appointment) HasDoctor() bool { return a.DoctorID != nil && *a.DoctorID != uuid.Nil }

func (a *Appointment) Note() string {
	if a.TreatmentNote == nil {
		return ""
	}
	return *a.TreatmentNote
}

type AppointmentRepo struct{ db Querier }

const appointmentCols = `id, clinic_id, patient_id, doctor_id, starts_at, ends_at, status, channel,
	treatment_type, treatment_note, estimated_amount, tags, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a      Appointment
		status string
	)
	err := row.Scan(&a.ID, &a.ClinicID, &a.PatientID, &a.DoctorID, &a.StartsAt, &a.EndsAt, &status, &a.Channel,
		&a.TreatmentType, &a.TreatmentNote, &a.EstimatedAmount, &a.Tags, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = AppointmentStatus(status)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func (r *AppointmentRepo) list(ctx context.Context, sql string, args ...any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE clinic_id = $1 AND id = $2`, clinicID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListRange returns appointments starting in [from, to), ordered by start.
func (r *AppointmentRepo) ListRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		WHERE clinic_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at, id`, clinicID, from, to)
}

// ListOverlapping returns the doctor's appointments that intersect
// [start, end). Status filtering is left to the caller.
func (r *AppointmentRepo) ListOverlapping(ctx context.Context, clinicID, doctorID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		WHERE clinic_id = $1 AND doctor_id = $2 AND starts_at < $4 AND ends_at > $3
		ORDER BY starts_at, id`, clinicID, doctorID, start, end)
}

func (r *AppointmentRepo) Create(ctx context.Context, a *Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, clinic_id, patient_id, doctor_id, starts_at, ends_at, status, channel,
			treatment_type, treatment_note, estimated_amount, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		a.ID, a.ClinicID, a.PatientID, a.DoctorID, a.StartsAt, a.EndsAt, string(a.Status), a.Channel,
		a.TreatmentType, a.TreatmentNote, a.EstimatedAmount, a.Tags,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites every mutable column of a.
func (r *AppointmentRepo) Update(ctx context.Context, a *Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	err := r.db.QueryRow(ctx, `
		UPDATE appointments SET patient_id = $3, doctor_id = $4, starts_at = $5, ends_at = $6, status = $7,
			channel = $8, treatment_type = $9, treatment_note = $10, estimated_amount = $11, tags = $12,
			updated_at = now()
		WHERE clinic_id = $1 AND id = $2
		RETURNING updated_at`,
		a.ClinicID, a.ID, a.PatientID, a.DoctorID, a.StartsAt, a.EndsAt, string(a.Status),
		a.Channel, a.TreatmentType, a.TreatmentNote, a.EstimatedAmount, a.Tags,
	).Scan(&a.UpdatedAt)
	return notFound(err)
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, clinicID, id uuid.UUID, status AppointmentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = now() WHERE clinic_id = $1 AND id = $2`,
		clinicID, id, string(status))
	if err != nil {
		return err
	}
	return expectOne(tag)
}

// UpdateDoctor sets or, with a nil doctorID, clears the assigned doctor.
func (r *AppointmentRepo) UpdateDoctor(ctx context.Context, clinicID, id uuid.UUID, doctorID *uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET doctor_id = $3, updated_at = now() WHERE clinic_id = $1 AND id = $2`,
		clinicID, id, doctorID)
	if err != nil {
		return err
	}
	return expectOne(tag)
}

func (r *AppointmentRepo) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE clinic_id = $1 AND id = $2`, clinicID, id)
	if err != nil {
		return err
	}
	return expectOne(tag)
}
