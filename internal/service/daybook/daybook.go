// Package daybook assembles and caches everything the day view and the
// attention list read for one clinic and one calendar date.
package daybook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/cache"
)

// Snapshot is a read-only copy of a clinic's day. It is rebuilt on cache
// miss and dropped when a change event for the clinic arrives.
type Snapshot struct {
	ClinicID     uuid.UUID            `json:"clinic_id"`
	Date         repo.Date            `json:"date"`
	Timezone     string               `json:"timezone"`
	WorkingHours repo.WeeklyHours     `json:"working_hours"`
	Overrides    []repo.DateOverride  `json:"overrides"`
	Appointments []*repo.Appointment  `json:"appointments"`
	Payments     map[uuid.UUID]bool   `json:"payments"`
	PatientNames map[uuid.UUID]string `json:"patient_names"`
	DoctorNames  map[uuid.UUID]string `json:"doctor_names"`
	LoadedAt     time.Time            `json:"loaded_at"`
}

// Location returns the clinic's timezone, UTC if it no longer loads.
func (s *Snapshot) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DoctorName returns the doctor's display name. ok is false for an
// unassigned appointment and for a doctor id that is not on the clinic's
// doctor list.
func (s *Snapshot) DoctorName(a *repo.Appointment) (string, bool) {
	if !a.HasDoctor() {
		return "", false
	}
	name, ok := s.DoctorNames[*a.DoctorID]
	return name, ok
}

type Service interface {
	Load(ctx context.Context, clinicID uuid.UUID, date repo.Date) (*Snapshot, error)
	Invalidate(ctx context.Context, clinicID uuid.UUID, dates ...repo.Date) error
	InvalidateClinic(ctx context.Context, clinicID uuid.UUID) error
}

type daybookService struct {
	db    *repo.Client
	cache *cache.Cache
	cfg   config.SchedulingConfig
}

// New builds the service. A nil cache disables caching.
func New(db *repo.Client, c *cache.Cache, cfg config.SchedulingConfig) Service {
	return &daybookService{db: db, cache: c, cfg: cfg}
}

func Key(clinicID uuid.UUID, date repo.Date) string {
	return clinicPrefix(clinicID) + date.String()
}

func clinicPrefix(clinicID uuid.UUID) string {
	return "daybook:" + clinicID.String() + ":"
}

func (s *daybookService) Load(ctx context.Context, clinicID uuid.UUID, date repo.Date) (*Snapshot, error) {
	if s.cache == nil {
		return s.build(ctx, clinicID, date)
	}
	return cache.GetOrLoad(ctx, s.cache, Key(clinicID, date), s.cfg.CacheTTL(), func(ctx context.Context) (*Snapshot, error) {
		return s.build(ctx, clinicID, date)
	})
}

func (s *daybookService) Invalidate(ctx context.Context, clinicID uuid.UUID, dates ...repo.Date) error {
	if s.cache == nil || len(dates) == 0 {
		return nil
	}
	keys := lo.Map(dates, func(d repo.Date, _ int) string { return Key(clinicID, d) })
	return s.cache.Delete(ctx, keys...)
}

func (s *daybookService) InvalidateClinic(ctx context.Context, clinicID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	n, err := s.cache.DeletePrefix(ctx, clinicPrefix(clinicID))
	if err != nil {
		return err
	}
	slog.Debug("daybook: clinic invalidated", "clinic_id", clinicID, "keys", n)
	return nil
}

func (s *daybookService) build(ctx context.Context, clinicID uuid.UUID, date repo.Date) (*Snapshot, error) {
	clinic, err := s.db.Clinic.Get(ctx, clinicID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("load clinic: %w", err)
	}
	loc := clinic.Location(s.cfg.Location())

	appts, err := s.db.Appointment.ListRange(ctx, clinicID, date.Start(loc), date.End(loc))
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	ids := lo.Map(appts, func(a *repo.Appointment, _ int) uuid.UUID { return a.ID })

	payments, err := s.db.Payment.ExistsFor(ctx, clinicID, ids)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	patientIDs := lo.Uniq(lo.Map(appts, func(a *repo.Appointment, _ int) uuid.UUID { return a.PatientID }))
	patients, err := s.db.Patient.NamesByIDs(ctx, clinicID, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	doctorRole := repo.RoleDoctor
	doctors, err := s.db.User.ListByClinic(ctx, clinicID, &doctorRole)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}

	if appts == nil {
		appts = []*repo.Appointment{}
	}
	return &Snapshot{
		ClinicID:     clinicID,
		Date:         date,
		Timezone:     loc.String(),
		WorkingHours: clinic.WorkingHours,
		Overrides:    clinic.Overrides,
		Appointments: appts,
		Payments:     payments,
		PatientNames: patients,
		DoctorNames: lo.SliceToMap(doctors, func(u *repo.User) (uuid.UUID, string) {
			return u.ID, u.FullName
		}),
		LoadedAt: time.Now().UTC(),
	}, nil
}
