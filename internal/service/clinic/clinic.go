package clinic

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	GetClinic(ctx context.Context, clinicID uuid.UUID) (*repo.Clinic, error)

	// Weekly hours
	GetWorkingHours(ctx context.Context, clinicID uuid.UUID) (repo.WeeklyHours, error)
	UpdateWorkingHours(ctx context.Context, clinicID uuid.UUID, hours repo.WeeklyHours) (repo.WeeklyHours, error)

	// Date overrides
	ListOverrides(ctx context.Context, clinicID uuid.UUID) ([]repo.DateOverride, error)
	UpsertOverride(ctx context.Context, clinicID uuid.UUID, o repo.DateOverride) ([]repo.DateOverride, error)
	DeleteOverride(ctx context.Context, clinicID uuid.UUID, date repo.Date) error

	ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*repo.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type clinicService struct {
	db  *repo.Client
	pub events.Publisher
}

func New(db *repo.Client, pub events.Publisher) Service {
	return &clinicService{db: db, pub: pub}
}

func (s *clinicService) GetClinic(ctx context.Context, clinicID uuid.UUID) (*repo.Clinic, error) {
	c, err := s.db.Clinic.Get(ctx, clinicID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return c, nil
}

func (s *clinicService) GetWorkingHours(ctx context.Context, clinicID uuid.UUID) (repo.WeeklyHours, error) {
	c, err := s.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return c.WorkingHours, nil
}

func (s *clinicService) UpdateWorkingHours(ctx context.Context, clinicID uuid.UUID, hours repo.WeeklyHours) (repo.WeeklyHours, error) {
	if err := ValidateHours(hours); err != nil {
		return nil, err
	}
	if err := s.db.Clinic.UpdateWorkingHours(ctx, clinicID, hours); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("update working hours: %w", err)
	}
	s.scheduleChanged(ctx, clinicID)
	return hours, nil
}

// ---------------------------------------------------------------------------
// Overrides
// ---------------------------------------------------------------------------

func (s *clinicService) ListOverrides(ctx context.Context, clinicID uuid.UUID) ([]repo.DateOverride, error) {
	c, err := s.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(c.Overrides)
	repo.SortOverrides(out)
	return out, nil
}

// UpsertOverride stores o, replacing any override for the same date.
func (s *clinicService) UpsertOverride(ctx context.Context, clinicID uuid.UUID, o repo.DateOverride) ([]repo.DateOverride, error) {
	if err := ValidateOverride(o); err != nil {
		return nil, err
	}
	c, err := s.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	out := slices.DeleteFunc(slices.Clone(c.Overrides), func(x repo.DateOverride) bool { return x.Date == o.Date })
	out = append(out, o)
	repo.SortOverrides(out)

	if err := s.db.Clinic.UpdateOverrides(ctx, clinicID, out); err != nil {
		return nil, fmt.Errorf("update overrides: %w", err)
	}
	s.scheduleChanged(ctx, clinicID, o.Date)
	return out, nil
}

func (s *clinicService) DeleteOverride(ctx context.Context, clinicID uuid.UUID, date repo.Date) error {
	c, err := s.GetClinic(ctx, clinicID)
	if err != nil {
		return err
	}
	out := slices.DeleteFunc(slices.Clone(c.Overrides), func(x repo.DateOverride) bool { return x.Date == date })
	if len(out) == len(c.Overrides) {
		return ErrOverrideNotFound
	}
	if err := s.db.Clinic.UpdateOverrides(ctx, clinicID, out); err != nil {
		return fmt.Errorf("update overrides: %w", err)
	}
	s.scheduleChanged(ctx, clinicID, date)
	return nil
}

func (s *clinicService) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*repo.User, error) {
	role := repo.RoleDoctor
	doctors, err := s.db.User.ListByClinic(ctx, clinicID, &role)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// ValidateHours requires all seven days and, on open days, a close after
// the open.
func ValidateHours(hours repo.WeeklyHours) error {
	if err := hours.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	for day, d := range hours {
		if d.Enabled && !d.Open.Before(d.Close) {
			return fmt.Errorf("%w: %s closes at %s before opening at %s", ErrInvalidHours, day, d.Close, d.Open)
		}
	}
	return nil
}

func ValidateOverride(o repo.DateOverride) error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidOverride)
	}
	if !o.IsClosed && !o.Open.Before(o.Close) {
		return fmt.Errorf("%w: close %s is not after open %s", ErrInvalidOverride, o.Close, o.Open)
	}
	return nil
}

// scheduleChanged announces new hours. No dates means every cached day of
// the clinic is stale.
func (s *clinicService) scheduleChanged(ctx context.Context, clinicID uuid.UUID, dates ...repo.Date) {
	ev := events.Event{ClinicID: clinicID, EntityID: clinicID, Kind: events.KindUpdated}
	for _, d := range dates {
		ev.Dates = append(ev.Dates, d.String())
	}
	events.Emit(ctx, s.pub, constants.SubjectScheduleChanged, ev)
}
