package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Clinic struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Timezone     string         `json:"timezone"`
	WorkingHours WeeklyHours    `json:"working_hours"`
	Overrides    []DateOverride `json:"working_hours_overrides"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Location resolves the clinic's timezone, falling back when it is unset or
// unknown to the runtime.
func (c *Clinic) Location(fallback *time.Location) *time.Location {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

type ClinicRepo struct{ db Querier }

const clinicCols = `id, name, timezone, working_hours, working_hours_overrides, is_active, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var (
		c         Clinic
		hoursRaw  []byte
		overrides []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Timezone, &hoursRaw, &overrides, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hoursRaw, &c.WorkingHours); err != nil {
		return nil, fmt.Errorf("clinic %s working_hours: %w", c.ID, err)
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &c.Overrides); err != nil {
			return nil, fmt.Errorf("clinic %s working_hours_overrides: %w", c.ID, err)
		}
	}
	return &c, nil
}

func (r *ClinicRepo) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := scanClinic(r.db.QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *ClinicRepo) Create(ctx context.Context, c *Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Overrides == nil {
		c.Overrides = []DateOverride{}
	}
	hours, err := json.Marshal(c.WorkingHours)
	if err != nil {
		return fmt.Errorf("encode working hours: %w", err)
	}
	overrides, err := json.Marshal(c.Overrides)
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO clinics (id, name, timezone, working_hours, working_hours_overrides, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Timezone, hours, overrides, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *ClinicRepo) UpdateWorkingHours(ctx context.Context, id uuid.UUID, hours WeeklyHours) error {
	b, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("encode working hours: %w", err)
	}
	tag, err := r.db.Exec(ctx, `UPDATE clinics SET working_hours = $2, updated_at = now() WHERE id = $1`, id, b)
	if err != nil {
		return err
	}
	return expectOne(tag)
}

func (r *ClinicRepo) UpdateOverrides(ctx context.Context, id uuid.UUID, overrides []DateOverride) error {
	if overrides == nil {
		overrides = []DateOverride{}
	}
	b, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	tag, err := r.db.Exec(ctx, `UPDATE clinics SET working_hours_overrides = $2, updated_at = now() WHERE id = $1`, id, b)
	if err != nil {
		return err
	}
	return expectOne(tag)
}
