package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TaskCode identifies an attention-list rule in the task catalog.
type TaskCode string

const (
	TaskStatusUpdate         TaskCode = "STATUS_UPDATE"
	TaskMissingDoctor        TaskCode = "MISSING_DOCTOR"
	TaskMissingPayment       TaskCode = "MISSING_PAYMENT"
	TaskMissingTreatmentNote TaskCode = "MISSING_TREATMENT_NOTE"
)

type TaskDefinition struct {
	ID          uuid.UUID `json:"id"`
	Code        TaskCode  `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DefaultRole Role      `json:"default_role"`
}

// TaskConfig is a clinic's override of a definition's role and switch.
type TaskConfig struct {
	ClinicID         uuid.UUID `json:"clinic_id"`
	TaskDefinitionID uuid.UUID `json:"task_definition_id"`
	AssignedRole     Role      `json:"assigned_role"`
	IsEnabled        bool      `json:"is_enabled"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TaskDefinitionRepo struct{ db Querier }

const taskDefinitionCols = `id, code, title, description, default_role`

func scanTaskDefinition(row pgx.Row) (*TaskDefinition, error) {
	var (
		d          TaskDefinition
		code, role string
	)
	if err := row.Scan(&d.ID, &code, &d.Title, &d.Description, &role); err != nil {
		return nil, err
	}
	r, err := scanRole(role)
	if err != nil {
		return nil, err
	}
	d.Code = TaskCode(code)
	d.DefaultRole = r
	return &d, nil
}

func (r *TaskDefinitionRepo) List(ctx context.Context) ([]*TaskDefinition, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskDefinitionCols+` FROM dashboard_task_definitions ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*TaskDefinition
	for rows.Next() {
		d, err := scanTaskDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *TaskDefinitionRepo) GetByCode(ctx context.Context, code TaskCode) (*TaskDefinition, error) {
	d, err := scanTaskDefinition(r.db.QueryRow(ctx,
		`SELECT `+taskDefinitionCols+` FROM dashboard_task_definitions WHERE code = $1`, string(code)))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

type TaskConfigRepo struct{ db Querier }

const taskConfigCols = `clinic_id, task_definition_id, assigned_role, is_enabled, updated_at`

func scanTaskConfig(row pgx.Row) (*TaskConfig, error) {
	var (
		c    TaskConfig
		role string
	)
	if err := row.Scan(&c.ClinicID, &c.TaskDefinitionID, &role, &c.IsEnabled, &c.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := scanRole(role)
	if err != nil {
		return nil, err
	}
	c.AssignedRole = r
	return &c, nil
}

func (r *TaskConfigRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*TaskConfig, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskConfigCols+` FROM clinic_task_configs WHERE clinic_id = $1`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*TaskConfig
	for rows.Next() {
		c, err := scanTaskConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert writes the clinic's row for one definition, replacing any previous
// assignment.
func (r *TaskConfigRepo) Upsert(ctx context.Context, c *TaskConfig) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO clinic_task_configs (clinic_id, task_definition_id, assigned_role, is_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (clinic_id, task_definition_id)
		DO UPDATE SET assigned_role = EXCLUDED.assigned_role, is_enabled = EXCLUDED.is_enabled, updated_at = now()
		RETURNING updated_at`,
		c.ClinicID, c.TaskDefinitionID, string(c.AssignedRole), c.IsEnabled,
	).Scan(&c.UpdatedAt)
}
