// Package task manages the attention-list task catalog and each clinic's
// assignment of tasks to roles.
package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
)

type EffectiveTask struct {
	Code        repo.TaskCode `json:"code"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DefaultRole repo.Role     `json:"default_role"`
	Role        repo.Role     `json:"role"`
	Enabled     bool          `json:"enabled"`
	Customized  bool          `json:"customized"`
}

type UpsertConfigRequest struct {
	Role    string `json:"role"`
	Enabled bool   `json:"enabled"`
}

type Service interface {
	ListDefinitions(ctx context.Context) ([]*repo.TaskDefinition, error)
	ListConfigs(ctx context.Context, clinicID uuid.UUID) ([]*repo.TaskConfig, error)
	Effective(ctx context.Context, clinicID uuid.UUID) ([]EffectiveTask, error)
	UpsertConfig(ctx context.Context, clinicID uuid.UUID, code repo.TaskCode, req UpsertConfigRequest) (*repo.TaskConfig, error)
	// Gate loads the catalog and the clinic's overrides in one go.
	Gate(ctx context.Context, clinicID uuid.UUID) (Gate, error)
}

type taskService struct {
	db *repo.Client
}

func New(db *repo.Client) Service {
	return &taskService{db: db}
}

func (s *taskService) ListDefinitions(ctx context.Context) ([]*repo.TaskDefinition, error) {
	defs, err := s.db.TaskDefinition.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list task definitions: %w", err)
	}
	return defs, nil
}

func (s *taskService) ListConfigs(ctx context.Context, clinicID uuid.UUID) ([]*repo.TaskConfig, error) {
	configs, err := s.db.TaskConfig.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list task configs: %w", err)
	}
	return configs, nil
}

func (s *taskService) Effective(ctx context.Context, clinicID uuid.UUID) ([]EffectiveTask, error) {
	defs, err := s.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	configs, err := s.ListConfigs(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	customized := make(map[uuid.UUID]bool, len(configs))
	for _, c := range configs {
		customized[c.TaskDefinitionID] = true
	}

	gate := NewGate(defs, configs)
	out := make([]EffectiveTask, 0, len(defs))
	for _, d := range defs {
		a, _ := gate.Assignment(d.Code)
		out = append(out, EffectiveTask{
			Code:        d.Code,
			Title:       d.Title,
			Description: d.Description,
			DefaultRole: d.DefaultRole,
			Role:        a.Role,
			Enabled:     a.Enabled,
			Customized:  customized[d.ID],
		})
	}
	return out, nil
}

func (s *taskService) UpsertConfig(ctx context.Context, clinicID uuid.UUID, code repo.TaskCode, req UpsertConfigRequest) (*repo.TaskConfig, error) {
	role, err := repo.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	def, err := s.db.TaskDefinition.GetByCode(ctx, code)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUnknownTask
		}
		return nil, fmt.Errorf("get task definition: %w", err)
	}

	cfg := &repo.TaskConfig{
		ClinicID:         clinicID,
		TaskDefinitionID: def.ID,
		AssignedRole:     role,
		IsEnabled:        req.Enabled,
	}
	if err := s.db.TaskConfig.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("upsert task config: %w", err)
	}
	return cfg, nil
}

func (s *taskService) Gate(ctx context.Context, clinicID uuid.UUID) (Gate, error) {
	defs, err := s.ListDefinitions(ctx)
	if err != nil {
		return Gate{}, err
	}
	configs, err := s.ListConfigs(ctx, clinicID)
	if err != nil {
		return Gate{}, err
	}
	return NewGate(defs, configs), nil
}
