package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

// Actor is the staff member performing a change.
type Actor struct {
	ID   uuid.UUID
	Role repo.Role
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type Service interface {
	Get(ctx context.Context, clinicID, id uuid.UUID) (*repo.User, error)
	ListStaff(ctx context.Context, clinicID uuid.UUID, role string) ([]*repo.User, error)
	UpdateRole(ctx context.Context, clinicID uuid.UUID, actor Actor, targetID uuid.UUID, req UpdateRoleRequest) (*repo.User, error)
	// SyncRoles rewrites every user's clinic grouping policy from users.role.
	SyncRoles(ctx context.Context) (int, error)
}

type UserService struct {
	client    *repo.Client
	authorize authorize.IAuthorization
}

func New(client *repo.Client, authz authorize.IAuthorization) *UserService {
	return &UserService{
		client:    client,
		authorize: authz,
	}
}

// Get returns a staff member of clinicID.
func (s *UserService) Get(ctx context.Context, clinicID, id uuid.UUID) (*repo.User, error) {
	u, err := s.client.User.GetInClinic(ctx, clinicID, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// ListStaff lists active staff, optionally filtered by a role name or alias.
func (s *UserService) ListStaff(ctx context.Context, clinicID uuid.UUID, role string) ([]*repo.User, error) {
	var filter *repo.Role
	if role != "" {
		r, err := repo.ParseRole(role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		filter = &r
	}

	users, err := s.client.User.ListByClinic(ctx, clinicID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	if users == nil {
		users = []*repo.User{}
	}
	return users, nil
}

func (s *UserService) UpdateRole(ctx context.Context, clinicID uuid.UUID, actor Actor, targetID uuid.UUID, req UpdateRoleRequest) (*repo.User, error) {
	role, err := repo.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if actor.ID == targetID {
		return nil, ErrOwnRole
	}

	u, err := s.Get(ctx, clinicID, targetID)
	if err != nil {
		return nil, err
	}
	if (role == repo.RoleSuperAdmin || u.Role == repo.RoleSuperAdmin) && actor.Role != repo.RoleSuperAdmin {
		return nil, ErrRoleNotGrantable
	}
	if u.Role == role {
		return u, nil
	}

	if err := s.client.User.UpdateRole(ctx, clinicID, targetID, role); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	u.Role = role

	if err := s.syncOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SyncRoles(ctx context.Context) (int, error) {
	users, err := s.client.User.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	synced := 0
	var errs []error
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		if err := s.syncOne(ctx, u); err != nil {
			slog.Warn("user: role sync failed", "user_id", u.ID, "clinic_id", u.ClinicID, "error", err)
			errs = append(errs, err)
			continue
		}
		synced++
	}
	return synced, errors.Join(errs...)
}

func (s *UserService) syncOne(ctx context.Context, u *repo.User) error {
	if s.authorize == nil {
		return nil
	}
	rbacRole, err := authorize.RoleForStaff(u.Role.String())
	if err != nil {
		return err
	}
	if err := authorize.SetClinicRole(ctx, s.authorize, u.ID.String(), u.ClinicID.String(), rbacRole); err != nil {
		return fmt.Errorf("failed to sync role policy: %w", err)
	}
	return nil
}
