package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is a staff member of one clinic. Identities are issued elsewhere; the
// row only mirrors what the scheduling core needs.
type User struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRepo struct{ db Querier }

const userCols = `id, clinic_id, full_name, email, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.ClinicID, &u.FullName, &u.Email, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := scanRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = r
	return &u, nil
}

func collectUsers(rows pgx.Rows, err error) ([]*User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetInClinic is Get restricted to one tenant.
func (r *UserRepo) GetInClinic(ctx context.Context, clinicID, id uuid.UUID) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE clinic_id = $1 AND id = $2`, clinicID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ListByClinic returns active staff, optionally narrowed to one role.
func (r *UserRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID, role *Role) ([]*User, error) {
	if role != nil {
		return collectUsers(r.db.Query(ctx,
			`SELECT `+userCols+` FROM users WHERE clinic_id = $1 AND is_active AND role = $2 ORDER BY full_name`,
			clinicID, string(*role)))
	}
	return collectUsers(r.db.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE clinic_id = $1 AND is_active ORDER BY full_name`, clinicID))
}

// ListAll is used by the role sync job.
func (r *UserRepo) ListAll(ctx context.Context) ([]*User, error) {
	return collectUsers(r.db.Query(ctx, `SELECT `+userCols+` FROM users WHERE is_active ORDER BY clinic_id, id`))
}

func (r *UserRepo) UpdateRole(ctx context.Context, clinicID, id uuid.UUID, role Role) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET role = $3, updated_at = now() WHERE clinic_id = $1 AND id = $2`,
		clinicID, id, string(role))
	if err != nil {
		return err
	}
	return expectOne(tag)
}
