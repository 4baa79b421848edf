package user

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
)

var userColumns = []string{"id", "clinic_id", "full_name", "email", "role", "is_active", "created_at", "updated_at"}

func testAuth(t *testing.T) authorize.IAuthorization {
	t.Helper()
	policyPath := filepath.Join(t.TempDir(), "policy.csv")
	require.NoError(t, os.WriteFile(policyPath, nil, 0644))

	m, err := authorize.LoadModel("")
	require.NoError(t, err)
	e, err := casbin.NewDistributedEnforcer(m, fileadapter.NewAdapter(policyPath))
	require.NoError(t, err)
	e.EnableAutoSave(false)

	auth, err := authorize.NewAuthorization(e, true)
	require.NoError(t, err)
	require.NoError(t, authorize.SeedDefaultPolicies(context.Background(), auth))
	return auth
}

func setup(t *testing.T) (pgxmock.PgxPoolIface, authorize.IAuthorization, *UserService) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	auth := testAuth(t)
	return mock, auth, New(repo.NewClient(mock), auth)
}

func TestUpdateRole(t *testing.T) {
	mock, auth, svc := setup(t)
	ctx := context.Background()
	clinicID, adminID, targetID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE clinic_id").
		WithArgs(clinicID, targetID).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(targetID, clinicID, "Selin Demir", "selin@example.com", "RECEPTION", true, now, now))
	mock.ExpectExec("UPDATE users SET role").
		WithArgs(clinicID, targetID, "DOCTOR").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	u, err := svc.UpdateRole(ctx, clinicID, Actor{ID: adminID, Role: repo.RoleAdmin}, targetID, UpdateRoleRequest{Role: "doktor"})
	require.NoError(t, err)
	assert.Equal(t, repo.RoleDoctor, u.Role)

	roles, err := authorize.GetClinicRoles(ctx, auth, targetID.String(), clinicID.String())
	require.NoError(t, err)
	assert.Equal(t, []authorize.Role{authorize.RoleClinicDoctor}, roles)

	ok, err := auth.Enforce(ctx, authorize.GroupSubject(targetID.String()), authorize.ClinicDomain(clinicID.String()),
		authorize.ResourceControl, authorize.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRole_Rules(t *testing.T) {
	mock, _, svc := setup(t)
	ctx := context.Background()
	clinicID, adminID, ownerID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	_, err := svc.UpdateRole(ctx, clinicID, Actor{ID: adminID, Role: repo.RoleAdmin}, uuid.New(), UpdateRoleRequest{Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.UpdateRole(ctx, clinicID, Actor{ID: adminID, Role: repo.RoleAdmin}, adminID, UpdateRoleRequest{Role: "DOCTOR"})
	assert.ErrorIs(t, err, ErrOwnRole)

	mock.ExpectQuery("FROM users WHERE clinic_id").
		WithArgs(clinicID, ownerID).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(ownerID, clinicID, "Owner", "owner@example.com", "SUPER_ADMIN", true, now, now))
	_, err = svc.UpdateRole(ctx, clinicID, Actor{ID: adminID, Role: repo.RoleAdmin}, ownerID, UpdateRoleRequest{Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrRoleNotGrantable)

	missing := uuid.New()
	mock.ExpectQuery("FROM users WHERE clinic_id").
		WithArgs(clinicID, missing).
		WillReturnRows(pgxmock.NewRows(userColumns))
	_, err = svc.UpdateRole(ctx, clinicID, Actor{ID: adminID, Role: repo.RoleSuperAdmin}, missing, UpdateRoleRequest{Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListStaff(t *testing.T) {
	mock, _, svc := setup(t)
	clinicID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("AND role = ").
		WithArgs(clinicID, "RECEPTION").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(uuid.New(), clinicID, "Selin Demir", "", "RECEPTION", true, now, now))

	users, err := svc.ListStaff(context.Background(), clinicID, "sekreter")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, repo.RoleReception, users[0].Role)

	_, err = svc.ListStaff(context.Background(), clinicID, "janitor")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSyncRoles(t *testing.T) {
	mock, auth, svc := setup(t)
	ctx := context.Background()
	c1, c2 := uuid.New(), uuid.New()
	u1, u2 := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE is_active").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(u1, c1, "A", "", "FINANCE", true, now, now).
			AddRow(u2, c2, "B", "", "ADMIN", true, now, now))

	n, err := svc.SyncRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	roles, _ := authorize.GetClinicRoles(ctx, auth, u2.String(), c2.String())
	assert.Equal(t, []authorize.Role{authorize.RoleClinicAdmin}, roles)
	none, _ := authorize.GetClinicRoles(ctx, auth, u1.String(), c2.String())
	assert.Empty(t, none)
}
