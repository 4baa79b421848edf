package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
)

var defColumns = []string{"id", "code", "title", "description", "default_role"}

func TestUpsertConfig_NormalizesRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	clinicID, defID := uuid.New(), uuid.New()
	mock.ExpectQuery("FROM dashboard_task_definitions WHERE code").
		WithArgs("STATUS_UPDATE").
		WillReturnRows(pgxmock.NewRows(defColumns).AddRow(defID, "STATUS_UPDATE", "Update status", "", "RECEPTION"))
	mock.ExpectQuery("INSERT INTO clinic_task_configs").
		WithArgs(clinicID, defID, "RECEPTION", false).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	svc := New(repo.NewClient(mock))
	cfg, err := svc.UpsertConfig(context.Background(), clinicID, repo.TaskStatusUpdate, UpsertConfigRequest{Role: "sekreter", Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, repo.RoleReception, cfg.AssignedRole)
	assert.False(t, cfg.IsEnabled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertConfig_Errors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	svc := New(repo.NewClient(mock))

	_, err = svc.UpsertConfig(context.Background(), uuid.New(), repo.TaskStatusUpdate, UpsertConfigRequest{Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	mock.ExpectQuery("FROM dashboard_task_definitions WHERE code").
		WithArgs("MISSING_XRAY").
		WillReturnError(pgx.ErrNoRows)
	_, err = svc.UpsertConfig(context.Background(), uuid.New(), "MISSING_XRAY", UpsertConfigRequest{Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrUnknownTask)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEffective(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	clinicID := uuid.New()
	statusID, paymentID := uuid.New(), uuid.New()
	mock.ExpectQuery("FROM dashboard_task_definitions").
		WillReturnRows(pgxmock.NewRows(defColumns).
			AddRow(paymentID, "MISSING_PAYMENT", "Record payment", "", "FINANCE").
			AddRow(statusID, "STATUS_UPDATE", "Update status", "", "RECEPTION"))
	mock.ExpectQuery("FROM clinic_task_configs").
		WithArgs(clinicID).
		WillReturnRows(pgxmock.NewRows([]string{"clinic_id", "task_definition_id", "assigned_role", "is_enabled", "updated_at"}).
			AddRow(clinicID, paymentID, "FINANCE", false, time.Now()))

	got, err := New(repo.NewClient(mock)).Effective(context.Background(), clinicID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, repo.TaskMissingPayment, got[0].Code)
	assert.False(t, got[0].Enabled)
	assert.True(t, got[0].Customized)

	assert.Equal(t, repo.TaskStatusUpdate, got[1].Code)
	assert.True(t, got[1].Enabled)
	assert.Equal(t, repo.RoleReception, got[1].Role)
	assert.False(t, got[1].Customized)
	require.NoError(t, mock.ExpectationsWereMet())
}
