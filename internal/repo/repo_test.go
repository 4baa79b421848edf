package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Client) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.Close()
	})
	return mock, NewClient(mock)
}

var appointmentColumns = []string{
	"id", "clinic_id", "patient_id", "doctor_id", "starts_at", "ends_at", "status", "channel",
	"treatment_type", "treatment_note", "estimated_amount", "tags", "created_at", "updated_at",
}

func TestAppointmentRepo_ListRange(t *testing.T) {
	mock, c := newMock(t)
	ctx := context.Background()

	clinicID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	a1, a2 := uuid.New(), uuid.New()
	from := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	note := "filling done"
	amount := int64(150000)

	rows := pgxmock.NewRows(appointmentColumns).
		AddRow(a1, clinicID, patientID, &doctorID, from.Add(9*time.Hour), from.Add(10*time.Hour), "completed", "phone",
			(*string)(nil), &note, &amount, []string{"vip"}, from, from).
		AddRow(a2, clinicID, patientID, (*uuid.UUID)(nil), from.Add(20*time.Hour), from.Add(21*time.Hour), "pending", "walk_in",
			(*string)(nil), (*string)(nil), (*int64)(nil), []string(nil), from, from)

	mock.ExpectQuery("FROM appointments").
		WithArgs(clinicID, from, to).
		WillReturnRows(rows)

	got, err := c.Appointment.ListRange(ctx, clinicID, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, a1, got[0].ID)
	assert.True(t, got[0].HasDoctor())
	assert.Equal(t, StatusCompleted, got[0].Status)
	assert.Equal(t, "filling done", got[0].Note())
	assert.Equal(t, []string{"vip"}, got[0].Tags)

	assert.False(t, got[1].HasDoctor())
	assert.Equal(t, "", got[1].Note())
	assert.NotNil(t, got[1].Tags)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepo_GetNotFound(t *testing.T) {
	mock, c := newMock(t)
	clinicID, id := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM appointments WHERE clinic_id = \\$1 AND id = \\$2").
		WithArgs(clinicID, id).
		WillReturnError(pgx.ErrNoRows)

	_, err := c.Appointment.Get(context.Background(), clinicID, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepo_UpdateStatus(t *testing.T) {
	mock, c := newMock(t)
	ctx := context.Background()
	clinicID, id := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(clinicID, id, "completed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(clinicID, id, "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, c.Appointment.UpdateStatus(ctx, clinicID, id, StatusCompleted))
	assert.ErrorIs(t, c.Appointment.UpdateStatus(ctx, clinicID, id, StatusCancelled), ErrNotFound)
	assert.ErrorIs(t, c.Appointment.UpdateStatus(ctx, clinicID, id, "archived"), ErrInvalidStatus)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepo_CreateRejectsInvertedRange(t *testing.T) {
	_, c := newMock(t)
	now := time.Now()
	err := c.Appointment.Create(context.Background(), &Appointment{
		StartsAt: now,
		EndsAt:   now.Add(-time.Minute),
		Status:   StatusPending,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPaymentRepo_ExistsFor(t *testing.T) {
	mock, c := newMock(t)
	clinicID := uuid.New()
	paid, unpaid := uuid.New(), uuid.New()
	ids := []uuid.UUID{paid, unpaid}

	mock.ExpectQuery("SELECT DISTINCT appointment_id FROM payments").
		WithArgs(clinicID, ids).
		WillReturnRows(pgxmock.NewRows([]string{"appointment_id"}).AddRow(paid))

	got, err := c.Payment.ExistsFor(context.Background(), clinicID, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{paid: true, unpaid: false}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_ExistsForEmpty(t *testing.T) {
	mock, c := newMock(t)
	got, err := c.Payment.ExistsFor(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepo_Get(t *testing.T) {
	mock, c := newMock(t)
	id := uuid.New()
	now := time.Now()
	cols := []string{"id", "name", "timezone", "working_hours", "working_hours_overrides", "is_active", "created_at", "updated_at"}

	mock.ExpectQuery("FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(id, "Merkez", "Europe/Istanbul", []byte(fullWeek),
			[]byte(`[{"date":"2026-04-23","is_closed":true}]`), true, now, now))

	got, err := c.Clinic.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Merkez", got.Name)
	require.NoError(t, got.WorkingHours.Validate())
	require.Len(t, got.Overrides, 1)
	assert.True(t, got.Overrides[0].IsClosed)
	assert.Equal(t, "Europe/Istanbul", got.Location(time.UTC).String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepo_GetMalformedHours(t *testing.T) {
	mock, c := newMock(t)
	id := uuid.New()
	now := time.Now()
	cols := []string{"id", "name", "timezone", "working_hours", "working_hours_overrides", "is_active", "created_at", "updated_at"}

	mock.ExpectQuery("FROM clinics WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(id, "Merkez", "", []byte(`{"monday":{"open":"nine","close":"19:00","enabled":true}}`),
			[]byte(`[]`), true, now, now))

	_, err := c.Clinic.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrMalformedSchedule)
	assert.False(t, IsNotFound(err))
}

func TestTaskConfigRepo_ListByClinic(t *testing.T) {
	mock, c := newMock(t)
	clinicID, defID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM clinic_task_configs WHERE clinic_id").
		WithArgs(clinicID).
		WillReturnRows(pgxmock.NewRows([]string{"clinic_id", "task_definition_id", "assigned_role", "is_enabled", "updated_at"}).
			AddRow(clinicID, defID, "SEKRETER", true, now))

	got, err := c.TaskConfig.ListByClinic(context.Background(), clinicID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, RoleReception, got[0].AssignedRole)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskConfigRepo_ListByClinicUnknownRole(t *testing.T) {
	mock, c := newMock(t)
	clinicID := uuid.New()

	mock.ExpectQuery("FROM clinic_task_configs WHERE clinic_id").
		WithArgs(clinicID).
		WillReturnRows(pgxmock.NewRows([]string{"clinic_id", "task_definition_id", "assigned_role", "is_enabled", "updated_at"}).
			AddRow(clinicID, uuid.New(), "JANITOR", true, time.Now()))

	_, err := c.TaskConfig.ListByClinic(context.Background(), clinicID)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
