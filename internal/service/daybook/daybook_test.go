package daybook

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/cache"
)

const weekJSON = `{
	"monday":    {"open": "09:00", "close": "19:00", "enabled": true},
	"tuesday":   {"open": "09:00", "close": "19:00", "enabled": true},
	"wednesday": {"open": "09:00", "close": "19:00", "enabled": true},
	"thursday":  {"open": "09:00", "close": "19:00", "enabled": true},
	"friday":    {"open": "09:00", "close": "19:00", "enabled": true},
	"saturday":  {"open": "10:00", "close": "14:00", "enabled": true},
	"sunday":    {"enabled": false}
}`

var (
	clinicColumns = []string{"id", "name", "timezone", "working_hours", "working_hours_overrides",
		"is_active", "created_at", "updated_at"}
	appointmentColumns = []string{"id", "clinic_id", "patient_id", "doctor_id", "starts_at", "ends_at", "status",
		"channel", "treatment_type", "treatment_note", "estimated_amount", "tags", "created_at", "updated_at"}
	userColumns = []string{"id", "clinic_id", "full_name", "email", "role", "is_active", "created_at", "updated_at"}
)

type fixture struct {
	clinicID, apptID, patientID, doctorID uuid.UUID
	date                                  repo.Date
}

func newFixture(t *testing.T) fixture {
	d, err := repo.ParseDate("2026-03-30")
	require.NoError(t, err)
	return fixture{clinicID: uuid.New(), apptID: uuid.New(), patientID: uuid.New(), doctorID: uuid.New(), date: d}
}

// expectBuild queues one full snapshot build for f.
func expectBuild(mock pgxmock.PgxPoolIface, f fixture) {
	now := time.Now()
	start := f.date.Start(time.UTC).Add(10 * time.Hour)

	mock.ExpectQuery("FROM clinics").
		WithArgs(f.clinicID).
		WillReturnRows(pgxmock.NewRows(clinicColumns).
			AddRow(f.clinicID, "Merkez", "UTC", []byte(weekJSON),
				[]byte(`[{"date":"2026-03-31","is_closed":true,"note":"bayram"}]`), true, now, now))
	mock.ExpectQuery("FROM appointments").
		WithArgs(f.clinicID, f.date.Start(time.UTC), f.date.End(time.UTC)).
		WillReturnRows(pgxmock.NewRows(appointmentColumns).
			AddRow(f.apptID, f.clinicID, f.patientID, &f.doctorID, start, start.Add(30*time.Minute), "completed",
				"phone", (*string)(nil), (*string)(nil), (*int64)(nil), []string{}, now, now))
	mock.ExpectQuery("FROM payments").
		WithArgs(f.clinicID, []uuid.UUID{f.apptID}).
		WillReturnRows(pgxmock.NewRows([]string{"appointment_id"}).AddRow(f.apptID))
	mock.ExpectQuery("FROM patients").
		WithArgs(f.clinicID, []uuid.UUID{f.patientID}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name"}).AddRow(f.patientID, "Ayşe Yılmaz"))
	mock.ExpectQuery("FROM users").
		WithArgs(f.clinicID, "DOCTOR").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(f.doctorID, f.clinicID, "Dr. Kaya", "", "DOCTOR", true, now, now))
}

func setup(t *testing.T, withCache bool) (pgxmock.PgxPoolIface, *miniredis.Miniredis, Service) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	cfg := config.SchedulingConfig{DefaultTimezone: "Europe/Istanbul", CacheTTLSeconds: 60}
	if !withCache {
		return mock, nil, New(repo.NewClient(mock), nil, cfg)
	}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mock, mr, New(repo.NewClient(mock), cache.New(rdb, "klinik"), cfg)
}

func TestLoad_BuildsSnapshot(t *testing.T) {
	mock, _, svc := setup(t, false)
	f := newFixture(t)
	expectBuild(mock, f)

	snap, err := svc.Load(context.Background(), f.clinicID, f.date)
	require.NoError(t, err)

	assert.Equal(t, "UTC", snap.Timezone)
	require.Len(t, snap.Appointments, 1)
	assert.True(t, snap.Payments[f.apptID])
	assert.Equal(t, "Ayşe Yılmaz", snap.PatientNames[f.patientID])
	name, ok := snap.DoctorName(snap.Appointments[0])
	assert.True(t, ok)
	assert.Equal(t, "Dr. Kaya", name)
	require.Len(t, snap.Overrides, 1)
	assert.True(t, snap.Overrides[0].IsClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_CachedUntilInvalidated(t *testing.T) {
	mock, mr, svc := setup(t, true)
	ctx := context.Background()
	f := newFixture(t)

	expectBuild(mock, f)
	first, err := svc.Load(ctx, f.clinicID, f.date)
	require.NoError(t, err)
	assert.True(t, mr.Exists("klinik:"+Key(f.clinicID, f.date)))
	assert.Equal(t, 60*time.Second, mr.TTL("klinik:"+Key(f.clinicID, f.date)))

	// Served from redis: no new expectations queued.
	second, err := svc.Load(ctx, f.clinicID, f.date)
	require.NoError(t, err)
	assert.Equal(t, first.Appointments[0].ID, second.Appointments[0].ID)
	assert.True(t, second.Payments[f.apptID])
	assert.Equal(t, first.WorkingHours, second.WorkingHours)
	require.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, svc.Invalidate(ctx, f.clinicID, f.date))
	assert.False(t, mr.Exists("klinik:"+Key(f.clinicID, f.date)))

	expectBuild(mock, f)
	_, err = svc.Load(ctx, f.clinicID, f.date)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateClinic(t *testing.T) {
	_, mr, svc := setup(t, true)
	ctx := context.Background()
	clinicID, other := uuid.New(), uuid.New()
	d1, _ := repo.ParseDate("2026-03-30")
	d2, _ := repo.ParseDate("2026-03-31")

	require.NoError(t, mr.Set("klinik:"+Key(clinicID, d1), "{}"))
	require.NoError(t, mr.Set("klinik:"+Key(clinicID, d2), "{}"))
	require.NoError(t, mr.Set("klinik:"+Key(other, d1), "{}"))

	require.NoError(t, svc.InvalidateClinic(ctx, clinicID))
	assert.False(t, mr.Exists("klinik:"+Key(clinicID, d1)))
	assert.False(t, mr.Exists("klinik:"+Key(clinicID, d2)))
	assert.True(t, mr.Exists("klinik:"+Key(other, d1)))
}

func TestLoad_ClinicNotFound(t *testing.T) {
	mock, _, svc := setup(t, false)
	f := newFixture(t)
	mock.ExpectQuery("FROM clinics").
		WithArgs(f.clinicID).
		WillReturnRows(pgxmock.NewRows(clinicColumns))

	_, err := svc.Load(context.Background(), f.clinicID, f.date)
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestSnapshot_Location(t *testing.T) {
	s := &Snapshot{Timezone: "Europe/Istanbul"}
	assert.Equal(t, "Europe/Istanbul", s.Location().String())
	s.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, s.Location())
}
