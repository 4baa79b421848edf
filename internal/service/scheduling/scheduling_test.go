package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
)

type fakeDays struct {
	snap *daybook.Snapshot
	err  error
}

func (f *fakeDays) Load(context.Context, uuid.UUID, repo.Date) (*daybook.Snapshot, error) {
	return f.snap, f.err
}
func (f *fakeDays) Invalidate(context.Context, uuid.UUID, ...repo.Date) error { return nil }
func (f *fakeDays) InvalidateClinic(context.Context, uuid.UUID) error         { return nil }

func TestDayView(t *testing.T) {
	clinicID, patientID := uuid.New(), uuid.New()
	known, ghost := uuid.New(), uuid.New()

	snap := &daybook.Snapshot{
		ClinicID:     clinicID,
		Date:         monday,
		Timezone:     "UTC",
		WorkingHours: weekdayHours(),
		Appointments: []*repo.Appointment{
			{ID: uuid.New(), PatientID: patientID, DoctorID: &known, StartsAt: at(9, 0), EndsAt: at(9, 30), Status: repo.StatusConfirmed},
			{ID: uuid.New(), PatientID: patientID, DoctorID: &ghost, StartsAt: at(12, 0), EndsAt: at(12, 30), Status: repo.StatusPending},
			{ID: uuid.New(), PatientID: patientID, StartsAt: at(20, 0), EndsAt: at(20, 30), Status: repo.StatusPending},
		},
		PatientNames: map[uuid.UUID]string{patientID: "Ayşe Yılmaz"},
		DoctorNames:  map[uuid.UUID]string{known: "Dr. Kaya"},
	}
	svc := New(nil, &fakeDays{snap: snap})

	view, err := svc.DayView(context.Background(), clinicID, monday)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-30", view.Date)
	assert.Equal(t, WindowView{Open: "09:00", Close: "19:00", Enabled: true}, view.Window)
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, view.Slots)
	require.Len(t, view.Appointments, 3)

	assert.Equal(t, "Dr. Kaya", view.Appointments[0].DoctorName)
	assert.True(t, view.Appointments[0].DoctorAssigned)
	assert.Equal(t, "Ayşe Yılmaz", view.Appointments[0].PatientName)

	// Unknown doctor id renders like an unassigned appointment.
	assert.Equal(t, DoctorNotAssigned, view.Appointments[1].DoctorName)
	assert.False(t, view.Appointments[1].DoctorAssigned)
	assert.Equal(t, DoctorNotAssigned, view.Appointments[2].DoctorName)
	assert.Equal(t, 20, view.Appointments[2].Hour)
}

func TestDayView_Errors(t *testing.T) {
	svc := New(nil, &fakeDays{err: daybook.ErrClinicNotFound})
	_, err := svc.DayView(context.Background(), uuid.New(), monday)
	assert.ErrorIs(t, err, ErrClinicNotFound)

	boom := errors.New("connection refused")
	svc = New(nil, &fakeDays{err: boom})
	_, err = svc.DayView(context.Background(), uuid.New(), monday)
	assert.ErrorIs(t, err, boom)

	weekly := weekdayHours()
	delete(weekly, time.Monday)
	svc = New(nil, &fakeDays{snap: &daybook.Snapshot{Date: monday, Timezone: "UTC", WorkingHours: weekly}})
	_, err = svc.DayView(context.Background(), uuid.New(), monday)
	assert.ErrorIs(t, err, ErrMalformedSchedule)
}

func TestCheckConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	clinicID, doctorID, patientID := uuid.New(), uuid.New(), uuid.New()
	existingID := uuid.New()
	now := time.Now()

	cols := []string{"id", "clinic_id", "patient_id", "doctor_id", "starts_at", "ends_at", "status", "channel",
		"treatment_type", "treatment_note", "estimated_amount", "tags", "created_at", "updated_at"}
	mock.ExpectQuery("FROM appointments").
		WithArgs(clinicID, doctorID, at(10, 15), at(10, 45)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(existingID, clinicID, patientID, &doctorID, at(10, 0), at(10, 30), "confirmed", "phone",
				(*string)(nil), (*string)(nil), (*int64)(nil), []string{}, now, now))

	svc := New(repo.NewClient(mock), &fakeDays{})
	res, err := svc.CheckConflict(context.Background(), clinicID, ConflictRequest{
		DoctorID: doctorID,
		StartsAt: at(10, 15),
		EndsAt:   at(10, 45),
	})
	require.NoError(t, err)
	assert.True(t, res.Conflict)
	assert.Equal(t, []uuid.UUID{existingID}, res.Conflicting)
	assert.NotEmpty(t, res.Warning)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckConflict_Validation(t *testing.T) {
	svc := New(nil, &fakeDays{})
	_, err := svc.CheckConflict(context.Background(), uuid.New(), ConflictRequest{StartsAt: at(10, 0), EndsAt: at(11, 0)})
	assert.ErrorIs(t, err, ErrDoctorRequired)

	_, err = svc.CheckConflict(context.Background(), uuid.New(), ConflictRequest{DoctorID: uuid.New(), StartsAt: at(11, 0), EndsAt: at(10, 0)})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
