package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

var (
	appointmentColumns = []string{"id", "clinic_id", "patient_id", "doctor_id", "starts_at", "ends_at", "status",
		"channel", "treatment_type", "treatment_note", "estimated_amount", "tags", "created_at", "updated_at"}
	paymentColumns = []string{"id", "clinic_id", "appointment_id", "patient_id", "amount", "status", "due_date",
		"method", "created_at", "updated_at"}
)

type recorder struct {
	subjects []string
	events   []events.Event
}

func (r *recorder) Publish(_ context.Context, subject string, ev events.Event) error {
	r.subjects = append(r.subjects, subject)
	r.events = append(r.events, ev)
	return nil
}

func setup(t *testing.T) (pgxmock.PgxPoolIface, *recorder, Service) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	pub := &recorder{}
	return mock, pub, New(repo.NewClient(mock), pub)
}

func TestCreate_TakesPatientFromAppointment(t *testing.T) {
	mock, pub, svc := setup(t)
	clinicID, apptID, patientID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	start := time.Date(2026, time.March, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM appointments WHERE clinic_id").
		WithArgs(clinicID, apptID).
		WillReturnRows(pgxmock.NewRows(appointmentColumns).
			AddRow(apptID, clinicID, patientID, (*uuid.UUID)(nil), start, start.Add(time.Hour), "completed", "phone",
				(*string)(nil), (*string)(nil), (*int64)(nil), []string{}, now, now))

	due := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), clinicID, apptID, patientID, int64(150000), "partial", &due, "card").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	dueDate := repo.Date{Year: 2026, Month: time.April, Day: 15}
	p, err := svc.Create(context.Background(), clinicID, CreateRequest{
		AppointmentID: apptID,
		Amount:        150000,
		Status:        repo.PaymentPartial,
		DueDate:       &dueDate,
		Method:        " Card ",
	})
	require.NoError(t, err)
	assert.Equal(t, patientID, p.PatientID)
	assert.Equal(t, "card", p.Method)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, pub.events, 1)
	assert.Equal(t, constants.SubjectPaymentChanged, pub.subjects[0])
	assert.Empty(t, pub.events[0].Dates)
	assert.Equal(t, apptID, pub.events[0].EntityID)
}

func TestCreate_Validation(t *testing.T) {
	mock, pub, svc := setup(t)
	clinicID, apptID := uuid.New(), uuid.New()

	_, err := svc.Create(context.Background(), clinicID, CreateRequest{AppointmentID: apptID, Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(context.Background(), clinicID, CreateRequest{AppointmentID: apptID, Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	mock.ExpectQuery("FROM appointments WHERE clinic_id").
		WithArgs(clinicID, apptID).
		WillReturnRows(pgxmock.NewRows(appointmentColumns))
	_, err = svc.Create(context.Background(), clinicID, CreateRequest{AppointmentID: apptID, Amount: 100})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.Empty(t, pub.events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	mock, pub, svc := setup(t)
	clinicID, paymentID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM payments WHERE clinic_id").
		WithArgs(clinicID, paymentID).
		WillReturnRows(pgxmock.NewRows(paymentColumns).
			AddRow(paymentID, clinicID, uuid.New(), uuid.New(), int64(5000), "planned", (*time.Time)(nil), "cash", now, now))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(clinicID, paymentID, "paid").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	p, err := svc.UpdateStatus(context.Background(), clinicID, paymentID, repo.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, repo.PaymentPaid, p.Status)
	assert.Len(t, pub.events, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	mock, pub, svc := setup(t)
	clinicID, paymentID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM payments WHERE clinic_id").
		WithArgs(clinicID, paymentID).
		WillReturnRows(pgxmock.NewRows(paymentColumns))

	err := svc.Delete(context.Background(), clinicID, paymentID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Empty(t, pub.events)
}
