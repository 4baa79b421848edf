package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/crypto"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var patientColumns = []string{"id", "clinic_id", "full_name", "phone", "national_id_enc", "national_id_hash",
	"birth_date", "notes", "created_at", "updated_at"}

type recorder struct{ subjects []string }

func (r *recorder) Publish(_ context.Context, subject string, _ events.Event) error {
	r.subjects = append(r.subjects, subject)
	return nil
}

func setup(t *testing.T) (pgxmock.PgxPoolIface, *crypto.Sealer, *recorder, Service) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	sealer, err := crypto.NewSealer(testKey)
	require.NoError(t, err)
	pub := &recorder{}
	return mock, sealer, pub, New(repo.NewClient(mock), sealer, "TR", pub)
}

func TestCreate(t *testing.T) {
	mock, sealer, _, svc := setup(t)
	clinicID := uuid.New()
	now := time.Now()
	nid := "10000000146"

	mock.ExpectQuery("national_id_hash = ").
		WithArgs(clinicID, sealer.Fingerprint(nid)).
		WillReturnRows(pgxmock.NewRows(patientColumns))
	mock.ExpectQuery("INSERT INTO patients").
		WithArgs(pgxmock.AnyArg(), clinicID, "Ayşe Yılmaz", "+905321234567", pgxmock.AnyArg(),
			sealer.Fingerprint(nid), (*time.Time)(nil), "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p, err := svc.Create(context.Background(), clinicID, CreatePatientRequest{
		FullName:   "  Ayşe Yılmaz ",
		Phone:      "0532 123 45 67",
		NationalID: &nid,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", p.FullName)
	assert.Equal(t, "+905321234567", p.Phone)
	assert.Equal(t, nid, p.NationalID)
	assert.NotEqual(t, nid, p.NationalIDEnc)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateNationalID(t *testing.T) {
	mock, sealer, _, svc := setup(t)
	clinicID := uuid.New()
	now := time.Now()
	nid := "10000000146"

	mock.ExpectQuery("national_id_hash = ").
		WithArgs(clinicID, sealer.Fingerprint(nid)).
		WillReturnRows(pgxmock.NewRows(patientColumns).
			AddRow(uuid.New(), clinicID, "Existing", "", "x", sealer.Fingerprint(nid), (*time.Time)(nil), "", now, now))

	_, err := svc.Create(context.Background(), clinicID, CreatePatientRequest{FullName: "New", NationalID: &nid})
	assert.ErrorIs(t, err, ErrPatientAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Validation(t *testing.T) {
	_, _, _, svc := setup(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreatePatientRequest{FullName: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), uuid.New(), CreatePatientRequest{FullName: "A", Phone: "12"})
	assert.ErrorIs(t, err, ErrInvalidPhone)

	nid := "10000000146"
	noKey := New(nil, nil, "TR", nil)
	_, err = noKey.Create(context.Background(), uuid.New(), CreatePatientRequest{FullName: "A", NationalID: &nid})
	assert.ErrorIs(t, err, ErrEncryptionDisabled)
}

func TestUpdate_RenameEmitsScheduleChange(t *testing.T) {
	mock, _, pub, svc := setup(t)
	clinicID, patientID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM patients WHERE clinic_id").
		WithArgs(clinicID, patientID).
		WillReturnRows(pgxmock.NewRows(patientColumns).
			AddRow(patientID, clinicID, "Old Name", "", "", "", (*time.Time)(nil), "", now, now))
	mock.ExpectQuery("UPDATE patients").
		WithArgs(clinicID, patientID, "New Name", "", "", "", (*time.Time)(nil), "").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	name := "New Name"
	p, err := svc.Update(context.Background(), clinicID, patientID, UpdatePatientRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", p.FullName)
	assert.Len(t, pub.subjects, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock, _, _, svc := setup(t)
	clinicID, patientID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM patients WHERE clinic_id").
		WithArgs(clinicID, patientID).
		WillReturnRows(pgxmock.NewRows(patientColumns))

	_, err := svc.GetByID(context.Background(), clinicID, patientID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestList_Paging(t *testing.T) {
	mock, _, _, svc := setup(t)
	clinicID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(clinicID, "ay").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery("ORDER BY full_name").
		WithArgs(clinicID, "ay", 20, 20).
		WillReturnRows(pgxmock.NewRows(patientColumns).
			AddRow(uuid.New(), clinicID, "Ayşe", "", "", "", (*time.Time)(nil), "", now, now))

	res, err := svc.List(context.Background(), clinicID, ListPatientsRequest{Page: 2, PerPage: 500, Search: " ay "})
	require.NoError(t, err)
	assert.Equal(t, 41, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 20, res.PerPage)
	assert.Len(t, res.Data, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
