package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Patient struct {
	ID             uuid.UUID  `json:"id"`
	ClinicID       uuid.UUID  `json:"clinic_id"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	NationalIDEnc  string     `json:"-"`
	NationalIDHash string     `json:"-"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type PatientRepo struct{ db Querier }

const patientCols = `id, clinic_id, full_name, phone, national_id_enc, national_id_hash, birth_date, notes, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.ClinicID, &p.FullName, &p.Phone, &p.NationalIDEnc, &p.NationalIDHash,
		&p.BirthDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.db.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE clinic_id = $1 AND id = $2`, clinicID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// FindByNationalIDHash looks a patient up by the keyed hash of the id.
func (r *PatientRepo) FindByNationalIDHash(ctx context.Context, clinicID uuid.UUID, hash string) (*Patient, error) {
	p, err := scanPatient(r.db.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE clinic_id = $1 AND national_id_hash = $2`, clinicID, hash))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// List pages through a clinic's patients, filtered by a name or phone
// fragment when search is non-empty.
func (r *PatientRepo) List(ctx context.Context, clinicID uuid.UUID, search string, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE clinic_id = $1 AND ($2 = '' OR full_name ILIKE '%' || $2 || '%' OR phone LIKE '%' || $2 || '%')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, clinicID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+patientCols+` FROM patients`+where+` ORDER BY full_name LIMIT $3 OFFSET $4`,
		clinicID, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// NamesByIDs maps patient ids to display names.
func (r *PatientRepo) NamesByIDs(ctx context.Context, clinicID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, full_name FROM patients WHERE clinic_id = $1 AND id = ANY($2)`, clinicID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (r *PatientRepo) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO patients (id, clinic_id, full_name, phone, national_id_enc, national_id_hash, birth_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		p.ID, p.ClinicID, p.FullName, p.Phone, p.NationalIDEnc, p.NationalIDHash, p.BirthDate, p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PatientRepo) Update(ctx context.Context, p *Patient) error {
	err := r.db.QueryRow(ctx, `
		UPDATE patients SET full_name = $3, phone = $4, national_id_enc = $5, national_id_hash = $6,
			birth_date = $7, notes = $8, updated_at = now()
		WHERE clinic_id = $1 AND id = $2
		RETURNING updated_at`,
		p.ClinicID, p.ID, p.FullName, p.Phone, p.NationalIDEnc, p.NationalIDHash, p.BirthDate, p.Notes,
	).Scan(&p.UpdatedAt)
	return notFound(err)
}
