package repo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentStatus string

const (
	PaymentPlanned   PaymentStatus = "planned"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

var PaymentStatuses = []PaymentStatus{PaymentPlanned, PaymentPartial, PaymentPaid, PaymentCancelled}

func (s PaymentStatus) Valid() bool { return slices.Contains(PaymentStatuses, s) }

// Payment amounts are integer minor currency units.
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	ClinicID      uuid.UUID     `json:"clinic_id"`
	AppointmentID uuid.UUID     `json:"appointment_id"`
	PatientID     uuid.UUID     `json:"patient_id"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	Method        string        `json:"method"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PaymentRepo struct{ db Querier }

const paymentCols = `id, clinic_id, appointment_id, patient_id, amount, status, due_date, method, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		p      Payment
		status string
	)
	err := row.Scan(&p.ID, &p.ClinicID, &p.AppointmentID, &p.PatientID, &p.Amount, &status,
		&p.DueDate, &p.Method, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = PaymentStatus(status)
	return &p, nil
}

func (r *PaymentRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE clinic_id = $1 AND id = $2`, clinicID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PaymentRepo) ListByAppointment(ctx context.Context, clinicID, appointmentID uuid.UUID) ([]*Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE clinic_id = $1 AND appointment_id = $2 ORDER BY created_at`,
		clinicID, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExistsFor reports, for each given appointment, whether at least one
// payment row references it. Every requested id is present in the result.
func (r *PaymentRepo) ExistsFor(ctx context.Context, clinicID uuid.UUID, appointmentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(appointmentIDs))
	for _, id := range appointmentIDs {
		out[id] = false
	}
	if len(appointmentIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT appointment_id FROM payments WHERE clinic_id = $1 AND appointment_id = ANY($2)`,
		clinicID, appointmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (r *PaymentRepo) Create(ctx context.Context, p *Payment) error {
	if !p.Status.Valid() {
		return fmt.Errorf("invalid payment status %q", p.Status)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO payments (id, clinic_id, appointment_id, patient_id, amount, status, due_date, method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		p.ID, p.ClinicID, p.AppointmentID, p.PatientID, p.Amount, string(p.Status), p.DueDate, p.Method,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, clinicID, id uuid.UUID, status PaymentStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $3, updated_at = now() WHERE clinic_id = $1 AND id = $2`,
		clinicID, id, string(status))
	if err != nil {
		return err
	}
	return expectOne(tag)
}

func (r *PaymentRepo) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE clinic_id = $1 AND id = $2`, clinicID, id)
	if err != nil {
		return err
	}
	return expectOne(tag)
}
