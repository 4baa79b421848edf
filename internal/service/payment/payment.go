package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	AppointmentID uuid.UUID          `json:"appointment_id"`
	Amount        int64              `json:"amount"`
	Status        repo.PaymentStatus `json:"status"`
	DueDate       *repo.Date         `json:"due_date"`
	Method        string             `json:"method"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListByAppointment(ctx context.Context, clinicID, appointmentID uuid.UUID) ([]*repo.Payment, error)
	Create(ctx context.Context, clinicID uuid.UUID, req CreateRequest) (*repo.Payment, error)
	UpdateStatus(ctx context.Context, clinicID, paymentID uuid.UUID, status repo.PaymentStatus) (*repo.Payment, error)
	Delete(ctx context.Context, clinicID, paymentID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type paymentService struct {
	db  *repo.Client
	pub events.Publisher
}

func New(db *repo.Client, pub events.Publisher) Service {
	return &paymentService{db: db, pub: pub}
}

func (s *paymentService) ListByAppointment(ctx context.Context, clinicID, appointmentID uuid.UUID) ([]*repo.Payment, error) {
	out, err := s.db.Payment.ListByAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

// Create records a payment against an appointment of the clinic. The
// patient is always taken from the appointment.
func (s *paymentService) Create(ctx context.Context, clinicID uuid.UUID, req CreateRequest) (*repo.Payment, error) {
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	status := req.Status
	if status == "" {
		status = repo.PaymentPlanned
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	appt, err := s.db.Appointment.Get(ctx, clinicID, req.AppointmentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" {
		method = "cash"
	}
	p := &repo.Payment{
		ClinicID:      clinicID,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		Amount:        req.Amount,
		Status:        status,
		Method:        method,
	}
	if req.DueDate != nil && !req.DueDate.IsZero() {
		due := req.DueDate.Start(time.UTC)
		p.DueDate = &due
	}

	if err := s.db.Payment.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	s.changed(ctx, p, events.KindCreated)
	return p, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, clinicID, paymentID uuid.UUID, status repo.PaymentStatus) (*repo.Payment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := s.get(ctx, clinicID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Payment.UpdateStatus(ctx, clinicID, paymentID, status); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	p.Status = status
	s.changed(ctx, p, events.KindUpdated)
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, clinicID, paymentID uuid.UUID) error {
	p, err := s.get(ctx, clinicID, paymentID)
	if err != nil {
		return err
	}
	if err := s.db.Payment.Delete(ctx, clinicID, paymentID); err != nil {
		if repo.IsNotFound(err) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("delete payment: %w", err)
	}
	s.changed(ctx, p, events.KindDeleted)
	return nil
}

func (s *paymentService) get(ctx context.Context, clinicID, paymentID uuid.UUID) (*repo.Payment, error) {
	p, err := s.db.Payment.Get(ctx, clinicID, paymentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// changed announces a payment change. The payment does not know the
// appointment's local day, so the whole clinic's cached days are dropped.
func (s *paymentService) changed(ctx context.Context, p *repo.Payment, kind events.Kind) {
	events.Emit(ctx, s.pub, constants.SubjectPaymentChanged, events.Event{
		ClinicID: p.ClinicID,
		EntityID: p.AppointmentID,
		Kind:     kind,
	})
}
