package patient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/crypto"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
	"github.com/Alijeyrad/klinik_backend/pkg/util/phone"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

type ListPatientsRequest struct {
	Page    int
	PerPage int
	Search  string
}

type CreatePatientRequest struct {
	FullName   string     `json:"full_name"`
	Phone      string     `json:"phone"`
	NationalID *string    `json:"national_id"`
	BirthDate  *time.Time `json:"birth_date"`
	Notes      *string    `json:"notes"`
}

type UpdatePatientRequest struct {
	FullName   *string    `json:"full_name"`
	Phone      *string    `json:"phone"`
	NationalID *string    `json:"national_id"`
	BirthDate  *time.Time `json:"birth_date"`
	Notes      *string    `json:"notes"`
}

// Patient is the API view of a patient with the national id decrypted.
type Patient struct {
	*repo.Patient
	NationalID string `json:"national_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, clinicID uuid.UUID, req CreatePatientRequest) (*Patient, error)
	GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, req ListPatientsRequest) (*PaginatedResult[*repo.Patient], error)
	Update(ctx context.Context, clinicID, patientID uuid.UUID, req UpdatePatientRequest) (*Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	db     *repo.Client
	sealer *crypto.Sealer
	region string
	pub    events.Publisher
}

// New builds the service. sealer may be nil, in which case national ids are
// rejected.
func New(db *repo.Client, sealer *crypto.Sealer, region string, pub events.Publisher) Service {
	return &patientService{db: db, sealer: sealer, region: region, pub: pub}
}

func (s *patientService) Create(ctx context.Context, clinicID uuid.UUID, req CreatePatientRequest) (*Patient, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	p := &repo.Patient{ClinicID: clinicID, FullName: name, BirthDate: req.BirthDate}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if err := s.setPhone(p, req.Phone); err != nil {
		return nil, err
	}
	if req.NationalID != nil {
		if err := s.setNationalID(ctx, p, *req.NationalID); err != nil {
			return nil, err
		}
	}

	if err := s.db.Patient.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return s.view(p), nil
}

func (s *patientService) GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*Patient, error) {
	p, err := s.get(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

func (s *patientService) List(ctx context.Context, clinicID uuid.UUID, req ListPatientsRequest) (*PaginatedResult[*repo.Patient], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 20
	}
	offset := (req.Page - 1) * req.PerPage

	items, total, err := s.db.Patient.List(ctx, clinicID, strings.TrimSpace(req.Search), req.PerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	if items == nil {
		items = []*repo.Patient{}
	}

	return &PaginatedResult[*repo.Patient]{
		Data:       items,
		Total:      total,
		Page:       req.Page,
		PerPage:    req.PerPage,
		TotalPages: (total + req.PerPage - 1) / req.PerPage,
	}, nil
}

func (s *patientService) Update(ctx context.Context, clinicID, patientID uuid.UUID, req UpdatePatientRequest) (*Patient, error) {
	p, err := s.get(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	renamed := false

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrNameRequired
		}
		renamed = name != p.FullName
		p.FullName = name
	}
	if req.Phone != nil {
		if err := s.setPhone(p, *req.Phone); err != nil {
			return nil, err
		}
	}
	if req.NationalID != nil {
		if err := s.setNationalID(ctx, p, *req.NationalID); err != nil {
			return nil, err
		}
	}
	if req.BirthDate != nil {
		p.BirthDate = req.BirthDate
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	if err := s.db.Patient.Update(ctx, p); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}

	// Day views show patient names.
	if renamed {
		events.Emit(ctx, s.pub, constants.SubjectScheduleChanged, events.Event{
			ClinicID: clinicID,
			EntityID: p.ID,
			Kind:     events.KindUpdated,
		})
	}
	return s.view(p), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *patientService) get(ctx context.Context, clinicID, patientID uuid.UUID) (*repo.Patient, error) {
	p, err := s.db.Patient.Get(ctx, clinicID, patientID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *patientService) setPhone(p *repo.Patient, raw string) error {
	if strings.TrimSpace(raw) == "" {
		p.Phone = ""
		return nil
	}
	e164, err := phone.Normalize(raw, s.region)
	if err != nil {
		return ErrInvalidPhone
	}
	p.Phone = e164
	return nil
}

func (s *patientService) setNationalID(ctx context.Context, p *repo.Patient, raw string) error {
	id := strings.TrimSpace(raw)
	if id == "" {
		p.NationalIDEnc, p.NationalIDHash = "", ""
		return nil
	}
	if s.sealer == nil {
		return ErrEncryptionDisabled
	}

	hash := s.sealer.Fingerprint(id)
	existing, err := s.db.Patient.FindByNationalIDHash(ctx, p.ClinicID, hash)
	switch {
	case err == nil && existing.ID != p.ID:
		return ErrPatientAlreadyExists
	case err != nil && !repo.IsNotFound(err):
		return fmt.Errorf("check national id: %w", err)
	}

	enc, err := s.sealer.Seal(id)
	if err != nil {
		return fmt.Errorf("encrypt national id: %w", err)
	}
	p.NationalIDEnc, p.NationalIDHash = enc, hash
	return nil
}

func (s *patientService) view(p *repo.Patient) *Patient {
	out := &Patient{Patient: p}
	if p.NationalIDEnc == "" || s.sealer == nil {
		return out
	}
	id, err := s.sealer.Open(p.NationalIDEnc)
	if err != nil {
		slog.Warn("patient: national id does not decrypt", "patient_id", p.ID, "error", err)
		return out
	}
	out.NationalID = id
	return out
}
