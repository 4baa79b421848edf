package authorize

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

// mockClaims implements reqctx.AuthClaims for testing
type mockClaims struct {
	userID uuid.UUID
}

func (m *mockClaims) GetUserID() uuid.UUID     { return m.userID }
func (m *mockClaims) GetSessionID() *uuid.UUID { return nil }

func TestSubjectFromContext(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name        string
		setupCtx    func() context.Context
		wantSubject GroupSubject
		wantErr     bool
	}{
		{
			name: "valid claims",
			setupCtx: func() context.Context {
				return reqctx.WithClaims(context.Background(), &mockClaims{userID: validUUID})
			},
			wantSubject: GroupSubject(validUUID.String()),
		},
		{
			name:     "no claims in context",
			setupCtx: context.Background,
			wantErr:  true,
		},
		{
			name: "nil uuid in claims",
			setupCtx: func() context.Context {
				return reqctx.WithClaims(context.Background(), &mockClaims{userID: uuid.Nil})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := SubjectFromContext(tt.setupCtx())

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if subject != tt.wantSubject {
				t.Errorf("SubjectFromContext() = %q, want %q", subject, tt.wantSubject)
			}
		})
	}
}

func TestMustSubjectFromContext(t *testing.T) {
	t.Run("panics when no claims", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic but got none")
			}
		}()
		MustSubjectFromContext(context.Background())
	})

	t.Run("returns subject when claims exist", func(t *testing.T) {
		id := uuid.New()
		ctx := reqctx.WithClaims(context.Background(), &mockClaims{userID: id})
		if got := MustSubjectFromContext(ctx); got != GroupSubject(id.String()) {
			t.Errorf("MustSubjectFromContext() = %q, want %q", got, id.String())
		}
	})
}

func TestDomainFromContext(t *testing.T) {
	if got := DomainFromContext(context.Background()); got != DomainSys {
		t.Errorf("DomainFromContext() = %q, want sys", got)
	}

	clinicID := uuid.New()
	ctx := reqctx.WithStaff(context.Background(), reqctx.Staff{ClinicID: clinicID, UserID: uuid.New(), Role: "ADMIN"})
	if got := DomainFromContext(ctx); got != ClinicDomain(clinicID.String()) {
		t.Errorf("DomainFromContext() = %q, want clinic domain", got)
	}
}
