package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

var (
	clinicColumns = []string{"id", "name", "timezone", "working_hours", "working_hours_overrides", "is_active", "created_at", "updated_at"}
	userColumns   = []string{"id", "clinic_id", "full_name", "email", "role", "is_active", "created_at", "updated_at"}
)

func TestClinicHeader(t *testing.T) {
	userID, clinicID, tokenClinic := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	clinicRow := func(id uuid.UUID, active bool) *pgxmock.Rows {
		return pgxmock.NewRows(clinicColumns).
			AddRow(id, "Dental One", "Europe/Istanbul", []byte(`{}`), []byte(`[]`), active, now, now)
	}
	userRow := func(cid uuid.UUID, role string, active bool) *pgxmock.Rows {
		return pgxmock.NewRows(userColumns).
			AddRow(userID, cid, "Ayse Demir", "ayse@example.com", role, active, now, now)
	}

	tests := []struct {
		name        string
		header      string
		tokenClinic *uuid.UUID
		expect      func(m pgxmock.PgxPoolIface)
		want        int
		wantClinic  uuid.UUID
	}{
		{
			name: "no header and no token clinic",
			want: http.StatusBadRequest,
		},
		{
			name:   "malformed header",
			header: "not-a-uuid",
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown clinic",
			header: clinicID.String(),
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(clinicID).WillReturnError(pgx.ErrNoRows)
			},
			want: http.StatusNotFound,
		},
		{
			name:   "inactive clinic",
			header: clinicID.String(),
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(clinicID).WillReturnRows(clinicRow(clinicID, false))
			},
			want: http.StatusNotFound,
		},
		{
			name:   "not staff of the clinic",
			header: clinicID.String(),
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(clinicID).WillReturnRows(clinicRow(clinicID, true))
				m.ExpectQuery("FROM users").WithArgs(clinicID, userID).WillReturnError(pgx.ErrNoRows)
			},
			want: http.StatusForbidden,
		},
		{
			name:   "deactivated staff",
			header: clinicID.String(),
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(clinicID).WillReturnRows(clinicRow(clinicID, true))
				m.ExpectQuery("FROM users").WithArgs(clinicID, userID).WillReturnRows(userRow(clinicID, "DOCTOR", false))
			},
			want: http.StatusForbidden,
		},
		{
			name:        "header wins over token clinic",
			header:      clinicID.String(),
			tokenClinic: &tokenClinic,
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(clinicID).WillReturnRows(clinicRow(clinicID, true))
				m.ExpectQuery("FROM users").WithArgs(clinicID, userID).WillReturnRows(userRow(clinicID, "DOCTOR", true))
			},
			want:       http.StatusOK,
			wantClinic: clinicID,
		},
		{
			name:        "falls back to token clinic",
			tokenClinic: &tokenClinic,
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("FROM clinics").WithArgs(tokenClinic).WillReturnRows(clinicRow(tokenClinic, true))
				m.ExpectQuery("FROM users").WithArgs(tokenClinic, userID).WillReturnRows(userRow(tokenClinic, "RECEPTION", true))
			},
			want:       http.StatusOK,
			wantClinic: tokenClinic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			if tt.expect != nil {
				tt.expect(mock)
			}

			var got reqctx.Staff
			app := fiber.New()
			app.Get("/",
				func(c fiber.Ctx) error {
					c.Locals(pasetotoken.CtxKeyClaims, &pasetotoken.Claims{UserID: userID, ClinicID: tt.tokenClinic})
					return c.Next()
				},
				ClinicHeader(repo.NewClient(mock)),
				func(c fiber.Ctx) error {
					fromLocals, found := StaffFromFiber(c)
					fromCtx, inCtx := reqctx.StaffFromContext(c.Context())
					if !found || !inCtx || fromLocals != fromCtx {
						return c.SendStatus(http.StatusTeapot)
					}
					got = fromLocals
					return c.SendStatus(http.StatusOK)
				},
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Clinic-ID", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NoError(t, mock.ExpectationsWereMet())

			if tt.want == http.StatusOK {
				assert.Equal(t, tt.wantClinic, got.ClinicID)
				assert.Equal(t, userID, got.UserID)
			}
		})
	}
}
