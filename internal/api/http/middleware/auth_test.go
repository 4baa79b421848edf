package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

func newTestManager(t *testing.T) *pasetotoken.Manager {
	t.Helper()
	keys := pasetotoken.NewLocalKeys()
	m, err := pasetotoken.New(pasetotoken.Config{
		Mode:      keys.Mode,
		Issuer:    "klinik",
		Audience:  "klinik-api",
		AccessTTL: time.Minute,
	}, keys)
	require.NoError(t, err)
	return m
}

func TestAuthRequired(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mgr := newTestManager(t)
	userID, sessionID := uuid.New(), uuid.New()

	withSession, err := mgr.IssueAccess(pasetotoken.Subject{UserID: userID, SessionID: &sessionID})
	require.NoError(t, err)
	noSession, err := mgr.IssueAccess(pasetotoken.Subject{UserID: userID})
	require.NoError(t, err)
	foreign, err := newTestManager(t).IssueAccess(pasetotoken.Subject{UserID: userID})
	require.NoError(t, err)

	require.NoError(t, mr.Set("session:"+sessionID.String(), userID.String()))

	tests := []struct {
		name         string
		header       string
		sessionCheck bool
		want         int
	}{
		{"no header", "", false, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", false, http.StatusUnauthorized},
		{"foreign key", "Bearer " + foreign, false, http.StatusUnauthorized},
		{"valid token", "Bearer " + noSession, false, http.StatusOK},
		{"session required but absent", "Bearer " + noSession, true, http.StatusUnauthorized},
		{"live session", "bearer " + withSession, true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", AuthRequired(mgr, rdb, tt.sessionCheck), func(c fiber.Ctx) error {
				claims, found := pasetotoken.ClaimsFromFiber(c)
				if !found || claims.UserID != userID {
					return c.SendStatus(http.StatusTeapot)
				}
				if id, found := reqctx.UserIDFromContext(c.Context()); !found || id != userID {
					return c.SendStatus(http.StatusTeapot)
				}
				return c.SendStatus(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	t.Run("expired session", func(t *testing.T) {
		mr.Del("session:" + sessionID.String())
		app := fiber.New()
		app.Get("/", AuthRequired(mgr, rdb, true), func(c fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+withSession)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
