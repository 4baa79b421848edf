package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

// AuthRequired validates a Bearer PASETO access token. With sessionCheck set
// the token's sid must also be live in Redis under session:<sid>.
// On success the claims are stored in c.Locals(pasetotoken.CtxKeyClaims) and
// in the request context.
func AuthRequired(mgr *pasetotoken.Manager, rdb *redis.Client, sessionCheck bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		if claims.Type != pasetotoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		if sessionCheck {
			if claims.SessionID == nil {
				return fiber.ErrUnauthorized
			}
			if err := rdb.Get(c.Context(), "session:"+claims.SessionID.String()).Err(); err != nil {
				return fiber.ErrUnauthorized
			}
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}
