package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

const HeaderRequestID = "X-Request-Id"

// maxRequestIDLen caps client-supplied ids before they reach logs.
const maxRequestIDLen = 128

// RequestID keeps a sane incoming X-Request-Id or mints a UUID, echoes it in
// the response and puts the request metadata on the request context.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		c.SetContext(reqctx.WithRequestMeta(c.Context(), &reqctx.RequestMeta{
			RequestID:   rid,
			ClientIP:    c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			RequestedAt: time.Now(),
		}))
		return c.Next()
	}
}
