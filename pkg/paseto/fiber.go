package pasetotoken

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/config"
)

const CtxKeyClaims = "auth.claims"

// ClaimsFromFiber returns the claims AuthRequired stored for this request.
func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	cl, ok := c.Locals(CtxKeyClaims).(*Claims)
	return cl, ok && cl != nil
}

func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto
	keys, err := KeysFromConfig(p)
	if err != nil {
		return nil, err
	}
	return New(Config{
		Mode:      Mode(p.Mode),
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		AccessTTL: time.Duration(p.AccessTTLMinutes) * time.Minute,
	}, keys)
}
