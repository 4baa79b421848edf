package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

// Only access tokens are minted here; refresh tokens come from the identity
// service and are rejected on API routes.
const TokenTypeAccess TokenType = "access"

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	ClinicID  *uuid.UUID
	SessionID *uuid.UUID

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
}

func (c *Claims) GetUserID() uuid.UUID { return c.UserID }

func (c *Claims) GetSessionID() *uuid.UUID { return c.SessionID }
