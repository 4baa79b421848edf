package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is what the request scope needs from a verified token.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetSessionID() *uuid.UUID
}

func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

func ClaimsFromContext(ctx context.Context) (AuthClaims, bool) {
	claims, ok := ctx.Value(keyClaims).(AuthClaims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns uuid.Nil and false for anonymous requests.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.GetUserID(), true
}
