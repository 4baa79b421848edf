package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// Staff is the caller's membership in the clinic the request targets.
type Staff struct {
	ClinicID uuid.UUID
	UserID   uuid.UUID
	// Role is the stored staff role string, e.g. "DOCTOR".
	Role string
}

func WithStaff(ctx context.Context, s Staff) context.Context {
	return context.WithValue(ctx, keyStaff, s)
}

// StaffFromContext returns the staff scope, or false outside clinic routes.
func StaffFromContext(ctx context.Context) (Staff, bool) {
	s, ok := ctx.Value(keyStaff).(Staff)
	return s, ok
}
