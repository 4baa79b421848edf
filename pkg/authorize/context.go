package authorize

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

var (
	ErrNoSubjectInContext = errors.New("no subject found in context")
)

// SubjectFromContext extracts the GroupSubject (user ID) from the request
// claims.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	return GroupSubject(userID.String()), nil
}

// MustSubjectFromContext extracts the GroupSubject from context or panics.
// Use only behind the auth middleware.
func MustSubjectFromContext(ctx context.Context) GroupSubject {
	subject, err := SubjectFromContext(ctx)
	if err != nil {
		panic(err)
	}
	return subject
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := reqctx.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNoSubjectInContext
	}
	userID := claims.GetUserID()
	if userID == uuid.Nil {
		return uuid.Nil, ErrNoSubjectInContext
	}
	return userID, nil
}

// DomainFromContext returns the clinic domain of the request's staff scope,
// or the sys domain outside clinic routes.
func DomainFromContext(ctx context.Context) Domain {
	if staff, ok := reqctx.StaffFromContext(ctx); ok && staff.ClinicID != uuid.Nil {
		return ClinicDomain(staff.ClinicID.String())
	}
	return DomainSys
}
