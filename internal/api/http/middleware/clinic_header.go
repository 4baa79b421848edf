package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

// ClinicHeader reads the clinic ID from the X-Clinic-ID header, falling back
// to the clinic the access token was issued for. It checks the clinic is
// active and that the authenticated user is active staff of it. The staff
// scope lands in Locals and in the request context so RequirePermission and
// the handlers see the same tenant.
func ClinicHeader(db *repo.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		clinicID, err := requestedClinic(c, claims)
		if err != nil {
			return err
		}

		clinic, err := db.Clinic.Get(c.Context(), clinicID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fiber.ErrNotFound
			}
			return err
		}
		if !clinic.IsActive {
			return fiber.ErrNotFound
		}

		u, err := db.User.GetInClinic(c.Context(), clinicID, claims.UserID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fiber.ErrForbidden
			}
			return err
		}
		if !u.IsActive {
			return fiber.ErrForbidden
		}

		staff := reqctx.Staff{ClinicID: clinicID, UserID: u.ID, Role: string(u.Role)}
		c.Locals(LocalsClinicID, clinicID.String())
		c.Locals(LocalsStaffRole, staff.Role)
		c.Locals(LocalsStaff, staff)
		c.SetContext(reqctx.WithStaff(c.Context(), staff))

		return c.Next()
	}
}

func requestedClinic(c fiber.Ctx, claims *pasetotoken.Claims) (uuid.UUID, error) {
	idStr := c.Get("X-Clinic-ID")
	if idStr == "" {
		if claims.ClinicID != nil {
			return *claims.ClinicID, nil
		}
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "X-Clinic-ID header is required")
	}
	clinicID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid X-Clinic-ID value")
	}
	return clinicID, nil
}
