package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
)

func clinicIDFromLocals(c fiber.Ctx) (uuid.UUID, bool) {
	s, hasKey := c.Locals(middleware.LocalsClinicID).(string)
	if !hasKey || s == "" {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

func userIDFromClaims(c fiber.Ctx) (uuid.UUID, bool) {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return uuid.UUID{}, false
	}
	return claims.UserID, true
}

// viewerFromLocals builds the dashboard identity from the staff scope.
func viewerFromLocals(c fiber.Ctx) (task.Viewer, bool) {
	staff, found := middleware.StaffFromFiber(c)
	if !found {
		return task.Viewer{}, false
	}
	role, err := repo.ParseRole(staff.Role)
	if err != nil {
		return task.Viewer{}, false
	}
	return task.Viewer{UserID: staff.UserID, ClinicID: staff.ClinicID, Role: role}, true
}

// dateQuery reads a required YYYY-MM-DD query parameter.
func dateQuery(c fiber.Ctx, key string) (repo.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return repo.Date{}, false
	}
	d, err := repo.ParseDate(raw)
	if err != nil {
		return repo.Date{}, false
	}
	return d, true
}

func uuidParam(c fiber.Ctx, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(key))
	return id, err == nil
}
