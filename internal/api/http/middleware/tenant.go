package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

const (
	LocalsClinicID  = "clinic_id"
	LocalsStaffRole = "staff_role"
	LocalsStaff     = "staff"
)

// StaffFromFiber returns the staff scope ClinicHeader stored for this request.
func StaffFromFiber(c fiber.Ctx) (reqctx.Staff, bool) {
	s, ok := c.Locals(LocalsStaff).(reqctx.Staff)
	return s, ok
}
