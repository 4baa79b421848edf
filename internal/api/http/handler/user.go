package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrOwnRole),
		errors.Is(err, user.ErrRoleNotGrantable):
		return forbidden(c)
	default:
		return internalError(c, err)
	}
}

// GET /users/me
func (h *UserHandler) GetMe(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	userID, valid := userIDFromClaims(c)
	if !valid {
		return unauthorized(c)
	}

	u, err := h.svc.Get(c.Context(), clinicID, userID)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// GET /users?role=
func (h *UserHandler) ListStaff(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	users, err := h.svc.ListStaff(c.Context(), clinicID, c.Query("role"))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, users)
}

// PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	viewer, valid := viewerFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	targetID, valid := uuidParam(c, "id")
	if !valid {
		return badRequest(c, "invalid user id")
	}

	var req user.UpdateRoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	actor := user.Actor{ID: viewer.UserID, Role: viewer.Role}
	u, err := h.svc.UpdateRole(c.Context(), viewer.ClinicID, actor, targetID, req)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}
