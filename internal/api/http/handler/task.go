package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
)

type TaskHandler struct {
	svc task.Service
}

func NewTaskHandler(svc task.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func mapTaskError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, task.ErrUnknownTask):
		return notFound(c, err.Error())
	case errors.Is(err, task.ErrInvalidRole):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /tasks/definitions
func (h *TaskHandler) ListDefinitions(c fiber.Ctx) error {
	defs, err := h.svc.ListDefinitions(c.Context())
	if err != nil {
		return mapTaskError(c, err)
	}
	return ok(c, defs)
}

// GET /tasks/configs
//
// Returns the effective assignment of every catalog task, merged with the
// clinic's overrides.
func (h *TaskHandler) ListConfigs(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	tasks, err := h.svc.Effective(c.Context(), clinicID)
	if err != nil {
		return mapTaskError(c, err)
	}
	return ok(c, tasks)
}

// PUT /tasks/configs/:code
func (h *TaskHandler) UpsertConfig(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var req task.UpsertConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cfg, err := h.svc.UpsertConfig(c.Context(), clinicID, repo.TaskCode(c.Params("code")), req)
	if err != nil {
		return mapTaskError(c, err)
	}
	return ok(c, cfg)
}
