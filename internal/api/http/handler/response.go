package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

// Successful bodies are {"data": ...}; failures are {"error": "..."}.

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c fiber.Ctx, msg string) error { return fail(c, fiber.StatusBadRequest, msg) }
func notFound(c fiber.Ctx, msg string) error   { return fail(c, fiber.StatusNotFound, msg) }
func conflict(c fiber.Ctx, msg string) error   { return fail(c, fiber.StatusConflict, msg) }
func unprocessable(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusUnprocessableEntity, msg)
}

func unauthorized(c fiber.Ctx) error { return fail(c, fiber.StatusUnauthorized, "unauthorized") }
func forbidden(c fiber.Ctx) error    { return fail(c, fiber.StatusForbidden, "forbidden") }

// internalError logs err and never leaks it to the client.
func internalError(c fiber.Ctx, err error) error {
	attrs := append(reqctx.LogAttrs(c.Context()), "method", c.Method(), "path", c.Path(), "error", err)
	slog.ErrorContext(c.Context(), "http: unhandled error", attrs...)
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler renders errors that escape handlers and middleware (routing
// misses, body limits, recovered panics) in the same envelope.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fail(c, fe.Code, fe.Message)
	}
	return internalError(c, err)
}
