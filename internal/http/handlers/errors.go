package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"tacklepos/internal/domain"
	"tacklepos/internal/log"
)

const friendlyMessage = "Something went wrong. Please try again."

// statusOf maps domain errors to HTTP codes; anything unknown is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID), errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail answers a known domain error as JSON and hands anything else to the
// app ErrorHandler.
func fail(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code == fiber.StatusInternalServerError {
		return err
	}
	if code == fiber.StatusBadRequest {
		log.Security(c, "validation.fail", map[string]any{"err": err.Error()})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	log.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler logs the failure and shows a friendly message. Internals never
// reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fe.Code).Render("notfound", fiber.Map{"Message": fe.Message})
	}

	log.Error(c, "server.error", err, nil)
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendlyMessage})
	}
	if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": friendlyMessage,
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(friendlyMessage)
	}
	return nil
}

// NotFound is the catch-all route.
func NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}
