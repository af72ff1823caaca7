package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/http/handlers"
)

func newErrApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates", false),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/api/v1/err", func(c *fiber.Ctx) error {
		return errors.Wrap(errors.New("disk I/O error"), "list products")
	})
	app.Get("/api/v1/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusGone, "gone")
	})
	app.Use(handlers.NotFound)
	return app
}

// Internal failures render a friendly page; details stay in the log.
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := newErrApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	assert.Contains(t, s, "Something went wrong")
	assert.False(t, strings.Contains(s, "db timeout") || strings.Contains(s, "secret"), "internal details leaked: %s", s)
}

func TestErrorHandlerAPIJSON(t *testing.T) {
	app := newErrApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/nothing-here", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/nothing-here", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Page not found")
}
