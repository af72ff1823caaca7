package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/itsneelabh/gomind/core"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/config"
	"tacklepos/internal/http/handlers"
	"tacklepos/internal/insight"
	"tacklepos/internal/repos"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	sid  string
}

type appOption func(*config.Config, **insight.Provider)

func withStockFloor() appOption {
	return func(c *config.Config, _ **insight.Provider) { c.EnforceStockFloor = true }
}

func withAI(client core.AIClient) appOption {
	return func(_ *config.Config, p **insight.Provider) { *p = insight.NewProvider(client) }
}

// newTestApp wires the real routes over a seeded in-memory database.
func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", SeedDemo: true, TemplatesDir: "../../web/templates"}
	var provider *insight.Provider
	for _, o := range opts {
		o(&cfg, &provider)
	}

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews(cfg.TemplatesDir, false),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20,
	})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, provider, nil)
	handlers.Register(app, deps)
	return &testApp{app: app, db: db, deps: deps}
}

// do sends a JSON request, carrying the register's sid cookie across calls.
func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: a.sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			a.sid = c.Value
		}
	}
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

type stubAI struct {
	reply string
	err   error
	calls int
}

func (s *stubAI) GenerateResponse(context.Context, string, *core.AIOptions) (*core.AIResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &core.AIResponse{Content: s.reply}, nil
}
