package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"tacklepos/internal/config"
	"tacklepos/internal/http/handlers"
	"tacklepos/internal/insight"
	applog "tacklepos/internal/log"
	"tacklepos/internal/repos"
)

func main() {
	app := &cli.App{
		Name:  "tacklepos",
		Usage: "point of sale and inventory for a fishing tackle shop",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply schema migrations to DB_DSN and exit",
				Action: migrateCmd,
			},
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(os.Args); err != nil {
		applog.Error(nil, "fatal", err, nil)
		applog.Sync()
		os.Exit(1)
	}
}

func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if err := applog.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		if errors.Is(err, applog.ErrLevel) {
			return cfg, errors.Wrap(err, "LOG_LEVEL")
		}
		// stdout logging still works
		applog.Warn(nil, "log.file", map[string]any{"err": err.Error()})
	}
	return cfg, nil
}

func migrateCmd(*cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer applog.Sync()

	db, err := sqlx.Open("sqlite", cfg.DBDSN)
	if err != nil {
		return errors.Wrap(err, "open db")
	}
	defer db.Close()
	if err := repos.Migrate(db); err != nil {
		return err
	}
	v, dirty, err := repos.SchemaVersion(db)
	if err != nil {
		return err
	}
	applog.Info(nil, "migrate.done", map[string]any{"version": v, "dirty": dirty})
	return nil
}

func serve(cliCtx *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer applog.Sync()
	applog.Info(nil, "config", cfg.Fields())

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, closeCache := newProvider(cfg)
	defer closeCache()
	trends := insight.NewTrendTracker(provider)
	defer trends.Close()

	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews(cfg.TemplatesDir, false),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		// the dashboard uses inline styles
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(db, cfg, provider, trends)
	handlers.Register(app, deps)

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		applog.Info(nil, "shutdown", nil)
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port
	applog.Info(nil, "listen", map[string]any{"addr": addr})
	if err := app.Listen(addr); err != nil {
		return errors.Wrap(err, "listen")
	}
	return nil
}

// newProvider builds the insight provider. A missing key or unreachable Redis
// is logged and the feature degrades; the server still starts.
func newProvider(cfg config.Config) (*insight.Provider, func()) {
	opts := []insight.Option{insight.WithTimeout(cfg.InsightTimeout), insight.WithModel(cfg.GeminiModel)}
	closeCache := func() {}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			applog.Warn(nil, "insight.cache", map[string]any{"addr": cfg.RedisAddr, "err": err.Error()})
			_ = rdb.Close()
		} else {
			opts = append(opts, insight.WithCache(insight.NewRedisCache(rdb, cfg.InsightCacheTTL)))
			closeCache = func() { _ = rdb.Close() }
		}
	}

	client, err := insight.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.InsightTimeout)
	if err != nil {
		applog.Warn(nil, "insight.client", map[string]any{"err": err.Error()})
		return insight.NewProvider(nil, opts...), closeCache
	}
	applog.Info(nil, "insight.client", map[string]any{"model": cfg.GeminiModel})
	return insight.NewProvider(client, opts...), closeCache
}
