package log

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

// ErrLevel marks an unparseable log level.
var ErrLevel = errors.New("invalid log level")

func init() {
	l, err := newLogger(zapcore.InfoLevel, "")
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

func parseLevel(level string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, errors.Wrapf(ErrLevel, "%q", level)
	}
	return lvl, nil
}

func newLogger(lvl zapcore.Level, file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Init replaces the process logger. A bad level changes nothing and returns
// an error wrapping ErrLevel. An unwritable file is reported, not fatal: the
// logger is installed with stdout only.
func Init(level, file string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	l, err := newLogger(lvl, file)
	if err != nil && file != "" {
		if fallback, ferr := newLogger(lvl, ""); ferr == nil {
			current.Store(fallback)
		}
		return errors.Wrapf(err, "open log file %s", file)
	}
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	current.Store(l)
	return nil
}

// SetLogger swaps the logger and returns a func restoring the previous one.
func SetLogger(l *zap.Logger) (restore func()) {
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

func L() *zap.Logger { return current.Load() }

func Sync() { _ = L().Sync() }

func write(level zapcore.Level, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := L()
	ce := l.Check(level, action)
	if ce == nil {
		return
	}
	zf := make([]zap.Field, 0, 9)
	zf = append(zf, zap.String("action", action))
	if kind != "" {
		zf = append(zf, zap.String("kind", kind))
	}
	if c != nil {
		zf = append(zf,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			zf = append(zf, zap.String("req_id", rid))
		}
	}
	if err != nil {
		zf = append(zf, zap.String("err", err.Error()))
	}
	if len(fields) > 0 {
		zf = append(zf, zap.Any("fields", fields))
	}
	ce.Write(zf...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, "", c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, "audit", c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, "security", c, action, nil, fields)
}

// Warn is for soft business conditions such as oversold stock.
func Warn(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, "", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.ErrorLevel, "", c, action, err, fields)
}
