package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8081"`
	DBDSN        string `envconfig:"DB_DSN" default:":memory:"` // process-local unless pointed at a file
	LogFile      string `envconfig:"LOG_FILE"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	SeedDemo     bool   `envconfig:"SEED_DEMO" default:"true"`

	// EnforceStockFloor rejects checkouts that would drive stock below zero.
	EnforceStockFloor bool `envconfig:"ENFORCE_STOCK_FLOOR" default:"false"`

	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	InsightTimeout time.Duration `envconfig:"INSIGHT_TIMEOUT" default:"15s"`

	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	InsightCacheTTL time.Duration `envconfig:"INSIGHT_CACHE_TTL" default:"24h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Wrap(err, "load config: LOG_LEVEL")
	}
	return cfg, nil
}

// Fields is the loggable view of the config. The API key is never included.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"port":                c.Port,
		"db_dsn":              c.DBDSN,
		"log_file":            c.LogFile,
		"log_level":           c.LogLevel,
		"templates_dir":       c.TemplatesDir,
		"seed_demo":           c.SeedDemo,
		"enforce_stock_floor": c.EnforceStockFloor,
		"gemini_model":        c.GeminiModel,
		"gemini_configured":   c.GeminiAPIKey != "",
		"insight_timeout":     c.InsightTimeout.String(),
		"redis_addr":          c.RedisAddr,
		"insight_cache_ttl":   c.InsightCacheTTL.String(),
	}
}
