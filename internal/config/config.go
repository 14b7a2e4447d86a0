package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr    = ":8080"
	DefaultDataDir = "data"
	DefaultCompany = "Black Cygnet"
)

type Config struct {
	Addr        string
	DatabaseURL string
	CORSOrigins []string
	Location    *time.Location

	Company string

	GeminiAPIKey  string
	GeminiModel   string
	ScriptTimeout time.Duration

	AMQPURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	GaugeInterval time.Duration
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Addr:         env("ADDR", DefaultAddr),
		DatabaseURL:  env("DATABASE_URL", filepath.Join(env("DATA_DIR", DefaultDataDir), "calldesk.db")),
		Company:      env("COMPANY_NAME", DefaultCompany),
		GeminiAPIKey: env("GEMINI_API_KEY", env("API_KEY", "")),
		GeminiModel:  env("GEMINI_MODEL", ""),
		AMQPURL:      env("AMQP_URL", ""),
		MailHost:     env("MAIL_HOST", ""),
		MailUser:     env("MAIL_USER", ""),
		MailPass:     env("MAIL_PASS", ""),
		MailFrom:     env("MAIL_FROM", ""),
	}

	for _, o := range strings.Split(env("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	if cfg.MailPort, err = strconv.Atoi(env("MAIL_PORT", "587")); err != nil {
		return nil, fmt.Errorf("config: MAIL_PORT: %w", err)
	}
	if cfg.ScriptTimeout, err = time.ParseDuration(env("SCRIPT_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("config: SCRIPT_TIMEOUT: %w", err)
	}
	if cfg.GaugeInterval, err = time.ParseDuration(env("GAUGE_INTERVAL", "1m")); err != nil {
		return nil, fmt.Errorf("config: GAUGE_INTERVAL: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(env("TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("config: TIMEZONE: %w", err)
	}

	return cfg, nil
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != ""
}
