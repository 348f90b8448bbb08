// Package config loads server settings from flags, environment and a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/service"
)

// DevSessionSecret используется только при APP_ENV=development без SESSION_SECRET
const DevSessionSecret = "gophchat-development-secret"

// Config holds server configuration
type Config struct {
	Address           string
	DatabasePath      string
	SessionSecret     string
	AppEnv            string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	LogLevel          string
	LogFormat         string
	HistorySource     string
	TokenTTL          time.Duration
	CompletionTimeout time.Duration
	ShutdownTimeout   time.Duration
	// UsingDevSecret is set when DevSessionSecret was substituted
	UsingDevSecret bool
}

// Load reads configuration. Precedence: flags > environment > .env file > defaults.
// A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("gophchat-server", flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	envFile := fset.String("env-file", ".env", "Path to .env file")
	address := fset.String("a", "", "HTTP listen address (ADDRESS)")
	dbPath := fset.String("d", "", "SQLite database path (DATABASE_PATH)")
	secret := fset.String("s", "", "Token signing secret (SESSION_SECRET)")
	logLevel := fset.String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	historySource := fset.String("history-source", "", "Chat history source: client or store (HISTORY_SOURCE)")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// .env не перезаписывает уже выставленные переменные окружения
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg := &Config{
		Address:       pick(*address, "ADDRESS", ":8080"),
		DatabasePath:  pick(*dbPath, "DATABASE_PATH", "gophchat.db"),
		SessionSecret: pick(*secret, "SESSION_SECRET", ""),
		AppEnv:        pick("", "APP_ENV", "production"),
		OpenAIAPIKey:  pick("", "OPENAI_API_KEY", ""),
		OpenAIBaseURL: pick("", "OPENAI_BASE_URL", completion.DefaultBaseURL),
		OpenAIModel:   pick("", "OPENAI_MODEL", completion.DefaultModel),
		LogLevel:      strings.ToLower(pick(*logLevel, "LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(pick("", "LOG_FORMAT", "text")),
		HistorySource: strings.ToLower(pick(*historySource, "HISTORY_SOURCE", string(service.HistoryFromClient))),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CompletionTimeout, err = durationEnv("COMPLETION_TIMEOUT", completion.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		cfg.SessionSecret = DevSessionSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// Validate checks required values and ranges
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.Address == "" {
		return errors.New("ADDRESS cannot be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH cannot be empty")
	}
	if c.TokenTTL <= 0 || c.CompletionTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("durations must be positive")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	if _, err := service.ParseHistorySource(c.HistorySource); err != nil {
		return err
	}

	return nil
}

// pick возвращает значение флага, затем переменной окружения, затем значение по умолчанию
func pick(flagValue, envKey, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := os.LookupEnv(envKey); ok && v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
