// Package config loads client settings from defaults, an optional YAML file
// and BOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eshaffer321/board-go/internal/logging"
	"github.com/eshaffer321/board-go/internal/retry"
	"github.com/eshaffer321/board-go/internal/types"
	"github.com/eshaffer321/board-go/pkg/board"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. BOARD_RETRY_MAXRETRIES
const EnvPrefix = "BOARD_"

// Config holds everything needed to build a board client
type Config struct {
	BaseURL     string        `koanf:"baseurl" validate:"required,url"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	AuthPrefix  string        `koanf:"authprefix" validate:"required,startswith=/"`
	RefreshPath string        `koanf:"refreshpath" validate:"required,startswith=/"`
	RefreshSkew time.Duration `koanf:"refreshskew" validate:"gte=0"`

	Retry     RetryConfig     `koanf:"retry"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Log       LogConfig       `koanf:"log"`
	Sentry    SentryConfig    `koanf:"sentry"`
}

// RetryConfig is the GET retry policy
type RetryConfig struct {
	MaxRetries int           `koanf:"maxretries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `koanf:"basedelay" validate:"gt=0"`
	Multiplier float64       `koanf:"multiplier" validate:"gt=1"`
}

// RateLimitConfig throttles outgoing requests. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

// LogConfig selects the zerolog level and output format
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
}

// SentryConfig enables error reporting when DSN is set
type SentryConfig struct {
	DSN         string `koanf:"dsn" validate:"omitempty,url"`
	Environment string `koanf:"environment"`
}

func defaults() map[string]any {
	get := retry.GetPolicy()
	return map[string]any{
		"baseurl":     types.DefaultBaseURL,
		"timeout":     types.DefaultTimeout.String(),
		"authprefix":  types.DefaultAuthPrefix,
		"refreshpath": types.DefaultRefreshPath,
		"refreshskew": "0s",

		"retry.maxretries": get.MaxRetries,
		"retry.basedelay":  get.BaseDelay.String(),
		"retry.multiplier": get.Multiplier,

		"ratelimit.rps":   0,
		"ratelimit.burst": 1,

		"log.level":  "info",
		"log.pretty": false,

		"sentry.dsn":         "",
		"sentry.environment": "production",
	}
}

// Load builds a Config. Sources are applied in order of increasing priority:
// defaults, the YAML file at path (skipped when path is empty), then BOARD_* variables.
func Load(path string) (*Config, error) {
	return load(path, os.Environ)
}

func load(path string, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
		EnvironFunc: environ,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and reports every failing field
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// RetryPolicy converts the retry section
func (c *Config) RetryPolicy() *retry.Policy {
	return &retry.Policy{
		MaxRetries: c.Retry.MaxRetries,
		BaseDelay:  c.Retry.BaseDelay,
		Multiplier: c.Retry.Multiplier,
	}
}

// Logger builds the zerolog logger described by the log section
func (c *Config) Logger() types.Logger {
	return logging.NewZerolog(c.Log.Level, c.Log.Pretty)
}

// ClientOptions converts the config into options for board.NewClient
func (c *Config) ClientOptions() *board.ClientOptions {
	opts := &board.ClientOptions{
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		AuthPrefix:  c.AuthPrefix,
		RefreshPath: c.RefreshPath,
		RefreshSkew: c.RefreshSkew,
		RetryPolicy: c.RetryPolicy(),
		Logger:      c.Logger(),
		SentryDSN:   c.Sentry.DSN,
	}
	if c.RateLimit.RPS > 0 {
		opts.RateLimiter = board.NewRateLimiter(c.RateLimit.RPS, c.RateLimit.Burst)
	}
	if c.Sentry.DSN != "" && c.Sentry.Environment != "" {
		opts.SentryOptions = &board.SentryOptions{Environment: c.Sentry.Environment}
	}
	return opts
}
