package app

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/burstdsl/internal/docs"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FormulaPaths []string // hcl files or directories
	Expression   string   // one-off expression, evaluated as the formula "result"
	// Libraries restricts the operators of formulas that do not name their
	// own. Empty means every registered library.
	Libraries []string
	// Interval re-evaluates every formula until the context ends. Zero
	// evaluates once.
	Interval time.Duration

	Docs       bool
	DocsFormat string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Docs {
		if cfg.DocsFormat == "" {
			cfg.DocsFormat = "json"
		}
		if !slices.Contains(docs.Formats, cfg.DocsFormat) {
			return nil, fmt.Errorf("invalid docs format %q: must be one of %v", cfg.DocsFormat, docs.Formats)
		}
	} else if len(cfg.FormulaPaths) == 0 && cfg.Expression == "" {
		return nil, errors.New("a formula path or an expression is required")
	}

	if cfg.Interval < 0 {
		return nil, fmt.Errorf("invalid interval %s: must not be negative", cfg.Interval)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
