package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/docs"
)

// Run executes the main application logic based on the app's configuration.
// A single evaluation returns an error when any formula failed; watch mode
// only logs failures and returns when ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if a.config.Docs {
		return docs.Write(a.outW, a.config.DocsFormat, docs.Collect(a.registry.All()))
	}

	defer func() {
		if err := a.hub.Close(); err != nil {
			a.logger.Warn("Failed to close feeds.", "error", err)
		}
	}()

	if len(a.formulas) == 0 {
		a.logger.Warn("No formulas found, evaluation not required.")
		return nil
	}

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	if a.config.Interval <= 0 {
		report := a.Evaluate(ctx)
		if _, err := report.WriteTo(a.outW); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		if failed := report.Count(StatusFailed); failed > 0 {
			return fmt.Errorf("%d of %d formulas failed", failed, len(report.Results))
		}
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	a.logger.Info("👀 Watching formulas.", "interval", a.config.Interval.String())
	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()
	for {
		report := a.Evaluate(ctx)
		if _, err := report.WriteTo(a.outW); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		select {
		case <-ctx.Done():
			a.logger.Info("🏁 Watch stopped.")
			return nil
		case <-ticker.C:
		}
	}
}
