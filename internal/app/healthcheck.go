package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/value"
)

// healthHandler answers liveness probes.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

type resultBody struct {
	Status  Status   `json:"status"`
	Value   any      `json:"value,omitempty"`
	Error   string   `json:"error,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// resultsHandler serves the last report as a JSON object keyed by formula
// name. It answers 503 until the first evaluation finished.
func (app *App) resultsHandler(w http.ResponseWriter, r *http.Request) {
	report := app.LastReport()
	if report == nil {
		http.Error(w, "no evaluation yet", http.StatusServiceUnavailable)
		return
	}

	body := make(map[string]resultBody, len(report.Results))
	for _, res := range report.Results {
		rb := resultBody{Status: res.Status}
		switch res.Status {
		case StatusComputed:
			v, err := value.ToGo(res.Value)
			if err != nil {
				rb.Error = err.Error()
			}
			rb.Value = v
		case StatusFailed:
			rb.Error = res.Err.Error()
		case StatusPending:
			for _, d := range res.Missing {
				rb.Missing = append(rb.Missing, d.String())
			}
		}
		body[res.Name] = rb
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.FromContext(app.ctx).Error("Failed to encode results.", "error", err)
	}
}

func (app *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/results", app.resultsHandler)
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	// The run context is usually cancelled by now.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(app.ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
