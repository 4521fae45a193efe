package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/feed"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Status is the outcome of one formula in an evaluation.
type Status string

const (
	StatusComputed Status = "computed"
	StatusFailed   Status = "failed"
	// StatusPending means the formula's dependencies were not all available.
	StatusPending Status = "pending"
)

// Result is the outcome of one formula.
type Result struct {
	Name    string
	Status  Status
	Value   cty.Value
	Err     error
	Missing []dependency.Dependency
}

// Report holds one result per formula, in declaration order.
type Report struct {
	At      time.Time
	Results []Result
}

// Result returns the result of the named formula.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// WriteTo renders computed results as `name = <HCL literal>` lines. Failed
// and pending formulas are written as comments.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, res := range r.Results {
		switch res.Status {
		case StatusComputed:
			fmt.Fprintf(&b, "%s = %s\n", res.Name, value.Format(res.Value))
		case StatusFailed:
			fmt.Fprintf(&b, "# %s failed: %v\n", res.Name, res.Err)
		case StatusPending:
			missing := make([]string, len(res.Missing))
			for i, d := range res.Missing {
				missing[i] = d.String()
			}
			fmt.Fprintf(&b, "# %s pending: waiting for %s\n", res.Name, strings.Join(missing, ", "))
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Evaluate refreshes every feed once and computes the formulas in gating rounds:
// a formula is computed once its dependency bundle is filled, and its result
// is published as a feed of the same name for the formulas that read it.
// Feed refresh failures are logged and leave the previous values in place.
func (a *App) Evaluate(ctx context.Context) *Report {
	a.evalMu.Lock()
	defer a.evalMu.Unlock()

	ctx = feed.WithHub(ctxlog.WithLogger(ctx, a.logger), a.hub)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluation started.", "formulas", len(a.formulas))

	_ = a.hub.RefreshAll(ctx)
	ctx = feed.WithRefreshed(ctx)

	results := make([]Result, len(a.formulas))
	pending := make(map[int]bool, len(a.formulas))
	for i, f := range a.formulas {
		results[i] = Result{Name: f.cfg.Name, Status: StatusPending}
		pending[i] = true
	}
	// Formulas that have not produced a value in this evaluation do not
	// count as filled, even if an earlier evaluation published one.
	stale := make(map[string]bool, len(a.formulas))
	for _, f := range a.formulas {
		stale[f.cfg.Name] = true
	}

	for progressed := true; progressed; {
		progressed = false
		available := a.available(stale)
		for i, f := range a.formulas {
			if !pending[i] || !f.bundle.IsFilledBy(available) {
				continue
			}
			delete(pending, i)
			progressed = true

			v, err := f.expr.Compute(ctxlog.With(ctx, "formula", f.cfg.Name))
			if err != nil {
				logger.Warn("Formula failed.", "formula", f.cfg.Name, "error", err)
				results[i] = Result{Name: f.cfg.Name, Status: StatusFailed, Err: err}
				continue
			}
			if err := a.hub.Publish(f.cfg.Name, v); err != nil {
				results[i] = Result{Name: f.cfg.Name, Status: StatusFailed, Err: err}
				continue
			}
			results[i] = Result{Name: f.cfg.Name, Status: StatusComputed, Value: v}
			delete(stale, f.cfg.Name)
		}
	}

	available := a.available(stale)
	for i := range pending {
		results[i].Missing = a.formulas[i].bundle.Missing(available)
		logger.Info("Formula pending.", "formula", results[i].Name, "missing", len(results[i].Missing))
	}

	report := &Report{At: time.Now(), Results: results}
	a.lastMu.Lock()
	a.last = report
	a.lastMu.Unlock()

	logger.Debug("Evaluation finished.",
		"computed", report.Count(StatusComputed),
		"failed", report.Count(StatusFailed),
		"pending", report.Count(StatusPending))
	return report
}

// available is the hub's filled bundle without the stale formula results.
func (a *App) available(stale map[string]bool) *dependency.Bundle {
	var deps []dependency.Dependency
	for _, d := range a.hub.Filled().Dependencies() {
		if name, ok := d["feed"].(string); ok && len(d) == 1 && stale[name] {
			continue
		}
		deps = append(deps, d)
	}
	return dependency.NewBundle(deps...)
}
