// Package timeframe provides time-frame conversion and the current time.
package timeframe

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Clock overrides time.Now for the `now` operator.
	Clock func() time.Time
}

// Register registers time_frame_to_seconds and now.
func (m *Module) Register(r *registry.Registry) {
	now := Now
	if m.Clock != nil {
		now = NewNow(m.Clock)
	}
	r.Register(ToSeconds, now)
}

// TimeChannel is the dependency declared by every operator that reads the
// clock. Runtimes with a clock treat it as always filled.
var TimeChannel = dependency.Dependency{"channel": "time_channel"}

// Frames maps each supported time-frame code to its length in minutes.
// A month is 30 days.
var Frames = map[string]int64{
	"1m": 1, "3m": 3, "5m": 5, "15m": 15, "30m": 30,
	"1h": 60, "2h": 120, "3h": 180, "4h": 240, "6h": 360, "8h": 480, "12h": 720,
	"1d": 1440, "3d": 4320,
	"1w": 10080,
	"1M": 43200,
}

// codes lists Frames in ascending length.
var codes = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "3h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

func options() []cty.Value {
	out := make([]cty.Value, len(codes))
	for i, code := range codes {
		out[i] = cty.StringVal(code)
	}
	return out
}

// Seconds converts a time-frame code.
func Seconds(code string) (int64, error) {
	minutes, ok := Frames[code]
	if !ok {
		return 0, fmt.Errorf("unknown time frame %q", code)
	}
	return minutes * 60, nil
}

var ToSeconds = &operator.Class{
	Name:        "time_frame_to_seconds",
	DisplayName: "Time frame to seconds",
	Description: "Converts a candle time-frame code such as 1m, 4h or 1d to seconds.",
	Example:     "time_frame_to_seconds('1h')",
	Family:      operator.FamilyCall,
	Parameters: []operator.Parameter{
		{
			Name:        "time_frame",
			Description: "Time-frame code.",
			Required:    true,
			Type:        cty.String,
			Options:     options(),
		},
	},
	Build: func(b operator.Base) operator.Operator {
		return &toSeconds{Call: operator.Call{Base: b}}
	},
}

type toSeconds struct {
	operator.Call
}

func (o *toSeconds) Compute() (cty.Value, error) {
	args, err := o.Args()
	if err != nil {
		return cty.NilVal, err
	}
	code, err := args.String("time_frame")
	if err != nil {
		return cty.NilVal, err
	}
	seconds, err := Seconds(code)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NumberIntVal(seconds), nil
}

func (o *toSeconds) Dependencies() []dependency.Dependency {
	return dependency.AppendUnique([]dependency.Dependency{TimeChannel}, o.Call.Dependencies()...)
}

// Now reads time.Now.
var Now = NewNow(time.Now)

// NewNow builds the `now` operator over clock. The clock is read once per
// preparation, so every use of `now` in one computation sees the same time.
func NewNow(clock func() time.Time) *operator.Class {
	return &operator.Class{
		Name:        "now",
		Description: "Current Unix time in seconds, with millisecond precision.",
		Example:     "now - 3600",
		Family:      operator.FamilyNullary,
		Build: func(b operator.Base) operator.Operator {
			return &now{Nullary: operator.Nullary{Base: b}, clock: clock}
		},
	}
}

type now struct {
	operator.Nullary
	clock    func() time.Time
	at       time.Time
	prepared bool
}

func (n *now) Prepare(ctx context.Context) error {
	if err := n.Nullary.Prepare(ctx); err != nil {
		return err
	}
	n.at = n.clock()
	n.prepared = true
	return nil
}

func (n *now) Compute() (cty.Value, error) {
	if !n.prepared {
		return cty.NilVal, operator.ErrNotPrepared
	}
	return cty.NumberFloatVal(float64(n.at.UnixMilli()) / 1000), nil
}

func (n *now) Dependencies() []dependency.Dependency {
	return []dependency.Dependency{TimeChannel}
}
