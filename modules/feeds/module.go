// Package feeds provides the contextual operators reading named feeds from
// the feed.Hub carried by the preparation context.
package feeds

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/feed"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers feed and feed_ready.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Feed, FeedReady)
}

// ErrNoHub is returned when an expression reading feeds is prepared without
// a hub in its context.
var ErrNoHub = errors.New("no feed hub in context")

var nameParam = operator.Parameter{
	Name:        "name",
	Description: "Feed name, as declared in a feed block or by a formula.",
	Required:    true,
	Type:        cty.String,
}

var (
	Feed = &operator.Class{
		Name:        "feed",
		Library:     operator.LibraryContextual,
		DisplayName: "Feed value",
		Description: "Latest value of a named feed. The feed is refreshed when the expression is prepared, unless the evaluation already refreshed every feed.",
		Example:     `feed("btc_price") * 2`,
		Family:      operator.FamilyCall,
		Parameters:  []operator.Parameter{nameParam},
		Build: func(b operator.Base) operator.Operator {
			return &feedOp{Call: operator.Call{Base: b}}
		},
	}

	FeedReady = &operator.Class{
		Name:        "feed_ready",
		Library:     operator.LibraryContextual,
		DisplayName: "Feed ready",
		Description: "True when a named feed has a value. Formulas reading a feed by a literal name already wait for it, so this mostly guards expressions evaluated directly.",
		Example:     `feed("btc_price") if feed_ready("btc_price") else 0`,
		Family:      operator.FamilyCall,
		Parameters:  []operator.Parameter{nameParam},
		Build: func(b operator.Base) operator.Operator {
			return &feedReady{Call: operator.Call{Base: b}}
		},
	}
)

// feedName resolves the name argument.
func feedName(c *operator.Call) (string, error) {
	args, err := c.Args()
	if err != nil {
		return "", err
	}
	return args.String("name")
}

// staticName is the feed name when it is spelled as a literal.
func staticName(c *operator.Call) (string, bool) {
	operands := c.Operands()
	if len(operands) == 0 {
		return "", false
	}
	v, ok := operands[0].Literal()
	if !ok {
		return "", false
	}
	name, err := value.String(v)
	return name, err == nil
}

type feedOp struct {
	operator.Call
	value cty.Value
	// missing is set when the feed had no value at preparation. It is
	// reported by Compute so that an unchosen if_else branch does not fail.
	missing error
}

func (o *feedOp) Prepare(ctx context.Context) error {
	if err := o.Call.Prepare(ctx); err != nil {
		return err
	}
	o.value, o.missing = cty.NilVal, nil

	hub, ok := feed.FromContext(ctx)
	if !ok {
		return ErrNoHub
	}
	name, err := feedName(&o.Call)
	if err != nil {
		return err
	}
	if !feed.Refreshed(ctx) {
		if err := hub.Refresh(ctx, name); err != nil {
			return err
		}
	} else if _, known := hub.Source(name); !known {
		return fmt.Errorf("%w %q", feed.ErrUnknownFeed, name)
	}
	v, ok := hub.Latest(name)
	if !ok {
		o.missing = fmt.Errorf("feed %q has no value yet", name)
		return nil
	}
	o.value = v
	return nil
}

func (o *feedOp) Compute() (cty.Value, error) {
	if o.missing != nil {
		return cty.NilVal, o.missing
	}
	if o.value == cty.NilVal {
		return cty.NilVal, operator.ErrNotPrepared
	}
	return o.value, nil
}

func (o *feedOp) Dependencies() []dependency.Dependency {
	var own []dependency.Dependency
	if name, ok := staticName(&o.Call); ok {
		own = append(own, feed.Dependency(name))
	}
	return dependency.AppendUnique(own, o.Call.Dependencies()...)
}

type feedReady struct {
	operator.Call
	ready    bool
	prepared bool
}

func (o *feedReady) Prepare(ctx context.Context) error {
	if err := o.Call.Prepare(ctx); err != nil {
		return err
	}
	o.prepared = false

	hub, ok := feed.FromContext(ctx)
	if !ok {
		return ErrNoHub
	}
	name, err := feedName(&o.Call)
	if err != nil {
		return err
	}
	_, o.ready = hub.Latest(name)
	o.prepared = true
	return nil
}

func (o *feedReady) Compute() (cty.Value, error) {
	if !o.prepared {
		return cty.NilVal, operator.ErrNotPrepared
	}
	return value.Bool(o.ready), nil
}
