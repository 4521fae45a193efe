// This file translates decoded schema blocks into the format-agnostic
// config model.

package hcl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/burstdsl/internal/config"
	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func translateFile(ctx context.Context, root *schema.File) (*config.Model, error) {
	model := config.NewModel()
	for _, f := range root.Feeds {
		feed, err := translateFeed(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", f.Name, err)
		}
		model.Feeds = append(model.Feeds, feed)
	}
	for _, f := range root.Formulas {
		model.Formulas = append(model.Formulas, &config.Formula{
			Name:        f.Name,
			Expression:  f.Expression,
			Description: f.Description,
			Libraries:   f.Libraries,
		})
	}
	return model, nil
}

func translateFeed(ctx context.Context, f *schema.Feed) (*config.Feed, error) {
	logger := ctxlog.FromContext(ctx).With("feed", f.Name)

	ty := cty.DynamicPseudoType
	var err error
	if !isOmitted(f.Type) {
		ty, err = typeExprToCtyType(ctx, f.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid type: %w", err)
	}

	out := &config.Feed{
		Name:        f.Name,
		Description: f.Description,
		Kind:        config.FeedStatic,
		Type:        ty,
		Value:       cty.NilVal,
		Path:        f.Path,
	}

	if f.HTTP != nil && f.SocketIO != nil {
		return nil, errors.New("http and socketio blocks are mutually exclusive")
	}

	value, err := evalOptional(f.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	if value != cty.NilVal {
		if f.HTTP != nil || f.SocketIO != nil {
			return nil, errors.New("value is only allowed on static feeds")
		}
		if ty != cty.DynamicPseudoType {
			if value, err = convert.Convert(value, ty); err != nil {
				return nil, fmt.Errorf("value does not match type %s: %w", ty.FriendlyName(), err)
			}
		}
		out.Value = value
	}

	switch {
	case f.HTTP != nil:
		out.Kind = config.FeedHTTP
		if out.HTTP, err = translateHTTP(f.HTTP); err != nil {
			return nil, err
		}
	case f.SocketIO != nil:
		out.Kind = config.FeedSocketIO
		if out.SocketIO, err = translateSocketIO(f.SocketIO); err != nil {
			return nil, err
		}
	}
	logger.Debug("Translated feed.", "kind", out.Kind, "type", ty.FriendlyName())
	return out, nil
}

func translateHTTP(b *schema.HTTPBlock) (*config.HTTPFeed, error) {
	timeout, err := parseDuration("timeout", b.Timeout)
	if err != nil {
		return nil, err
	}
	minInterval, err := parseDuration("min_interval", b.MinInterval)
	if err != nil {
		return nil, err
	}
	return &config.HTTPFeed{
		URL:         b.URL,
		Method:      b.Method,
		Headers:     b.Headers,
		Body:        b.Body,
		Timeout:     timeout,
		MinInterval: minInterval,
	}, nil
}

func translateSocketIO(b *schema.SocketIOBlock) (*config.SocketIOFeed, error) {
	timeout, err := parseDuration("connect_timeout", b.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	data, err := evalOptional(b.EmitData)
	if err != nil {
		return nil, fmt.Errorf("invalid emit_data: %w", err)
	}
	return &config.SocketIOFeed{
		URL:                b.URL,
		Namespace:          b.Namespace,
		Event:              b.Event,
		EmitEvent:          b.EmitEvent,
		EmitData:           data,
		InsecureSkipVerify: b.InsecureSkipVerify,
		ConnectTimeout:     timeout,
	}, nil
}

// evalOptional evaluates an optional attribute, returning cty.NilVal when it
// was omitted.
func evalOptional(expr hcl.Expression) (cty.Value, error) {
	if isOmitted(expr) {
		return cty.NilVal, nil
	}
	v, diags := expr.Value(newEvalContext())
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return v, nil
}

// isOmitted reports whether an optional expression is missing. gohcl fills
// missing hcl.Expression fields with a static null, which is treated the
// same as an explicit null.
func isOmitted(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

func parseDuration(attr, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", attr, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", attr, s)
	}
	return d, nil
}
