package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/burstdsl/internal/config"
	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/feed"
	"github.com/specialistvlad/burstdsl/internal/interpreter"
	"github.com/specialistvlad/burstdsl/modules/timeframe"
)

// formula is a compiled formula block.
type formula struct {
	cfg    *config.Formula
	expr   *interpreter.Expression
	bundle *dependency.Bundle
}

// newHub creates one source per feed. The clock channel is always filled.
func newHub(ctx context.Context, feeds []*config.Feed) (*feed.Hub, error) {
	logger := ctxlog.FromContext(ctx)
	hub := feed.NewHub(timeframe.TimeChannel)
	for _, f := range feeds {
		src, err := newSource(f)
		if err != nil {
			return nil, err
		}
		if err := hub.Add(src); err != nil {
			return nil, err
		}
		logger.Debug("Feed added.", "feed", f.Name, "kind", f.Kind)
	}
	return hub, nil
}

func newSource(f *config.Feed) (feed.Source, error) {
	selection := feed.Selection{Path: f.Path, Type: f.Type}
	switch f.Kind {
	case config.FeedStatic, "":
		return feed.NewStatic(f.Name, f.Value), nil
	case config.FeedHTTP:
		return feed.NewHTTPSource(f.Name, feed.HTTPConfig{
			URL:         f.HTTP.URL,
			Method:      f.HTTP.Method,
			Headers:     f.HTTP.Headers,
			Body:        f.HTTP.Body,
			MinInterval: f.HTTP.MinInterval,
			Selection:   selection,
		}, feed.NewHTTPClient(f.HTTP.Timeout))
	case config.FeedSocketIO:
		return feed.NewSocketIOSource(f.Name, feed.SocketIOConfig{
			URL:                f.SocketIO.URL,
			Namespace:          f.SocketIO.Namespace,
			Event:              f.SocketIO.Event,
			EmitEvent:          f.SocketIO.EmitEvent,
			EmitData:           f.SocketIO.EmitData,
			InsecureSkipVerify: f.SocketIO.InsecureSkipVerify,
			ConnectTimeout:     f.SocketIO.ConnectTimeout,
			Selection:          selection,
		})
	default:
		return nil, fmt.Errorf("feed %q: unknown kind %q", f.Name, f.Kind)
	}
}

// compileFormulas maps every formula once. Interpreters are shared between
// formulas with the same library set.
func (a *App) compileFormulas(ctx context.Context) ([]*formula, error) {
	known := a.registry.Libraries()
	interpreters := make(map[string]*interpreter.Interpreter)

	out := make([]*formula, 0, len(a.model.Formulas))
	for _, f := range a.model.Formulas {
		libs := f.Libraries
		if len(libs) == 0 {
			libs = a.config.Libraries
		}
		if len(libs) == 0 {
			libs = known
		}
		for _, lib := range libs {
			if !slices.Contains(known, lib) {
				return nil, fmt.Errorf("formula %q: unknown library %q", f.Name, lib)
			}
		}

		key := fmt.Sprint(libs)
		interp, ok := interpreters[key]
		if !ok {
			interp = interpreter.NewFromRegistry(a.registry, libs...)
			interpreters[key] = interp
		}

		expr, err := interp.Compile(ctx, f.Expression)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", f.Name, err)
		}
		out = append(out, &formula{cfg: f, expr: expr, bundle: expr.Bundle()})
	}
	return out, nil
}
