// Package feed holds the named external inputs that contextual operators
// read: static values, HTTP endpoints polled on refresh and socket.io
// events pushed by a server.
//
// A Hub is carried through context.Context so operators find it during
// preparation. Every feed with a value is reported as the dependency
// {"feed": name} in the hub's filled bundle.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/zclconf/go-cty/cty"
)

// Source is one named input.
type Source interface {
	Name() string
	// Refresh brings the latest value up to date. Push-based sources may
	// treat it as a no-op.
	Refresh(ctx context.Context) error
	// Latest returns the current value, or false when there is none yet.
	Latest() (cty.Value, bool)
}

// Dependency is the descriptor declared by operators that read feed name.
func Dependency(name string) dependency.Dependency {
	return dependency.Dependency{"feed": name}
}

// ErrUnknownFeed is returned for names the hub has no source for.
var ErrUnknownFeed = errors.New("unknown feed")

// Hub is a concurrency-safe set of named sources.
type Hub struct {
	mu      sync.RWMutex
	sources map[string]Source
	always  []dependency.Dependency
}

// NewHub creates an empty hub. The always dependencies are reported as
// filled regardless of the sources, e.g. the clock channel.
func NewHub(always ...dependency.Dependency) *Hub {
	return &Hub{
		sources: make(map[string]Source),
		always:  dependency.AppendUnique(nil, always...),
	}
}

// Add registers a source. Names are unique.
func (h *Hub) Add(src Source) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.sources[src.Name()]; exists {
		return fmt.Errorf("feed %q is already defined", src.Name())
	}
	h.sources[src.Name()] = src
	return nil
}

// Source looks a source up by name.
func (h *Hub) Source(name string) (Source, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	src, ok := h.sources[name]
	return src, ok
}

// Names returns the source names, sorted.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.sources))
	for name := range h.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publish sets the value of a static feed, creating it on first use.
func (h *Hub) Publish(name string, v cty.Value) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	src, exists := h.sources[name]
	if !exists {
		h.sources[name] = NewStatic(name, v)
		return nil
	}
	static, ok := src.(*StaticSource)
	if !ok {
		return fmt.Errorf("feed %q is not a static feed and cannot be published to", name)
	}
	static.Set(v)
	return nil
}

// Refresh refreshes one source.
func (h *Hub) Refresh(ctx context.Context, name string) error {
	src, ok := h.Source(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownFeed, name)
	}
	if err := src.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh feed %q: %w", name, err)
	}
	return nil
}

// RefreshAll refreshes every source in name order and joins the failures.
func (h *Hub) RefreshAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, name := range h.Names() {
		if err := h.Refresh(ctx, name); err != nil {
			logger.Warn("Feed refresh failed.", "feed", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Latest returns the current value of a feed.
func (h *Hub) Latest(name string) (cty.Value, bool) {
	src, ok := h.Source(name)
	if !ok {
		return cty.NilVal, false
	}
	return src.Latest()
}

// Filled is the bundle of what is currently available: the always
// dependencies followed by every feed holding a value, in name order.
func (h *Hub) Filled() *dependency.Bundle {
	filled := dependency.NewBundle(h.always...)
	for _, name := range h.Names() {
		if _, ok := h.Latest(name); ok {
			filled.Append(Dependency(name))
		}
	}
	return filled
}

// Close closes every source implementing io.Closer.
func (h *Hub) Close() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var errs []error
	for name, src := range h.sources {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close feed %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

type hubKey struct{}

// WithHub returns a context carrying h.
func WithHub(ctx context.Context, h *Hub) context.Context {
	return context.WithValue(ctx, hubKey{}, h)
}

type refreshedKey struct{}

// WithRefreshed marks ctx as belonging to a pass that has already refreshed
// every source, so reads within it use the values as they are.
func WithRefreshed(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshedKey{}, true)
}

// Refreshed reports whether ctx was marked by WithRefreshed.
func Refreshed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	done, _ := ctx.Value(refreshedKey{}).(bool)
	return done
}

// FromContext returns the hub carried by ctx.
func FromContext(ctx context.Context) (*Hub, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(hubKey{}).(*Hub)
	return h, ok && h != nil
}
