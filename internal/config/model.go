package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of every loaded file.
type Model struct {
	Feeds    []*Feed
	Formulas []*Formula
}

// FeedKind says where a feed's values come from.
type FeedKind string

const (
	FeedStatic   FeedKind = "static"
	FeedHTTP     FeedKind = "http"
	FeedSocketIO FeedKind = "socketio"
)

// Feed is the format-agnostic representation of a `feed` block.
type Feed struct {
	Name        string
	Description string
	Kind        FeedKind
	// Type converts every value of the feed. cty.DynamicPseudoType keeps
	// values as decoded.
	Type cty.Type
	// Value is the initial value of a static feed, cty.NilVal when unset.
	Value cty.Value
	// Path selects part of each HTTP or socket.io payload.
	Path     string
	HTTP     *HTTPFeed
	SocketIO *SocketIOFeed
}

// HTTPFeed is the `http` block of a feed.
type HTTPFeed struct {
	URL         string
	Method      string
	Headers     map[string]string
	Body        string
	Timeout     time.Duration
	MinInterval time.Duration
}

// SocketIOFeed is the `socketio` block of a feed.
type SocketIOFeed struct {
	URL                string
	Namespace          string
	Event              string
	EmitEvent          string
	EmitData           cty.Value
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Formula is the format-agnostic representation of a `formula` block.
type Formula struct {
	Name        string
	Expression  string
	Description string
	// Libraries restricts the operators the expression may use. Empty means
	// every registered library.
	Libraries []string
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// Merge appends other's feeds and formulas.
func (m *Model) Merge(other *Model) {
	m.Feeds = append(m.Feeds, other.Feeds...)
	m.Formulas = append(m.Formulas, other.Formulas...)
}

// Validate checks that feed and formula names are unique across the model.
// Formula results are published as feeds, so the two share one namespace.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]string)
	claim := func(kind, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%s with an empty name", kind))
			return
		}
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("%s %q conflicts with %s of the same name", kind, name, prev))
			return
		}
		seen[name] = kind
	}

	for _, f := range m.Feeds {
		claim("feed", f.Name)
	}
	for _, f := range m.Formulas {
		claim("formula", f.Name)
		if f.Expression == "" {
			errs = append(errs, fmt.Errorf("formula %q has an empty expression", f.Name))
		}
	}
	return errors.Join(errs...)
}
