package feed

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// StaticSource holds a value set by configuration or by Publish.
type StaticSource struct {
	name string

	mu    sync.RWMutex
	value cty.Value
}

// NewStatic creates a static source. A cty.NilVal value means "no value yet".
func NewStatic(name string, v cty.Value) *StaticSource {
	return &StaticSource{name: name, value: v}
}

func (s *StaticSource) Name() string { return s.name }

// Refresh does nothing; static values change only through Set.
func (s *StaticSource) Refresh(context.Context) error { return nil }

func (s *StaticSource) Latest() (cty.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.value != cty.NilVal
}

// Set replaces the value.
func (s *StaticSource) Set(v cty.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}
