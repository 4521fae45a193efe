package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/burstdsl/internal/operator"
)

// Module is the interface that all operator modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

type classKey struct {
	library string
	name    string
}

// Registry holds the operator classes of a single application instance.
type Registry struct {
	mu      sync.RWMutex
	classes []*operator.Class
	byKey   map[classKey]*operator.Class

	cacheMu sync.Mutex
	cache   map[string][]*operator.Class
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		byKey: make(map[classKey]*operator.Class),
		cache: make(map[string][]*operator.Class),
	}
}

// Register adds classes to the registry. A name registered twice in the same
// library is a programming error and panics. Abstract and unnamed classes are
// kept for documentation but never discovered.
//
// Registration does not invalidate memoized GetAllOperators results.
func (r *Registry) Register(classes ...*operator.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, class := range classes {
		if class.Name == "" {
			slog.Debug("Registering unnamed operator class.", "family", class.Family)
			r.classes = append(r.classes, class)
			continue
		}
		key := classKey{library: class.Lib(), name: class.Name}
		if _, exists := r.byKey[key]; exists {
			panic(fmt.Sprintf("operator '%s' already registered in library '%s'", class.Name, class.Lib()))
		}
		slog.Debug("Registering operator.", "name", class.Name, "library", class.Lib(), "family", class.Family)
		r.byKey[key] = class
		r.classes = append(r.classes, class)
	}
}

// RegisterModules lets every module register its classes.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup finds a class by library and name, concrete or not.
func (r *Registry) Lookup(library, name string) (*operator.Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	class, ok := r.byKey[classKey{library: library, name: name}]
	return class, ok
}

// GetAllOperators returns the concrete classes in registration order. With
// no libraries it returns every library except the contextual one; with
// libraries it returns exactly the classes of those libraries.
//
// Results are memoized per library list.
func (r *Registry) GetAllOperators(libraries ...string) []*operator.Class {
	key := cacheKey(libraries)

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return append([]*operator.Class(nil), cached...)
	}

	wanted := make(map[string]bool, len(libraries))
	for _, l := range libraries {
		wanted[l] = true
	}

	r.mu.RLock()
	var out []*operator.Class
	for _, class := range r.classes {
		if !class.Concrete() {
			continue
		}
		if len(libraries) == 0 {
			if class.Lib() == operator.LibraryContextual {
				continue
			}
		} else if !wanted[class.Lib()] {
			continue
		}
		out = append(out, class)
	}
	r.mu.RUnlock()

	r.cache[key] = out
	return append([]*operator.Class(nil), out...)
}

// ClearGetAllOperatorsCache drops memoized GetAllOperators results so later
// registrations become visible.
func (r *Registry) ClearGetAllOperatorsCache() {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache = make(map[string][]*operator.Class)
}

// Libraries lists every library with at least one registered class.
func (r *Registry) Libraries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for _, class := range r.classes {
		if !seen[class.Lib()] {
			seen[class.Lib()] = true
			out = append(out, class.Lib())
		}
	}
	sort.Strings(out)
	return out
}

// All returns every registered class, concrete or not.
func (r *Registry) All() []*operator.Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*operator.Class(nil), r.classes...)
}

func cacheKey(libraries []string) string {
	if len(libraries) == 0 {
		return "*"
	}
	return "=" + strings.Join(libraries, "\x00")
}
