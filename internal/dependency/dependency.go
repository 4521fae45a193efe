// Package dependency models the external inputs an expression needs before
// its computed value is meaningful, and the satisfaction check used to gate
// evaluation until those inputs are available.
//
// Dependencies are open-ended, application-defined records. They are compared
// structurally with go-cmp and are never required to be hashable, so every
// collection operation in this package is a linear scan.
package dependency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Dependency describes one external input, e.g. {"feed": "btc_price"}.
// Values must be comparable by go-cmp: plain values, slices, maps or structs
// with exported fields only.
type Dependency map[string]any

// equalOpts treats nil and empty collections as equal so that a dependency
// built from decoded configuration matches one built in code.
var equalOpts = []cmp.Option{cmpopts.EquateEmpty()}

// Equal reports whether d and other hold the same keys with structurally
// equal values.
func (d Dependency) Equal(other Dependency) bool {
	return cmp.Equal(map[string]any(d), map[string]any(other), equalOpts...)
}

// CoveredBy reports whether every key of d is present in f with an equal
// value. f may carry additional keys d does not require.
func (d Dependency) CoveredBy(f Dependency) bool {
	for key, want := range d {
		got, ok := f[key]
		if !ok {
			return false
		}
		if !cmp.Equal(want, got, equalOpts...) {
			return false
		}
	}
	return true
}

// String renders the dependency with sorted keys.
func (d Dependency) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, d[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Contains reports whether list holds a dependency structurally equal to d.
func Contains(list []Dependency, d Dependency) bool {
	for _, existing := range list {
		if existing.Equal(d) {
			return true
		}
	}
	return false
}

// AppendUnique appends every dependency of src that dst does not already
// contain, preserving first-seen order.
func AppendUnique(dst []Dependency, src ...Dependency) []Dependency {
	for _, d := range src {
		if !Contains(dst, d) {
			dst = append(dst, d)
		}
	}
	return dst
}
