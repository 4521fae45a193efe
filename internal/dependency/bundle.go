package dependency

import "strings"

// Bundle is an ordered collection of dependencies. Unlike AppendUnique,
// Extend keeps duplicates: a bundle records what was declared, not a set.
//
// A nil *Bundle behaves as the empty bundle. Append and Extend on a nil
// bundle return a new one, so keep their result.
type Bundle struct {
	deps []Dependency
}

// NewBundle creates a bundle holding deps in order.
func NewBundle(deps ...Dependency) *Bundle {
	b := &Bundle{}
	b.deps = append(b.deps, deps...)
	return b
}

// Dependencies returns a copy of the bundle's descriptors.
func (b *Bundle) Dependencies() []Dependency {
	if b == nil {
		return nil
	}
	out := make([]Dependency, len(b.deps))
	copy(out, b.deps)
	return out
}

// Len returns the number of descriptors, duplicates included.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.deps)
}

// Append adds deps to the end of the bundle.
func (b *Bundle) Append(deps ...Dependency) *Bundle {
	if b == nil {
		return NewBundle(deps...)
	}
	b.deps = append(b.deps, deps...)
	return b
}

// Extend concatenates other's descriptors onto b, in order, and returns b.
func (b *Bundle) Extend(other *Bundle) *Bundle {
	if b == nil {
		return NewBundle(other.Dependencies()...)
	}
	if other == nil {
		return b
	}
	b.deps = append(b.deps, other.deps...)
	return b
}

// IsFilledBy reports whether every descriptor in b is covered by at least
// one descriptor in other. The empty bundle is filled by any bundle.
func (b *Bundle) IsFilledBy(other *Bundle) bool {
	if b == nil {
		return true
	}
	var filled []Dependency
	if other != nil {
		filled = other.deps
	}
	for _, required := range b.deps {
		found := false
		for _, f := range filled {
			if required.CoveredBy(f) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Missing returns the descriptors of b that other does not cover.
func (b *Bundle) Missing(other *Bundle) []Dependency {
	var missing []Dependency
	for _, required := range b.Dependencies() {
		if !NewBundle(required).IsFilledBy(other) {
			missing = append(missing, required)
		}
	}
	return missing
}

// Equal is order-sensitive structural list equality.
func (b *Bundle) Equal(other *Bundle) bool {
	if b.Len() != other.Len() {
		return false
	}
	for i, d := range b.Dependencies() {
		if !d.Equal(other.deps[i]) {
			return false
		}
	}
	return true
}

// Truthy reports whether the bundle is non-empty.
func (b *Bundle) Truthy() bool {
	return b.Len() > 0
}

func (b *Bundle) String() string {
	parts := make([]string, 0, b.Len())
	for _, d := range b.Dependencies() {
		parts = append(parts, d.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
