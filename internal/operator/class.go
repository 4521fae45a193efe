package operator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

const (
	// LibraryBase is the library of classes that do not name one.
	LibraryBase = "base"
	// LibraryContextual holds operators that need an execution context, such
	// as a feed hub. Unfiltered discovery leaves them out.
	LibraryContextual = "contextual"
)

// Unbounded as Arity.Max accepts any number of operands.
const Unbounded = -1

// Arity bounds the number of operands.
type Arity struct {
	Min int
	Max int
}

// Accepts reports whether n operands fall within the bounds.
func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max == Unbounded || n <= a.Max)
}

// Class describes a registered operator implementation.
type Class struct {
	// Name is the lookup identifier used in formulas, e.g. "Add" or
	// "time_frame_to_seconds". Classes without a name are never discovered.
	Name string
	// Library namespaces the class. Empty means LibraryBase.
	Library string

	DisplayName string
	Description string
	Example     string

	Family Family
	// Arity overrides the family's arity. Ignored when Parameters is set.
	Arity *Arity
	// Parameters describe the operands by position and take precedence
	// over Arity.
	Parameters []Parameter

	// Abstract classes are registered for documentation only.
	Abstract bool

	Build func(b Base) Operator
}

// Lib returns the class library, defaulting to LibraryBase.
func (c *Class) Lib() string {
	if c.Library == "" {
		return LibraryBase
	}
	return c.Library
}

// Title returns the display name, falling back to the lookup name.
func (c *Class) Title() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// Concrete reports whether the class can be discovered and instantiated.
func (c *Class) Concrete() bool {
	return c.Name != "" && !c.Abstract && c.Build != nil
}

// Bounds returns the accepted operand counts.
func (c *Class) Bounds() Arity {
	if len(c.Parameters) > 0 {
		required := 0
		for _, p := range c.Parameters {
			if p.Required {
				required++
			}
		}
		return Arity{Min: required, Max: len(c.Parameters)}
	}
	if c.Arity != nil {
		return *c.Arity
	}
	return c.Family.Arity()
}

// ValidateArity checks n operands against Bounds.
func (c *Class) ValidateArity(n int) error {
	bounds := c.Bounds()
	if bounds.Accepts(n) {
		return nil
	}

	err := &InvalidParametersError{
		Operator: c.Name,
		Got:      n,
		Expected: c.expected(),
	}
	if n < bounds.Min {
		err.Reason = fmt.Sprintf("requires at least %s", plural(bounds.Min, "parameter"))
	} else {
		err.Reason = fmt.Sprintf("supports up to %s", plural(bounds.Max, "parameter"))
	}
	return err
}

func (c *Class) expected() []string {
	if len(c.Parameters) > 0 {
		out := make([]string, len(c.Parameters))
		for i, p := range c.Parameters {
			out[i] = p.String()
		}
		return out
	}
	if c.Arity == nil {
		return c.Family.Labels()
	}
	return nil
}

// New validates the operand count and builds an instance. The operand slice
// and keyword map are copied.
func (c *Class) New(operands []Operand, kwargs map[string]cty.Value) (Operator, error) {
	if !c.Concrete() {
		return nil, fmt.Errorf("operator %q cannot be instantiated", c.Title())
	}
	if err := c.ValidateArity(len(operands)); err != nil {
		return nil, err
	}

	b := Base{
		class:    c,
		operands: slices.Clone(operands),
		kwargs:   maps.Clone(kwargs),
	}
	if b.kwargs == nil {
		b.kwargs = map[string]cty.Value{}
	}
	return c.Build(b), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
