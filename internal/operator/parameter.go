package operator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Parameter describes one positional operand of a call-style operator.
// Descriptors are declared with the class and never modified.
type Parameter struct {
	Name        string
	Description string
	Required    bool
	// Type is the declared type. cty.NilType or cty.DynamicPseudoType
	// accept any value.
	Type cty.Type
	// Default replaces an omitted optional argument. Null when unset.
	Default cty.Value
	// Min and Max bound numeric arguments.
	Min *float64
	Max *float64
	// Options, when set, lists every accepted value.
	Options []cty.Value
}

// Bound is a convenience for Parameter.Min and Parameter.Max.
func Bound(f float64) *float64 {
	return &f
}

// TypeName renders the declared type in HCL type-expression syntax.
func (p Parameter) TypeName() string {
	if p.Type == cty.NilType {
		return "any"
	}
	return typeexpr.TypeString(p.Type)
}

func (p Parameter) String() string {
	flags := []string{p.TypeName()}
	if p.Required {
		flags = append(flags, "required")
	}
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(flags, ", "))
}

// Check converts v to the declared type and validates it. A null argument
// for an optional parameter yields the default.
func (p Parameter) Check(v cty.Value) (cty.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		if p.Required {
			return cty.NilVal, fmt.Errorf("value is required")
		}
		if p.Default != cty.NilVal {
			return p.Default, nil
		}
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	v, err := value.Convert(v, p.Type)
	if err != nil {
		return cty.NilVal, err
	}

	if v.Type() == cty.Number && (p.Min != nil || p.Max != nil) {
		f, _ := v.AsBigFloat().Float64()
		if p.Min != nil && f < *p.Min {
			return cty.NilVal, fmt.Errorf("must be at least %v, got %v", *p.Min, f)
		}
		if p.Max != nil && f > *p.Max {
			return cty.NilVal, fmt.Errorf("must be at most %v, got %v", *p.Max, f)
		}
	}

	if len(p.Options) > 0 {
		for _, option := range p.Options {
			if option.Type().Equals(v.Type()) && option.Equals(v).True() {
				return v, nil
			}
		}
		return cty.NilVal, fmt.Errorf("must be one of %s, got %s", p.optionList(), value.Format(v))
	}

	return v, nil
}

func (p Parameter) optionList() string {
	parts := make([]string, len(p.Options))
	for i, option := range p.Options {
		parts[i] = value.Format(option)
	}
	return strings.Join(parts, ", ")
}
