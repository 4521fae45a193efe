package value

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Slice is a lower:upper:step selection. Omitted parts are null.
type Slice struct {
	Lower cty.Value
	Upper cty.Value
	Step  cty.Value
}

// SliceType is the capsule type carrying a *Slice between operators.
var SliceType = cty.Capsule("slice", reflect.TypeOf(Slice{}))

// NewSlice wraps the three bounds in a slice value.
func NewSlice(lower, upper, step cty.Value) cty.Value {
	return cty.CapsuleVal(SliceType, &Slice{Lower: lower, Upper: upper, Step: step})
}

// IsSlice reports whether v is a slice value.
func IsSlice(v cty.Value) bool {
	return v != cty.NilVal && v.Type().Equals(SliceType) && !v.IsNull() && v.IsKnown()
}

// AsSlice unwraps a slice value. It panics if v is not one.
func AsSlice(v cty.Value) *Slice {
	return v.EncapsulatedValue().(*Slice)
}

func (s *Slice) String() string {
	part := func(v cty.Value) string {
		if v == cty.NilVal || v.IsNull() {
			return ""
		}
		return Format(v)
	}
	out := part(s.Lower) + ":" + part(s.Upper)
	if s.Step != cty.NilVal && !s.Step.IsNull() {
		out += ":" + part(s.Step)
	}
	return out
}

// Indices resolves the slice against a sequence of the given length and
// returns the selected positions in order. Negative bounds count from the
// end and out-of-range bounds are clamped.
func (s *Slice) Indices(length int) ([]int, error) {
	step := 1
	if s.Step != cty.NilVal && !s.Step.IsNull() {
		n, err := Int(s.Step)
		if err != nil {
			return nil, fmt.Errorf("slice step: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("slice step cannot be zero")
		}
		step = n
	}

	lowerDefault, upperDefault := 0, length
	if step < 0 {
		lowerDefault, upperDefault = length-1, -1
	}

	lower, err := bound(s.Lower, length, lowerDefault, step)
	if err != nil {
		return nil, fmt.Errorf("slice lower bound: %w", err)
	}
	upper, err := bound(s.Upper, length, upperDefault, step)
	if err != nil {
		return nil, fmt.Errorf("slice upper bound: %w", err)
	}

	var out []int
	if step > 0 {
		for i := lower; i < upper; i += step {
			out = append(out, i)
		}
	} else {
		for i := lower; i > upper; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

func bound(v cty.Value, length, def, step int) (int, error) {
	if v == cty.NilVal || v.IsNull() {
		return def, nil
	}
	i, err := Int(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += length
	}
	if step > 0 {
		return clamp(i, 0, length), nil
	}
	return clamp(i, -1, length-1), nil
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
