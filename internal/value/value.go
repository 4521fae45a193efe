// Package value holds helpers over go-cty values shared by the operator
// libraries, the interpreter and the feeds.
package value

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrUnknown is returned when an operation receives a value that is not yet
// known.
var ErrUnknown = errors.New("value is not known")

// Truthy reports whether v counts as true in a boolean context: false, null,
// zero, the empty string and empty collections are false.
func Truthy(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		return v.AsBigFloat().Sign() != 0
	case ty == cty.String:
		return v.AsString() != ""
	case ty.IsCollectionType() || ty.IsTupleType():
		return v.LengthInt() > 0
	case ty.IsObjectType():
		return len(ty.AttributeTypes()) > 0
	}
	return true
}

// Bool wraps a Go bool.
func Bool(b bool) cty.Value {
	return cty.BoolVal(b)
}

// IsResult reports whether v may be returned as the value of a whole
// expression: a string, number, bool, null, list or tuple.
func IsResult(v cty.Value) bool {
	if v == cty.NilVal {
		return false
	}
	if v.IsNull() {
		return true
	}
	ty := v.Type()
	switch {
	case ty == cty.String, ty == cty.Number, ty == cty.Bool:
		return true
	case ty.IsListType(), ty.IsTupleType():
		return true
	}
	return false
}

// TypeName is a short human name for v's type, used in error messages.
func TypeName(v cty.Value) string {
	if v == cty.NilVal {
		return "nothing"
	}
	if v.IsNull() && v.Type() == cty.DynamicPseudoType {
		return "null"
	}
	if IsSlice(v) {
		return "slice"
	}
	return v.Type().FriendlyName()
}

// Number returns v as a number. Bools are accepted as 0 and 1.
func Number(v cty.Value) (cty.Value, error) {
	if err := known(v); err != nil {
		return cty.NilVal, err
	}
	switch v.Type() {
	case cty.Number:
		if v.IsNull() {
			return cty.NilVal, fmt.Errorf("expected number, got null")
		}
		return v, nil
	case cty.Bool:
		if v.IsNull() {
			return cty.NilVal, fmt.Errorf("expected number, got null")
		}
		if v.True() {
			return cty.NumberIntVal(1), nil
		}
		return cty.NumberIntVal(0), nil
	}
	return cty.NilVal, fmt.Errorf("expected number, got %s", TypeName(v))
}

// Int converts v to a Go int. It fails for non-integral numbers.
func Int(v cty.Value) (int, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	var out int
	if err := gocty.FromCtyValue(n, &out); err != nil {
		return 0, fmt.Errorf("expected integer: %w", err)
	}
	return out, nil
}

// Float converts v to a float64.
func Float(v cty.Value) (float64, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	f, _ := n.AsBigFloat().Float64()
	return f, nil
}

// String returns v as a Go string.
func String(v cty.Value) (string, error) {
	if err := known(v); err != nil {
		return "", err
	}
	if v.Type() != cty.String || v.IsNull() {
		return "", fmt.Errorf("expected string, got %s", TypeName(v))
	}
	return v.AsString(), nil
}

// Convert converts v to want, treating cty.DynamicPseudoType as "any".
func Convert(v cty.Value, want cty.Type) (cty.Value, error) {
	if want == cty.NilType || want == cty.DynamicPseudoType {
		return v, nil
	}
	out, err := convert.Convert(v, want)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot use %s as %s: %w", TypeName(v), want.FriendlyName(), err)
	}
	return out, nil
}

// IsInteger reports whether the number n has no fractional part.
func IsInteger(n cty.Value) bool {
	return n.AsBigFloat().IsInt()
}

// FloorDiv divides a by b rounding towards negative infinity. A finite
// dividend over an infinite divisor is 0, or -1 when the signs differ.
func FloorDiv(a, b cty.Value) (cty.Value, error) {
	x, y := a.AsBigFloat(), b.AsBigFloat()
	if y.Sign() == 0 {
		return cty.NilVal, ErrDivisionByZero
	}
	if x.IsInf() {
		return cty.NilVal, errors.New("can't floor-divide infinity")
	}
	if y.IsInf() {
		if x.Sign() == 0 || x.Sign() == y.Sign() {
			return cty.Zero, nil
		}
		return cty.NumberIntVal(-1), nil
	}
	q := new(big.Float).Quo(x, y)
	return cty.NumberVal(floor(q)), nil
}

// FloorMod returns a - b*floor(a/b), so the result takes the sign of b.
// A finite a modulo an infinite b is a when the signs agree, and b
// otherwise.
func FloorMod(a, b cty.Value) (cty.Value, error) {
	x, y := a.AsBigFloat(), b.AsBigFloat()
	if y.Sign() == 0 {
		return cty.NilVal, ErrDivisionByZero
	}
	if x.IsInf() {
		return cty.NilVal, errors.New("can't take the modulo of infinity")
	}
	if y.IsInf() {
		if x.Sign() == 0 || x.Sign() == y.Sign() {
			return a, nil
		}
		return b, nil
	}
	q := floor(new(big.Float).Quo(x, y))
	r := new(big.Float).Sub(x, new(big.Float).Mul(y, q))
	return cty.NumberVal(r), nil
}

// Pow raises base to exp. Zero to a negative power and a negative base
// with a fractional exponent are errors rather than infinities or NaN.
func Pow(base, exp cty.Value) (cty.Value, error) {
	if base.AsBigFloat().Sign() == 0 && exp.AsBigFloat().Sign() < 0 {
		return cty.NilVal, ErrDivisionByZero
	}
	if base.AsBigFloat().Sign() < 0 && !IsInteger(exp) {
		return cty.NilVal, errors.New("negative number cannot be raised to a fractional power")
	}
	return stdlib.Pow(base, exp)
}

// ErrDivisionByZero is returned by the division helpers.
var ErrDivisionByZero = errors.New("division by zero")

func floor(f *big.Float) *big.Float {
	if f.IsInf() || f.IsInt() {
		return f
	}
	i, _ := f.Int(nil) // truncates towards zero
	out := new(big.Float).SetInt(i)
	if f.Sign() < 0 {
		out.Sub(out, big.NewFloat(1))
	}
	return out
}

// FromJSON decodes a JSON document into a value of its implied type.
func FromJSON(data []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to infer type of JSON document: %w", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	return v, nil
}

// ToJSON encodes v with its own type.
func ToJSON(v cty.Value) ([]byte, error) {
	return ctyjson.Marshal(v, v.Type())
}

// FromGo wraps a Go value. Plain []any and map[string]any trees are walked;
// anything else goes through gocty with its implied type.
func FromGo(in any) (cty.Value, error) {
	switch t := in.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return t, nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(t))
		for k, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", k, err)
			}
			attrs[k] = v
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(in)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unsupported Go value %T: %w", in, err)
	}
	return gocty.ToCtyValue(in, ty)
}

// Format renders v as an HCL literal, e.g. `[1, "a"]`.
func Format(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	if IsSlice(v) {
		return AsSlice(v).String()
	}
	if !v.IsWhollyKnown() {
		return "(unknown)"
	}
	return string(hclwrite.TokensForValue(v).Bytes())
}

func known(v cty.Value) error {
	if v == cty.NilVal || !v.IsKnown() {
		return ErrUnknown
	}
	return nil
}
