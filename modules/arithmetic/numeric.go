package arithmetic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var errUnsupportedOperands = errors.New("unsupported operand types")

// MaxRepeatBytes caps the length of a string built by string repetition.
const MaxRepeatBytes = 1 << 20

var errRepeatTooLong = fmt.Errorf("repeated string exceeds %d bytes", MaxRepeatBytes)

var (
	Add = binaryClass("Add", "+",
		"Adds numbers, or concatenates two strings or two lists.", add)
	Sub = binaryClass("Sub", "-",
		"Subtracts the right number from the left.", func(l, r cty.Value) (cty.Value, error) {
			ln, rn, err := numbers(l, r)
			if err != nil {
				return cty.NilVal, err
			}
			return stdlib.Subtract(ln, rn)
		})
	Mult = binaryClass("Mult", "*",
		"Multiplies numbers, or repeats a string a whole number of times.", mult)
	Div = binaryClass("Div", "/",
		"Divides the left number by the right.", func(l, r cty.Value) (cty.Value, error) {
			ln, rn, err := numbers(l, r)
			if err != nil {
				return cty.NilVal, err
			}
			if rn.AsBigFloat().Sign() == 0 {
				return cty.NilVal, value.ErrDivisionByZero
			}
			return stdlib.Divide(ln, rn)
		})
	FloorDiv = binaryClass("FloorDiv", "//",
		"Divides and rounds towards negative infinity.", func(l, r cty.Value) (cty.Value, error) {
			ln, rn, err := numbers(l, r)
			if err != nil {
				return cty.NilVal, err
			}
			return value.FloorDiv(ln, rn)
		})
	Mod = binaryClass("Mod", "%",
		"Remainder of floor division; takes the sign of the right operand.", func(l, r cty.Value) (cty.Value, error) {
			ln, rn, err := numbers(l, r)
			if err != nil {
				return cty.NilVal, err
			}
			return value.FloorMod(ln, rn)
		})
	Pow = binaryClass("Pow", "**",
		"Raises the left number to the power of the right.", func(l, r cty.Value) (cty.Value, error) {
			ln, rn, err := numbers(l, r)
			if err != nil {
				return cty.NilVal, err
			}
			return value.Pow(ln, rn)
		})

	USub = unaryClass("USub", "-", "Negates a number.", func(v cty.Value) (cty.Value, error) {
		n, err := value.Number(v)
		if err != nil {
			return cty.NilVal, errUnsupportedOperands
		}
		return stdlib.Negate(n)
	})
	UAdd = unaryClass("UAdd", "+", "Returns a number unchanged.", func(v cty.Value) (cty.Value, error) {
		n, err := value.Number(v)
		if err != nil {
			return cty.NilVal, errUnsupportedOperands
		}
		return n, nil
	})
)

func add(l, r cty.Value) (cty.Value, error) {
	if ln, rn, err := numbers(l, r); err == nil {
		return stdlib.Add(ln, rn)
	}
	if l.IsKnown() && r.IsKnown() && !l.IsNull() && !r.IsNull() {
		switch {
		case l.Type() == cty.String && r.Type() == cty.String:
			return cty.StringVal(l.AsString() + r.AsString()), nil
		case isSequence(l) && isSequence(r):
			return stdlib.Concat(l, r)
		}
	}
	return cty.NilVal, errUnsupportedOperands
}

func mult(l, r cty.Value) (cty.Value, error) {
	if ln, rn, err := numbers(l, r); err == nil {
		return stdlib.Multiply(ln, rn)
	}
	if l.Type() == cty.Number {
		l, r = r, l
	}
	if l.Type() == cty.String && !l.IsNull() {
		times, err := value.Int(r)
		if err != nil {
			return cty.NilVal, errUnsupportedOperands
		}
		if times < 0 {
			times = 0
		}
		if n := len(l.AsString()); n > 0 && times > MaxRepeatBytes/n {
			return cty.NilVal, errRepeatTooLong
		}
		return cty.StringVal(strings.Repeat(l.AsString(), times)), nil
	}
	return cty.NilVal, errUnsupportedOperands
}

func isSequence(v cty.Value) bool {
	return v.Type().IsListType() || v.Type().IsTupleType()
}
