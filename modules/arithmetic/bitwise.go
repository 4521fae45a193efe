package arithmetic

import (
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// maxShift keeps shifted integers inside int64.
const maxShift = 63

var (
	BitAnd = binaryClass("BitAnd", "&", "Bitwise AND of two integers.", intOp(func(a, b int64) (int64, error) { return a & b, nil }))
	BitOr  = binaryClass("BitOr", "|", "Bitwise OR of two integers.", intOp(func(a, b int64) (int64, error) { return a | b, nil }))
	BitXor = binaryClass("BitXor", "^", "Bitwise XOR of two integers.", intOp(func(a, b int64) (int64, error) { return a ^ b, nil }))
	LShift = binaryClass("LShift", "<<", "Shifts an integer left.", intOp(func(a, b int64) (int64, error) {
		if b < 0 || b > maxShift {
			return 0, fmt.Errorf("shift count %d out of range", b)
		}
		return a << b, nil
	}))
	RShift = binaryClass("RShift", ">>", "Shifts an integer right, keeping the sign.", intOp(func(a, b int64) (int64, error) {
		if b < 0 {
			return 0, fmt.Errorf("negative shift count %d", b)
		}
		if b > maxShift {
			b = maxShift
		}
		return a >> b, nil
	}))

	Invert = unaryClass("Invert", "~", "Bitwise inversion of an integer, i.e. -x - 1.", func(v cty.Value) (cty.Value, error) {
		n, err := value.Number(v)
		if err != nil {
			return cty.NilVal, errUnsupportedOperands
		}
		if !value.IsInteger(n) {
			return cty.NilVal, fmt.Errorf("operand must be an integer")
		}
		i, _ := n.AsBigFloat().Int64()
		return cty.NumberIntVal(^i), nil
	})
)

func intOp(fn func(a, b int64) (int64, error)) binaryFunc {
	return func(l, r cty.Value) (cty.Value, error) {
		a, b, err := integers(l, r)
		if err != nil {
			return cty.NilVal, err
		}
		out, err := fn(a, b)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberIntVal(out), nil
	}
}
