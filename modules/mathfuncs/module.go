// Package mathfuncs provides numeric builtins and the constants pi, e and
// inf.
package mathfuncs

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the functions and constants.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Abs, Min, Max, Round, Floor, Ceil, Sqrt, Pow, Log, Pi, E, Inf)
}

var errDomain = errors.New("math domain error")

func number(name, description string) operator.Parameter {
	return operator.Parameter{Name: name, Description: description, Required: true, Type: cty.Number}
}

type callFunc func(args operator.Args) (cty.Value, error)

type call struct {
	operator.Call
	fn callFunc
}

func (c *call) Compute() (cty.Value, error) {
	args, err := c.Args()
	if err != nil {
		return cty.NilVal, err
	}
	v, err := c.fn(args)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return v, nil
}

func callClass(name, description, example string, params []operator.Parameter, fn callFunc) *operator.Class {
	return &operator.Class{
		Name:        name,
		Description: description,
		Example:     example,
		Family:      operator.FamilyCall,
		Parameters:  params,
		Build: func(b operator.Base) operator.Operator {
			return &call{Call: operator.Call{Base: b}, fn: fn}
		},
	}
}

type constant struct {
	operator.Nullary
	v cty.Value
}

func (c *constant) Compute() (cty.Value, error) {
	return c.v, nil
}

func constantClass(name, description string, v cty.Value) *operator.Class {
	return &operator.Class{
		Name:        name,
		Description: description,
		Example:     name,
		Family:      operator.FamilyNullary,
		Build: func(b operator.Base) operator.Operator {
			return &constant{Nullary: operator.Nullary{Base: b}, v: v}
		},
	}
}

var (
	Pi  = constantClass("pi", "The ratio of a circle's circumference to its diameter.", cty.NumberFloatVal(math.Pi))
	E   = constantClass("e", "Euler's number.", cty.NumberFloatVal(math.E))
	Inf = constantClass("inf", "Positive infinity. Negate it for negative infinity.", cty.PositiveInfinity)

	Abs = callClass("abs", "Absolute value.", "abs(-2)",
		[]operator.Parameter{number("x", "")},
		func(args operator.Args) (cty.Value, error) {
			return stdlib.Absolute(args["x"])
		})

	Floor = callClass("floor", "Largest whole number not greater than x.", "floor(2.7)",
		[]operator.Parameter{number("x", "")},
		func(args operator.Args) (cty.Value, error) {
			return stdlib.Floor(args["x"])
		})

	Ceil = callClass("ceil", "Smallest whole number not less than x.", "ceil(2.1)",
		[]operator.Parameter{number("x", "")},
		func(args operator.Args) (cty.Value, error) {
			return stdlib.Ceil(args["x"])
		})

	Sqrt = callClass("sqrt", "Square root.", "sqrt(16)",
		[]operator.Parameter{number("x", "")},
		func(args operator.Args) (cty.Value, error) {
			x := args["x"].AsBigFloat()
			if x.Sign() < 0 {
				return cty.NilVal, errDomain
			}
			if x.IsInf() {
				return args["x"], nil
			}
			return cty.NumberVal(new(big.Float).SetPrec(x.Prec()).Sqrt(x)), nil
		})

	Pow = callClass("pow", "Raises base to the power of exp, like **.", "pow(2, 10)",
		[]operator.Parameter{number("base", ""), number("exp", "")},
		func(args operator.Args) (cty.Value, error) {
			return value.Pow(args["base"], args["exp"])
		})

	Log = callClass("log", "Logarithm of x. Natural unless base is given.", "log(100, 10)",
		[]operator.Parameter{
			number("x", "A positive number."),
			{Name: "base", Description: "Positive and not 1.", Type: cty.Number, Default: cty.NumberFloatVal(math.E)},
		},
		func(args operator.Args) (cty.Value, error) {
			x, base := args["x"], args["base"]
			if x.AsBigFloat().Sign() <= 0 || base.AsBigFloat().Sign() <= 0 || base.Equals(cty.NumberIntVal(1)).True() {
				return cty.NilVal, errDomain
			}
			if x.AsBigFloat().IsInf() || base.AsBigFloat().IsInf() {
				return cty.NilVal, errDomain
			}
			return stdlib.Log(x, base)
		})

	Round = callClass("round", "Rounds half to even, to ndigits decimal places.", "round(2.675, 2)",
		[]operator.Parameter{
			number("x", ""),
			{Name: "ndigits", Type: cty.Number, Default: cty.Zero, Min: operator.Bound(-308), Max: operator.Bound(308)},
		},
		func(args operator.Args) (cty.Value, error) {
			x := args["x"]
			if x.AsBigFloat().IsInf() {
				return x, nil
			}
			ndigits, err := value.Int(args["ndigits"])
			if err != nil {
				return cty.NilVal, fmt.Errorf("ndigits: %w", err)
			}
			f, _ := x.AsBigFloat().Float64()
			scale := math.Pow10(ndigits)
			rounded := math.RoundToEven(f*scale) / scale
			if math.IsNaN(rounded) || math.IsInf(rounded, 0) {
				return x, nil
			}
			return cty.NumberFloatVal(rounded), nil
		})

	Min = extremum("min", "Smallest of the arguments, or of the elements of a single list argument.", stdlib.Min)
	Max = extremum("max", "Largest of the arguments, or of the elements of a single list argument.", stdlib.Max)
)

type extremumOp struct {
	operator.Variadic
	fn func(...cty.Value) (cty.Value, error)
}

func extremum(name, description string, fn func(...cty.Value) (cty.Value, error)) *operator.Class {
	return &operator.Class{
		Name:        name,
		Description: description,
		Example:     name + "(1, 2, 3)",
		Family:      operator.FamilyVariadic,
		Arity:       &operator.Arity{Min: 1, Max: operator.Unbounded},
		Build: func(b operator.Base) operator.Operator {
			return &extremumOp{Variadic: operator.Variadic{Base: b}, fn: fn}
		},
	}
}

func (o *extremumOp) Compute() (cty.Value, error) {
	values, err := o.ComputedOperands()
	if err != nil {
		return cty.NilVal, err
	}
	if len(values) == 1 {
		ty := values[0].Type()
		if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
			if !values[0].IsWhollyKnown() {
				return cty.NilVal, value.ErrUnknown
			}
			values = values[0].AsValueSlice()
		}
	}
	if len(values) == 0 {
		return cty.NilVal, fmt.Errorf("%s: empty sequence", o.Name())
	}

	numbers := make([]cty.Value, len(values))
	for i, v := range values {
		n, err := value.Number(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: argument %d: %w", o.Name(), i, err)
		}
		numbers[i] = n
	}
	return o.fn(numbers...)
}
