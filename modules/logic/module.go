// Package logic provides the boolean operators and the conditional
// expression.
package logic

import (
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers And, Or, Not and if_else.
func (m *Module) Register(r *registry.Registry) {
	r.Register(And, Or, Not, IfElse)
}

var (
	And = &operator.Class{
		Name:        "And",
		DisplayName: "and",
		Description: "True when every operand is truthy. Stops at the first falsy operand.",
		Example:     "a and b and c",
		Family:      operator.FamilyVariadic,
		Arity:       &operator.Arity{Min: 1, Max: operator.Unbounded},
		Build: func(b operator.Base) operator.Operator {
			return &boolOp{Variadic: operator.Variadic{Base: b}, stopOn: false}
		},
	}

	Or = &operator.Class{
		Name:        "Or",
		DisplayName: "or",
		Description: "True when any operand is truthy. Stops at the first truthy operand.",
		Example:     "a or b",
		Family:      operator.FamilyVariadic,
		Arity:       &operator.Arity{Min: 1, Max: operator.Unbounded},
		Build: func(b operator.Base) operator.Operator {
			return &boolOp{Variadic: operator.Variadic{Base: b}, stopOn: true}
		},
	}

	Not = &operator.Class{
		Name:        "Not",
		DisplayName: "not",
		Description: "Negates the truthiness of its operand.",
		Example:     "not a",
		Family:      operator.FamilyUnary,
		Build: func(b operator.Base) operator.Operator {
			return &not{Unary: operator.Unary{Base: b}}
		},
	}

	IfElse = &operator.Class{
		Name:        "if_else",
		DisplayName: "if ... else",
		Description: "Returns body when test is truthy, otherwise orelse. Only the chosen branch is computed.",
		Example:     "a if a > b else b",
		Family:      operator.FamilyTernary,
		Build: func(b operator.Base) operator.Operator {
			return &ifElse{Ternary: operator.Ternary{Base: b}}
		},
	}
)

// boolOp computes operands left to right until one has truthiness stopOn.
type boolOp struct {
	operator.Variadic
	stopOn bool
}

func (o *boolOp) Compute() (cty.Value, error) {
	for _, operand := range o.Operands() {
		v, err := operand.Compute()
		if err != nil {
			return cty.NilVal, err
		}
		if value.Truthy(v) == o.stopOn {
			return value.Bool(o.stopOn), nil
		}
	}
	return value.Bool(!o.stopOn), nil
}

type not struct {
	operator.Unary
}

func (n *not) Compute() (cty.Value, error) {
	v, err := n.ComputedOperand()
	if err != nil {
		return cty.NilVal, err
	}
	return value.Bool(!value.Truthy(v)), nil
}

type ifElse struct {
	operator.Ternary
}

func (e *ifElse) Compute() (cty.Value, error) {
	test, err := e.Test().Compute()
	if err != nil {
		return cty.NilVal, err
	}
	if value.Truthy(test) {
		return e.Body().Compute()
	}
	return e.OrElse().Compute()
}
