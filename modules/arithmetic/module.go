// Package arithmetic provides the numeric operators behind + - * / // % **,
// the bitwise operators and the unary signs.
package arithmetic

import (
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every arithmetic operator.
func (m *Module) Register(r *registry.Registry) {
	r.Register(
		Add, Sub, Mult, Div, FloorDiv, Mod, Pow,
		USub, UAdd,
		BitAnd, BitOr, BitXor, LShift, RShift, Invert,
	)
}

type binaryFunc func(l, r cty.Value) (cty.Value, error)

type binary struct {
	operator.Binary
	symbol string
	fn     binaryFunc
}

func (b *binary) Compute() (cty.Value, error) {
	l, r, err := b.ComputedLeftRight()
	if err != nil {
		return cty.NilVal, err
	}
	v, err := b.fn(l, r)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s %s %s: %w", value.TypeName(l), b.symbol, value.TypeName(r), err)
	}
	return v, nil
}

func binaryClass(name, symbol, description string, fn binaryFunc) *operator.Class {
	return &operator.Class{
		Name:        name,
		DisplayName: symbol,
		Description: description,
		Example:     "a " + symbol + " b",
		Family:      operator.FamilyBinary,
		Build: func(b operator.Base) operator.Operator {
			return &binary{Binary: operator.Binary{Base: b}, symbol: symbol, fn: fn}
		},
	}
}

type unaryFunc func(v cty.Value) (cty.Value, error)

type unary struct {
	operator.Unary
	symbol string
	fn     unaryFunc
}

func (u *unary) Compute() (cty.Value, error) {
	v, err := u.ComputedOperand()
	if err != nil {
		return cty.NilVal, err
	}
	out, err := u.fn(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s%s: %w", u.symbol, value.TypeName(v), err)
	}
	return out, nil
}

func unaryClass(name, symbol, description string, fn unaryFunc) *operator.Class {
	return &operator.Class{
		Name:        name,
		DisplayName: symbol,
		Description: description,
		Example:     symbol + "a",
		Family:      operator.FamilyUnary,
		Build: func(b operator.Base) operator.Operator {
			return &unary{Unary: operator.Unary{Base: b}, symbol: symbol, fn: fn}
		},
	}
}

// numbers converts both operands or reports them as unsupported.
func numbers(l, r cty.Value) (cty.Value, cty.Value, error) {
	ln, lerr := value.Number(l)
	rn, rerr := value.Number(r)
	if lerr != nil || rerr != nil {
		return cty.NilVal, cty.NilVal, errUnsupportedOperands
	}
	return ln, rn, nil
}

func integers(l, r cty.Value) (int64, int64, error) {
	ln, rn, err := numbers(l, r)
	if err != nil {
		return 0, 0, err
	}
	if !value.IsInteger(ln) || !value.IsInteger(rn) {
		return 0, 0, fmt.Errorf("operands must be integers")
	}
	li, _ := ln.AsBigFloat().Int64()
	ri, _ := rn.AsBigFloat().Int64()
	return li, ri, nil
}
