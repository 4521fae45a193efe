// Package comparison provides equality, ordering, membership and identity
// operators.
package comparison

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every comparison operator.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Eq, NotEq, Lt, LtE, Gt, GtE, In, NotIn, Is, IsNot)
}

var errNotComparable = errors.New("values cannot be ordered")

type compareFunc func(l, r cty.Value) (bool, error)

type comparison struct {
	operator.Comparison
	symbol string
	fn     compareFunc
}

func (c *comparison) Compute() (cty.Value, error) {
	l, r, err := c.ComputedLeftRight()
	if err != nil {
		return cty.NilVal, err
	}
	ok, err := c.fn(l, r)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s %s %s: %w", value.TypeName(l), c.symbol, value.TypeName(r), err)
	}
	return cty.BoolVal(ok), nil
}

func class(name, symbol, description string, fn compareFunc) *operator.Class {
	return &operator.Class{
		Name:        name,
		DisplayName: symbol,
		Description: description,
		Example:     "a " + symbol + " b",
		Family:      operator.FamilyCompare,
		Build: func(b operator.Base) operator.Operator {
			return &comparison{Comparison: operator.Comparison{Base: b}, symbol: symbol, fn: fn}
		},
	}
}

func negate(fn compareFunc) compareFunc {
	return func(l, r cty.Value) (bool, error) {
		ok, err := fn(l, r)
		return !ok, err
	}
}

var (
	Eq    = class("Eq", "==", "True when both values are equal.", equal)
	NotEq = class("NotEq", "!=", "True when the values differ.", negate(equal))
	Lt    = class("Lt", "<", "Orders numbers or strings.", order(stdlib.LessThan, func(c int) bool { return c < 0 }))
	LtE   = class("LtE", "<=", "Orders numbers or strings.", order(stdlib.LessThanOrEqualTo, func(c int) bool { return c <= 0 }))
	Gt    = class("Gt", ">", "Orders numbers or strings.", order(stdlib.GreaterThan, func(c int) bool { return c > 0 }))
	GtE   = class("GtE", ">=", "Orders numbers or strings.", order(stdlib.GreaterThanOrEqualTo, func(c int) bool { return c >= 0 }))
	In    = class("In", "in", "Membership in a list, a string or the keys of an object.", contains)
	NotIn = class("NotIn", "not in", "Negated membership.", negate(contains))
	Is    = class("Is", "is", "True when both values have the same type and value; mostly used with null.", identical)
	IsNot = class("IsNot", "is not", "Negated identity.", negate(identical))
)

// Equal reports structural equality. Numbers compare by value, bools equal
// to numbers compare as 0 and 1, and nulls are only equal to nulls.
func Equal(l, r cty.Value) bool {
	ok, _ := equal(l, r)
	return ok
}

func equal(l, r cty.Value) (bool, error) {
	if !l.IsKnown() || !r.IsKnown() {
		return false, value.ErrUnknown
	}
	if l.IsNull() || r.IsNull() {
		return l.IsNull() && r.IsNull(), nil
	}
	if isNumeric(l) && isNumeric(r) && l.Type() != r.Type() {
		ln, _ := value.Number(l)
		rn, _ := value.Number(r)
		return ln.Equals(rn).True(), nil
	}
	eq := l.Equals(r)
	return eq.IsKnown() && eq.True(), nil
}

func isNumeric(v cty.Value) bool {
	return v.Type() == cty.Number || v.Type() == cty.Bool
}

func order(numeric func(a, b cty.Value) (cty.Value, error), str func(int) bool) compareFunc {
	return func(l, r cty.Value) (bool, error) {
		if l.IsNull() || r.IsNull() {
			return false, errNotComparable
		}
		if isNumeric(l) && isNumeric(r) {
			ln, _ := value.Number(l)
			rn, _ := value.Number(r)
			v, err := numeric(ln, rn)
			if err != nil {
				return false, err
			}
			return v.True(), nil
		}
		if l.Type() == cty.String && r.Type() == cty.String {
			return str(strings.Compare(l.AsString(), r.AsString())), nil
		}
		return false, errNotComparable
	}
}

// contains implements `l in r`.
func contains(l, r cty.Value) (bool, error) {
	if !r.IsKnown() || r.IsNull() {
		return false, errors.New("right operand is not a container")
	}
	ty := r.Type()
	switch {
	case ty == cty.String:
		needle, err := value.String(l)
		if err != nil {
			return false, err
		}
		return strings.Contains(r.AsString(), needle), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		for it := r.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if Equal(l, elem) {
				return true, nil
			}
		}
		return false, nil

	case ty.IsMapType() || ty.IsObjectType():
		key, err := value.String(l)
		if err != nil {
			return false, err
		}
		if ty.IsObjectType() {
			return ty.HasAttribute(key), nil
		}
		return r.HasIndex(cty.StringVal(key)).True(), nil
	}
	return false, errors.New("right operand is not a container")
}

// identical implements `is`: values have no identity of their own, so two
// values are the same when their types and contents match exactly.
func identical(l, r cty.Value) (bool, error) {
	if l.IsNull() && r.IsNull() {
		return true, nil
	}
	return l.Type().Equals(r.Type()) && l.RawEquals(r), nil
}
