package operator

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// ErrNotPrepared is returned by operators whose Compute needs state that only
// Prepare sets.
var ErrNotPrepared = errors.New("operator computed before preparation")

// Operator is one node of an expression tree.
type Operator interface {
	Class() *Class
	Operands() []Operand
	// Prepare prepares the operands, then does this node's own blocking work.
	Prepare(ctx context.Context) error
	// Compute returns the node's value from state set by the last Prepare.
	Compute() (cty.Value, error)
	// Dependencies lists the external inputs of this node and its operands,
	// without structural duplicates, in first-seen order.
	Dependencies() []dependency.Dependency
	String() string
}

// Operand is either a literal value or a nested operator.
type Operand struct {
	literal cty.Value
	op      Operator
}

// Literal wraps a constant value.
func Literal(v cty.Value) Operand {
	return Operand{literal: v}
}

// Nested wraps an operator.
func Nested(op Operator) Operand {
	return Operand{op: op}
}

// Operator returns the nested operator, if there is one.
func (o Operand) Operator() (Operator, bool) {
	return o.op, o.op != nil
}

// Literal returns the constant value, if the operand is one.
func (o Operand) Literal() (cty.Value, bool) {
	if o.op != nil {
		return cty.NilVal, false
	}
	return o.literal, true
}

// Prepare prepares a nested operator. Literals need no preparation.
func (o Operand) Prepare(ctx context.Context) error {
	if o.op == nil {
		return nil
	}
	return o.op.Prepare(ctx)
}

// Compute returns the literal or computes the nested operator.
func (o Operand) Compute() (cty.Value, error) {
	if o.op == nil {
		if o.literal == cty.NilVal {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		return o.literal, nil
	}
	return o.op.Compute()
}

// Dependencies of a literal are always empty.
func (o Operand) Dependencies() []dependency.Dependency {
	if o.op == nil {
		return nil
	}
	return o.op.Dependencies()
}

func (o Operand) String() string {
	if o.op != nil {
		return o.op.String()
	}
	return value.Format(o.literal)
}

// Base carries the state every operator shares: its class, its operands and
// its keyword data. Family types embed it.
type Base struct {
	class    *Class
	operands []Operand
	kwargs   map[string]cty.Value
}

func (b *Base) Class() *Class {
	return b.class
}

// Name is the lookup name of the operator's class.
func (b *Base) Name() string {
	if b.class == nil {
		return ""
	}
	return b.class.Name
}

func (b *Base) Operands() []Operand {
	return b.operands
}

// Kwargs returns the keyword data given at construction.
func (b *Base) Kwargs() map[string]cty.Value {
	return b.kwargs
}

// Kwarg returns one keyword value.
func (b *Base) Kwarg(name string) (cty.Value, bool) {
	v, ok := b.kwargs[name]
	return v, ok
}

// Prepare prepares every operand in order. Operators with their own
// preparation call it first.
func (b *Base) Prepare(ctx context.Context) error {
	for _, operand := range b.operands {
		if err := operand.Prepare(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ComputedOperands computes every operand in order.
func (b *Base) ComputedOperands() ([]cty.Value, error) {
	out := make([]cty.Value, len(b.operands))
	for i, operand := range b.operands {
		v, err := operand.Compute()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dependencies collects the operands' dependencies. Operators declaring
// their own put them in front:
//
//	return dependency.AppendUnique(own, o.Base.Dependencies()...)
func (b *Base) Dependencies() []dependency.Dependency {
	var out []dependency.Dependency
	for _, operand := range b.operands {
		out = dependency.AppendUnique(out, operand.Dependencies()...)
	}
	return out
}

func (b *Base) String() string {
	args := make([]string, 0, len(b.operands)+len(b.kwargs))
	for _, operand := range b.operands {
		args = append(args, operand.String())
	}
	keys := make([]string, 0, len(b.kwargs))
	for k := range b.kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k+"="+value.Format(b.kwargs[k]))
	}
	return b.Name() + "(" + strings.Join(args, ", ") + ")"
}
