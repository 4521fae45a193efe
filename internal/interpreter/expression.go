package interpreter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// ResultTypeError reports an expression whose value is not a string,
// number, bool, null, list or tuple.
type ResultTypeError struct {
	Expression string
	Type       string
}

func (e *ResultTypeError) Error() string {
	return fmt.Sprintf("expression %q produced a value of type %s, which cannot be a result", e.Expression, e.Type)
}

// Expression is mapped formula text. The tree it owns must not be computed
// from two goroutines at once.
type Expression struct {
	text string
	root operator.Operand
}

// Text returns the source text.
func (e *Expression) Text() string {
	return e.text
}

// Root returns the resolved root: a literal or an operator.
func (e *Expression) Root() operator.Operand {
	return e.root
}

func (e *Expression) String() string {
	return e.root.String()
}

// Compute prepares the tree and computes the root. A literal root is
// returned as is.
func (e *Expression) Compute(ctx context.Context) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	op, ok := e.root.Operator()
	if !ok {
		v, _ := e.root.Literal()
		return v, nil
	}

	if err := op.Prepare(ctx); err != nil {
		return cty.NilVal, err
	}
	v, err := op.Compute()
	if err != nil {
		return cty.NilVal, err
	}
	if !value.IsResult(v) {
		return cty.NilVal, &ResultTypeError{Expression: e.text, Type: value.TypeName(v)}
	}

	logger.Debug("Computed expression.", "expression", e.text, "value", value.Format(v))
	return v, nil
}

// Dependencies returns the deduplicated dependencies of the tree. A literal
// root has none.
func (e *Expression) Dependencies() []dependency.Dependency {
	deps := e.root.Dependencies()
	if deps == nil {
		return []dependency.Dependency{}
	}
	return deps
}

// Bundle wraps Dependencies for satisfaction checks.
func (e *Expression) Bundle() *dependency.Bundle {
	return dependency.NewBundle(e.Dependencies()...)
}
