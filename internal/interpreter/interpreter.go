// Package interpreter drives the lifecycle of a formula: text is mapped to
// an operator tree once, then every evaluation prepares the tree and
// computes its value.
//
// An Interpreter holds one current expression. Compile returns independent
// expressions instead, for callers that keep several formulas alive or
// evaluate them from different goroutines.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/mapper"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoExpression is returned when computing or inspecting an interpreter
// that has not prepared an expression yet.
var ErrNoExpression = errors.New("no expression prepared")

// Interpreter resolves names through its own table of operator classes.
type Interpreter struct {
	classes map[string]*operator.Class
	mapper  *mapper.Mapper
	current *Expression
}

// New creates an interpreter over the given classes. When two classes share
// a name the later one wins.
func New(classes []*operator.Class) *Interpreter {
	i := &Interpreter{classes: make(map[string]*operator.Class, len(classes))}
	i.mapper = mapper.New(i.classes)
	i.Extend(classes)
	return i
}

// NewFromRegistry creates an interpreter over the classes of the given
// libraries, or of every non-contextual library when none are named.
func NewFromRegistry(r *registry.Registry, libraries ...string) *Interpreter {
	return New(r.GetAllOperators(libraries...))
}

// Extend adds classes to the name table, replacing existing names.
func (i *Interpreter) Extend(classes []*operator.Class) {
	for _, class := range classes {
		i.classes[class.Name] = class
	}
}

// Names lists the resolvable names in sorted order.
func (i *Interpreter) Names() []string {
	out := make([]string, 0, len(i.classes))
	for name := range i.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Compile maps text into a new expression without touching the current one.
func (i *Interpreter) Compile(ctx context.Context, text string) (*Expression, error) {
	root, err := i.mapper.Map(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", text, err)
	}
	return &Expression{text: text, root: root}, nil
}

// Prepare maps text and makes it the current expression. Nothing is
// computed. On failure the previous expression is kept.
func (i *Interpreter) Prepare(ctx context.Context, text string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Preparing expression.", "expression", text)

	expr, err := i.Compile(ctx, text)
	if err != nil {
		return err
	}
	i.current = expr
	return nil
}

// Parse is an alias of Prepare.
func (i *Interpreter) Parse(ctx context.Context, text string) error {
	return i.Prepare(ctx, text)
}

// Interprete prepares text and computes it once.
func (i *Interpreter) Interprete(ctx context.Context, text string) (cty.Value, error) {
	if err := i.Prepare(ctx, text); err != nil {
		return cty.NilVal, err
	}
	return i.ComputeExpression(ctx)
}

// ComputeExpression prepares the current tree and computes its value.
func (i *Interpreter) ComputeExpression(ctx context.Context) (cty.Value, error) {
	if i.current == nil {
		return cty.NilVal, ErrNoExpression
	}
	return i.current.Compute(ctx)
}

// Dependencies returns the current expression's dependencies.
func (i *Interpreter) Dependencies() ([]dependency.Dependency, error) {
	if i.current == nil {
		return nil, ErrNoExpression
	}
	return i.current.Dependencies(), nil
}

// Expression returns the current expression, or nil.
func (i *Interpreter) Expression() *Expression {
	return i.current
}
