// Package env_vars provides the `env` operator, reading process environment
// variables into expressions.
package env_vars

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// LibrarySystem is the library of operators that read the host environment.
const LibrarySystem = "system"

// Module implements the registry.Module interface for this package.
type Module struct {
	// LookupEnv overrides os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Register registers env.
func (m *Module) Register(r *registry.Registry) {
	lookup := m.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r.Register(NewEnv(lookup))
}

// NewEnv builds the `env` operator over lookup.
func NewEnv(lookup func(string) (string, bool)) *operator.Class {
	return &operator.Class{
		Name:        "env",
		Library:     LibrarySystem,
		DisplayName: "Environment variable",
		Description: "Value of an environment variable, read when the expression is prepared.",
		Example:     `env("RISK_LIMIT", "0.02")`,
		Family:      operator.FamilyCall,
		Parameters: []operator.Parameter{
			{Name: "name", Description: "Variable name.", Required: true, Type: cty.String},
			{Name: "default", Description: "Returned when the variable is unset. Without it an unset variable is an error.", Type: cty.DynamicPseudoType},
		},
		Build: func(b operator.Base) operator.Operator {
			return &env{Call: operator.Call{Base: b}, lookup: lookup}
		},
	}
}

type env struct {
	operator.Call
	lookup func(string) (string, bool)
	value  cty.Value
}

func (e *env) Prepare(ctx context.Context) error {
	if err := e.Call.Prepare(ctx); err != nil {
		return err
	}
	e.value = cty.NilVal

	args, err := e.Args()
	if err != nil {
		return err
	}
	name, err := args.String("name")
	if err != nil {
		return err
	}
	if v, ok := e.lookup(name); ok {
		e.value = cty.StringVal(v)
		return nil
	}
	if args.Has("default") {
		e.value = args["default"]
		return nil
	}
	return fmt.Errorf("environment variable %q is not set", name)
}

func (e *env) Compute() (cty.Value, error) {
	if e.value == cty.NilVal {
		return cty.NilVal, operator.ErrNotPrepared
	}
	return e.value, nil
}
