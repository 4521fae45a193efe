package operator

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/syntax"
)

// InvalidParametersError reports an operand count outside a class's arity.
type InvalidParametersError struct {
	Operator string
	Got      int
	// Reason is e.g. "supports up to 2 parameters".
	Reason string
	// Expected describes the accepted parameters, when the class names them.
	Expected []string
}

func (e *InvalidParametersError) Error() string {
	msg := fmt.Sprintf("%s %s, got %d", e.Operator, e.Reason, e.Got)
	if len(e.Expected) > 0 {
		msg += "; expected parameters: " + strings.Join(e.Expected, ", ")
	}
	return msg
}

// InvalidArgumentError reports an argument that does not satisfy its
// parameter descriptor.
type InvalidArgumentError struct {
	Operator  string
	Parameter string
	Err       error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: parameter %q: %v", e.Operator, e.Parameter, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// UnsupportedOperatorError reports syntax that has no registered operator:
// an unknown name or symbol, an unhandled syntax kind or a disallowed literal.
type UnsupportedOperatorError struct {
	// Name is the lookup name, or the syntax kind when nothing was looked up.
	Name string
	// Kind is the syntax kind that produced the lookup, e.g. "Call".
	Kind string
	Pos  syntax.Position
	// Detail explains why the syntax is refused, when that is not obvious.
	Detail      string
	Suggestions []string
}

func (e *UnsupportedOperatorError) Error() string {
	var msg string
	if e.Name == e.Kind || e.Name == "" {
		msg = fmt.Sprintf("unsupported syntax %s", e.Kind)
	} else {
		msg = fmt.Sprintf("unsupported operator %q (%s)", e.Name, e.Kind)
	}
	if e.Pos.Line > 0 {
		msg += " at " + e.Pos.String()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		msg += "; did you mean " + strings.Join(quoted, " or ") + "?"
	}
	return msg
}
