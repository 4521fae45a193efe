package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/zclconf/go-cty/cty"
)

// ValidateRegistry performs a consistency check over every registered class:
// the declared arity must be satisfiable, parameter descriptors must be
// well-formed, and every discoverable class must be buildable.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, class := range r.All() {
		if class.Name == "" || class.Abstract {
			continue
		}
		label := fmt.Sprintf("operator '%s' (library '%s')", class.Name, class.Lib())

		if class.Build == nil {
			errs = append(errs, fmt.Sprintf("%s: has no Build function", label))
		}

		if a := class.Arity; a != nil && len(class.Parameters) == 0 {
			if a.Min < 0 || (a.Max != operator.Unbounded && a.Max < a.Min) {
				errs = append(errs, fmt.Sprintf("%s: arity %d..%d can never be satisfied", label, a.Min, a.Max))
			}
		}
		if class.Arity != nil && len(class.Parameters) > 0 {
			logger.Warn("Operator declares both arity and parameters; parameters take precedence.", "operator", class.Name)
		}

		seenOptional := false
		names := map[string]bool{}
		for i, p := range class.Parameters {
			if p.Name == "" {
				errs = append(errs, fmt.Sprintf("%s: parameter %d has no name", label, i))
			}
			if names[p.Name] {
				errs = append(errs, fmt.Sprintf("%s: parameter '%s' declared twice", label, p.Name))
			}
			names[p.Name] = true

			if !p.Required {
				seenOptional = true
			} else if seenOptional {
				errs = append(errs, fmt.Sprintf("%s: required parameter '%s' follows an optional one", label, p.Name))
			}

			if p.Default != cty.NilVal && !p.Default.IsNull() {
				if _, err := p.Check(p.Default); err != nil {
					errs = append(errs, fmt.Sprintf("%s: default of parameter '%s' is invalid: %v", label, p.Name, err))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
