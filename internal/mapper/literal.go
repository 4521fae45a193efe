package mapper

import (
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/syntax"
	"github.com/zclconf/go-cty/cty"
)

// constant converts a literal node. Bytes literals have no value type and
// are refused.
func constant(n *syntax.Constant) (cty.Value, error) {
	switch n.Type {
	case syntax.ConstString:
		return cty.StringVal(n.Value), nil
	case syntax.ConstInt, syntax.ConstFloat:
		v, err := cty.ParseNumberVal(n.Value)
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid number %q at %s: %w", n.Value, n.Pos(), err)
		}
		return v, nil
	case syntax.ConstBool:
		return cty.BoolVal(n.Bool), nil
	case syntax.ConstNull:
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	return cty.NilVal, &operator.UnsupportedOperatorError{
		Name:   n.Type.String(),
		Kind:   n.Kind(),
		Pos:    n.Pos(),
		Detail: fmt.Sprintf("%s literals are not supported", n.Type),
	}
}

// literal evaluates keyword argument values, which must be constants,
// signed numbers or lists of those.
func literal(node syntax.Node) (cty.Value, error) {
	switch n := node.(type) {
	case *syntax.Constant:
		return constant(n)

	case *syntax.UnaryOp:
		if n.Op != syntax.USub && n.Op != syntax.UAdd {
			break
		}
		c, ok := n.Operand.(*syntax.Constant)
		if !ok || (c.Type != syntax.ConstInt && c.Type != syntax.ConstFloat) {
			break
		}
		v, err := constant(c)
		if err != nil {
			return cty.NilVal, err
		}
		if n.Op == syntax.USub {
			v = v.Negate()
		}
		return v, nil

	case *syntax.List:
		if len(n.Elts) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(n.Elts))
		for i, elt := range n.Elts {
			v, err := literal(elt)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = v
		}
		return cty.TupleVal(elems), nil
	}

	return cty.NilVal, &operator.UnsupportedOperatorError{
		Name:   node.Kind(),
		Kind:   node.Kind(),
		Pos:    node.Pos(),
		Detail: "keyword arguments must be literal values",
	}
}
