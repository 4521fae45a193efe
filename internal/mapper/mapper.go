// Package mapper turns formula text into a tree of operators.
//
// The text is parsed by internal/syntax and the tree is walked once. Every
// operator symbol, call and bare name is resolved through a name table,
// usually built by the interpreter from registry classes:
//
//	a + b          Add(a, b)
//	not x          Not(x)
//	a < b          Lt(a, b)
//	now            now()
//	f(x, k=1)      f(x) with keyword data {k: 1}
//	a if c else b  if_else(c, a, b)
//	xs[1:]         subscript(xs, slice(1, null, null), "Load")
//	[1, 2]         list(1, 2)
package mapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/syntax"
	"github.com/zclconf/go-cty/cty"
)

// Names of the operators the mapper produces for non-symbol syntax.
const (
	IfElse    = "if_else"
	Subscript = "subscript"
	Slice     = "slice"
	List      = "list"
)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// Mapper resolves syntax to operators through a name table.
type Mapper struct {
	classes map[string]*operator.Class
}

// New creates a mapper over the given name table. The map is not copied.
func New(classes map[string]*operator.Class) *Mapper {
	return &Mapper{classes: classes}
}

// Map parses text and builds its operator tree. The root may be a plain
// literal.
func (m *Mapper) Map(ctx context.Context, text string) (operator.Operand, error) {
	logger := ctxlog.FromContext(ctx)

	node, err := syntax.ParseExpression(text)
	if err != nil {
		return operator.Operand{}, err
	}

	root, err := m.MapNode(node)
	if err != nil {
		return operator.Operand{}, err
	}

	logger.Debug("Mapped expression.", "expression", text, "tree", root.String())
	return root, nil
}

// MapNode builds the operator tree of an already parsed expression.
func (m *Mapper) MapNode(node syntax.Node) (operator.Operand, error) {
	switch n := node.(type) {
	case *syntax.Constant:
		v, err := constant(n)
		if err != nil {
			return operator.Operand{}, err
		}
		return operator.Literal(v), nil

	case *syntax.Name:
		return m.build(n.Id, n.Kind(), n.Pos(), nil, nil)

	case *syntax.Call:
		return m.mapCall(n)

	case *syntax.BinOp:
		return m.buildFrom(n.Op.String(), n, n.Left, n.Right)

	case *syntax.UnaryOp:
		return m.buildFrom(n.Op.String(), n, n.Operand)

	case *syntax.BoolOp:
		return m.buildFrom(n.Op.String(), n, n.Values...)

	case *syntax.Compare:
		if len(n.Ops) != 1 {
			return operator.Operand{}, &operator.UnsupportedOperatorError{
				Name:   n.Kind(),
				Kind:   n.Kind(),
				Pos:    n.Pos(),
				Detail: fmt.Sprintf("chained comparison %s; combine single comparisons with 'and'", n),
			}
		}
		return m.buildFrom(n.Ops[0].String(), n, n.Left, n.Comparators[0])

	case *syntax.IfExp:
		return m.buildFrom(IfElse, n, n.Test, n.Body, n.OrElse)

	case *syntax.Subscript:
		return m.mapSubscript(n)

	case *syntax.List:
		return m.buildFrom(List, n, n.Elts...)
	}

	return operator.Operand{}, &operator.UnsupportedOperatorError{
		Name: node.Kind(),
		Kind: node.Kind(),
		Pos:  node.Pos(),
	}
}

func (m *Mapper) mapCall(n *syntax.Call) (operator.Operand, error) {
	callee, ok := n.Func.(*syntax.Name)
	if !ok {
		return operator.Operand{}, &operator.UnsupportedOperatorError{
			Name:   n.Func.Kind(),
			Kind:   n.Func.Kind(),
			Pos:    n.Func.Pos(),
			Detail: "only plain names can be called",
		}
	}

	operands, err := m.mapAll(n.Args)
	if err != nil {
		return operator.Operand{}, err
	}

	var kwargs map[string]cty.Value
	if len(n.Keywords) > 0 {
		kwargs = make(map[string]cty.Value, len(n.Keywords))
		for _, kw := range n.Keywords {
			if _, dup := kwargs[kw.Name]; dup {
				return operator.Operand{}, fmt.Errorf("%s: keyword argument %q repeated", callee.Id, kw.Name)
			}
			v, err := literal(kw.Value)
			if err != nil {
				return operator.Operand{}, fmt.Errorf("%s: keyword argument %q: %w", callee.Id, kw.Name, err)
			}
			kwargs[kw.Name] = v
		}
	}

	return m.build(callee.Id, n.Kind(), callee.Pos(), operands, kwargs)
}

func (m *Mapper) mapSubscript(n *syntax.Subscript) (operator.Operand, error) {
	target, err := m.MapNode(n.Value)
	if err != nil {
		return operator.Operand{}, err
	}

	var index operator.Operand
	if s, ok := n.Index.(*syntax.Slice); ok {
		var bounds []operator.Operand
		for _, part := range []syntax.Node{s.Lower, s.Upper, s.Step} {
			if part == nil {
				bounds = append(bounds, operator.Literal(cty.NullVal(cty.Number)))
				continue
			}
			bound, err := m.MapNode(part)
			if err != nil {
				return operator.Operand{}, err
			}
			bounds = append(bounds, bound)
		}
		index, err = m.build(Slice, s.Kind(), s.Pos(), bounds, nil)
	} else {
		index, err = m.MapNode(n.Index)
	}
	if err != nil {
		return operator.Operand{}, err
	}

	tag := operator.Literal(cty.StringVal(n.Ctx.String()))
	return m.build(Subscript, n.Kind(), n.Pos(), []operator.Operand{target, index, tag}, nil)
}

func (m *Mapper) mapAll(nodes []syntax.Node) ([]operator.Operand, error) {
	out := make([]operator.Operand, 0, len(nodes))
	for _, child := range nodes {
		operand, err := m.MapNode(child)
		if err != nil {
			return nil, err
		}
		out = append(out, operand)
	}
	return out, nil
}

func (m *Mapper) buildFrom(name string, n syntax.Node, children ...syntax.Node) (operator.Operand, error) {
	operands, err := m.mapAll(children)
	if err != nil {
		return operator.Operand{}, err
	}
	return m.build(name, n.Kind(), n.Pos(), operands, nil)
}

func (m *Mapper) build(name, kind string, pos syntax.Position, operands []operator.Operand, kwargs map[string]cty.Value) (operator.Operand, error) {
	class, ok := m.classes[name]
	if !ok {
		return operator.Operand{}, &operator.UnsupportedOperatorError{
			Name:        name,
			Kind:        kind,
			Pos:         pos,
			Suggestions: m.suggest(name),
		}
	}

	op, err := class.New(operands, kwargs)
	if err != nil {
		return operator.Operand{}, err
	}
	return operator.Nested(op), nil
}

// suggest ranks known names that look like name.
func (m *Mapper) suggest(name string) []string {
	candidates := make([]string, 0, len(m.classes))
	for known := range m.classes {
		candidates = append(candidates, known)
	}
	sort.Strings(candidates)

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)

	var out []string
	seen := map[string]bool{}
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			return out
		}
		out = append(out, r.Target)
		seen[r.Target] = true
	}

	// Typos rarely keep every character in order, so fall back to edit
	// distance.
	type near struct {
		name     string
		distance int
	}
	var nearby []near
	lower := strings.ToLower(name)
	for _, known := range candidates {
		if seen[known] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(known)); d <= 2 {
			nearby = append(nearby, near{known, d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].distance < nearby[j].distance })
	for _, c := range nearby {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
