package operator

import (
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Family is the arity shape of an operator.
type Family string

const (
	FamilyNullary   Family = "name"
	FamilyUnary     Family = "unary"
	FamilyBinary    Family = "binary"
	FamilyCompare   Family = "compare"
	FamilyVariadic  Family = "nary"
	FamilyCall      Family = "call"
	FamilyTernary   Family = "ternary"
	FamilySubscript Family = "subscript"
	FamilyList      Family = "list"
)

var familyArity = map[Family]Arity{
	FamilyNullary:   {0, 0},
	FamilyUnary:     {1, 1},
	FamilyBinary:    {2, 2},
	FamilyCompare:   {2, 2},
	FamilyVariadic:  {0, Unbounded},
	FamilyCall:      {0, Unbounded},
	FamilyTernary:   {3, 3},
	FamilySubscript: {3, 3},
	FamilyList:      {0, Unbounded},
}

var familyLabels = map[Family][]string{
	FamilyUnary:     {"operand"},
	FamilyBinary:    {"left", "right"},
	FamilyCompare:   {"left", "right"},
	FamilyTernary:   {"test", "body", "orelse"},
	FamilySubscript: {"value", "index", "ctx"},
}

// Arity is the family's operand count. Unknown families accept anything.
func (f Family) Arity() Arity {
	if a, ok := familyArity[f]; ok {
		return a
	}
	return Arity{0, Unbounded}
}

// Labels names the operands by position, when the family fixes them.
func (f Family) Labels() []string {
	return familyLabels[f]
}

// Nullary operators are bare names such as `now` or `pi`.
type Nullary struct{ Base }

type Unary struct{ Base }

// Operand returns the single operand.
func (u *Unary) Operand() Operand {
	return u.operands[0]
}

// ComputedOperand computes the single operand.
func (u *Unary) ComputedOperand() (cty.Value, error) {
	return u.operands[0].Compute()
}

type Binary struct{ Base }

func (b *Binary) Left() Operand  { return b.operands[0] }
func (b *Binary) Right() Operand { return b.operands[1] }

// ComputedLeftRight computes both operands.
func (b *Binary) ComputedLeftRight() (cty.Value, cty.Value, error) {
	return computePair(b.operands)
}

// Comparison operators compare two operands.
type Comparison struct{ Base }

// ComputedLeftRight computes both sides of the comparison.
func (c *Comparison) ComputedLeftRight() (cty.Value, cty.Value, error) {
	return computePair(c.operands)
}

func computePair(operands []Operand) (cty.Value, cty.Value, error) {
	left, err := operands[0].Compute()
	if err != nil {
		return cty.NilVal, cty.NilVal, err
	}
	right, err := operands[1].Compute()
	if err != nil {
		return cty.NilVal, cty.NilVal, err
	}
	return left, right, nil
}

// Variadic operators take any number of operands.
type Variadic struct{ Base }

// Collection operators build a value from their operands, like list literals.
type Collection struct{ Base }

// Call operators bind their operands to the class Parameters.
type Call struct{ Base }

// Args computes the operands and binds them to parameters by position.
// Omitted optional parameters take their default, and every value is checked
// against its descriptor.
func (c *Call) Args() (Args, error) {
	values, err := c.ComputedOperands()
	if err != nil {
		return nil, err
	}

	args := make(Args, len(c.class.Parameters))
	for i, p := range c.class.Parameters {
		v := cty.NullVal(cty.DynamicPseudoType)
		if i < len(values) {
			v = values[i]
		}
		checked, err := p.Check(v)
		if err != nil {
			return nil, &InvalidArgumentError{Operator: c.Name(), Parameter: p.Name, Err: err}
		}
		args[p.Name] = checked
	}
	return args, nil
}

// Args are call arguments by parameter name.
type Args map[string]cty.Value

// String returns a string argument.
func (a Args) String(name string) (string, error) {
	return value.String(a[name])
}

// Float returns a numeric argument.
func (a Args) Float(name string) (float64, error) {
	return value.Float(a[name])
}

// Has reports whether the argument is present and not null.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != cty.NilVal && !v.IsNull()
}

// Ternary is the conditional `body if test else orelse`.
type Ternary struct{ Base }

func (t *Ternary) Test() Operand   { return t.operands[0] }
func (t *Ternary) Body() Operand   { return t.operands[1] }
func (t *Ternary) OrElse() Operand { return t.operands[2] }

// Subscript is `value[index]`. The third operand is the access context tag.
type Subscript struct{ Base }

func (s *Subscript) Target() Operand { return s.operands[0] }
func (s *Subscript) Index() Operand  { return s.operands[1] }

// Context returns the access context tag, e.g. "Load".
func (s *Subscript) Context() (string, error) {
	v, err := s.operands[2].Compute()
	if err != nil {
		return "", err
	}
	ctx, err := value.String(v)
	if err != nil {
		return "", fmt.Errorf("subscript context: %w", err)
	}
	return ctx, nil
}
