package comparison

import (
	"testing"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func compute(t *testing.T, class *operator.Class, l, r cty.Value) (cty.Value, error) {
	t.Helper()
	op, err := class.New([]operator.Operand{operator.Literal(l), operator.Literal(r)}, nil)
	require.NoError(t, err)
	return op.Compute()
}

func TestComparisons(t *testing.T) {
	t.Parallel()

	n := func(f float64) cty.Value { return cty.NumberFloatVal(f) }
	s := cty.StringVal
	null := cty.NullVal(cty.DynamicPseudoType)
	list := cty.TupleVal([]cty.Value{n(1), s("a")})
	obj := cty.ObjectVal(map[string]cty.Value{"price": n(1)})

	testCases := []struct {
		name  string
		class *operator.Class
		l, r  cty.Value
		want  bool
	}{
		{"eq numbers", Eq, n(1), n(1.0), true},
		{"eq mixed types", Eq, n(1), s("1"), false},
		{"eq bool and number", Eq, cty.True, n(1), true},
		{"eq nulls", Eq, null, cty.NullVal(cty.Number), true},
		{"eq null and value", Eq, null, n(0), false},
		{"eq tuples", Eq, list, cty.TupleVal([]cty.Value{n(1), s("a")}), true},
		{"noteq", NotEq, n(1), n(2), true},
		{"lt", Lt, n(1), n(2), true},
		{"lte equal", LtE, n(2), n(2), true},
		{"gt strings", Gt, s("b"), s("a"), true},
		{"gte", GtE, n(1), n(2), false},
		{"in tuple", In, s("a"), list, true},
		{"in tuple numeric", In, n(1.0), list, true},
		{"in string", In, s("ell"), s("hello"), true},
		{"in object keys", In, s("price"), obj, true},
		{"in map keys", In, s("x"), cty.MapVal(map[string]cty.Value{"y": n(1)}), false},
		{"not in", NotIn, n(3), list, true},
		{"is null", Is, null, null, true},
		{"is typed null", Is, cty.NullVal(cty.String), null, true},
		{"is value", Is, n(1), n(1), true},
		{"is differs by type", Is, cty.True, n(1), false},
		{"is not null", IsNot, n(0), null, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := compute(t, tc.class, tc.l, tc.r)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got.True())
		})
	}
}

func TestComparisons_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		class *operator.Class
		l, r  cty.Value
		msg   string
	}{
		{"order string and number", Lt, cty.StringVal("a"), cty.NumberIntVal(1), "string < number: values cannot be ordered"},
		{"order null", Gt, cty.NullVal(cty.DynamicPseudoType), cty.NumberIntVal(1), "values cannot be ordered"},
		{"in number", In, cty.NumberIntVal(1), cty.NumberIntVal(1), "not a container"},
		{"number in string", In, cty.NumberIntVal(1), cty.StringVal("1"), "expected string"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := compute(t, tc.class, tc.l, tc.r)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
