package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpression_Precedence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"2 ** -1", "(2 ** (-1))"},
		{"a - b - c", "((a - b) - c)"},
		{"a // b % c", "((a // b) % c)"},
		{"1 | 2 ^ 3 & 4", "(1 | (2 ^ (3 & 4)))"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"a + b < c * d", "((a + b) < (c * d))"},
		{"not a == b", "(not (a == b))"},
		{"not a and b", "((not a) and b)"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"a and b and c", "(a and b and c)"},
		{"a && b || !c", "((a and b) or (not c))"},
		{"~x + 1", "((~x) + 1)"},
		{"f(a)[0] + 1", "(f(a)[0] + 1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			// Act
			node, err := ParseExpression(tc.input)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tc.want, node.String())
		})
	}
}

func TestParseExpression_Constants(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		kind  ConstantKind
		value string
		b     bool
	}{
		{"42", ConstInt, "42", false},
		{"1_000", ConstInt, "1000", false},
		{"4.5", ConstFloat, "4.5", false},
		{"'hi'", ConstString, "hi", false},
		{`b"raw"`, ConstBytes, "raw", false},
		{"True", ConstBool, "", true},
		{"false", ConstBool, "", false},
		{"None", ConstNull, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			node, err := ParseExpression(tc.input)
			require.NoError(t, err)

			c, ok := node.(*Constant)
			require.True(t, ok, "expected *Constant, got %T", node)
			assert.Equal(t, tc.kind, c.Type)
			assert.Equal(t, tc.value, c.Value)
			assert.Equal(t, tc.b, c.Bool)
		})
	}
}

func TestParseExpression_Call(t *testing.T) {
	t.Parallel()

	// Act
	node, err := ParseExpression("time_frame_to_seconds('1m', round=True,)")

	// Assert
	require.NoError(t, err)
	call, ok := node.(*Call)
	require.True(t, ok)
	assert.Equal(t, "time_frame_to_seconds", call.Func.(*Name).Id)
	require.Len(t, call.Args, 1)
	require.Len(t, call.Keywords, 1)
	assert.Equal(t, "round", call.Keywords[0].Name)
	assert.Equal(t, "Call", call.Kind())
}

func TestParseExpression_EmptyCall(t *testing.T) {
	t.Parallel()

	node, err := ParseExpression("now()")

	require.NoError(t, err)
	call := node.(*Call)
	assert.Empty(t, call.Args)
	assert.Empty(t, call.Keywords)
}

func TestParseExpression_Comparison(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		ops   []Operator
	}{
		{"a == b", []Operator{Eq}},
		{"a in b", []Operator{In}},
		{"a not in b", []Operator{NotIn}},
		{"a is b", []Operator{Is}},
		{"a is not b", []Operator{IsNot}},
		{"a < b <= c", []Operator{Lt, LtE}},
		{"1 != 2 > 0 >= -1", []Operator{NotEq, Gt, GtE}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			node, err := ParseExpression(tc.input)
			require.NoError(t, err)

			cmp, ok := node.(*Compare)
			require.True(t, ok, "expected *Compare, got %T", node)
			assert.Equal(t, tc.ops, cmp.Ops)
			assert.Len(t, cmp.Comparators, len(tc.ops))
		})
	}
}

func TestParseExpression_Conditional(t *testing.T) {
	t.Parallel()

	// Act
	node, err := ParseExpression("1 if a > 0 else 2 if b else 3")

	// Assert
	require.NoError(t, err)
	ifExp, ok := node.(*IfExp)
	require.True(t, ok)
	assert.Equal(t, "1", ifExp.Body.String())
	assert.Equal(t, "(a > 0)", ifExp.Test.String())
	assert.IsType(t, &IfExp{}, ifExp.OrElse)
}

func TestParseExpression_Subscripts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
		slice bool
	}{
		{"x[-1]", "x[(-1)]", false},
		{"x[1:3]", "x[1:3]", true},
		{"x[:3]", "x[:3]", true},
		{"x[1:]", "x[1:]", true},
		{"x[::2]", "x[::2]", true},
		{"x[:]", "x[:]", true},
		{"x[1:2:]", "x[1:2]", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			node, err := ParseExpression(tc.input)
			require.NoError(t, err)

			sub, ok := node.(*Subscript)
			require.True(t, ok)
			assert.Equal(t, tc.want, sub.String())
			assert.Equal(t, Load, sub.Ctx)
			_, isSlice := sub.Index.(*Slice)
			assert.Equal(t, tc.slice, isSlice)
		})
	}
}

func TestParseExpression_Collections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		kind  string
		want  string
	}{
		{"[]", "List", "[]"},
		{"[1, 2, 3,]", "List", "[1, 2, 3]"},
		{"()", "Tuple", "()"},
		{"(1,)", "Tuple", "(1,)"},
		{"(1, 2)", "Tuple", "(1, 2)"},
		{"(1)", "Constant", "1"},
		{"a.b", "Attribute", "a.b"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			node, err := ParseExpression(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, node.Kind())
			assert.Equal(t, tc.want, node.String())
		})
	}
}

func TestParseExpression_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", "empty expression"},
		{"blank", "   ", "empty expression"},
		{"trailing operator", "1 +", "unexpected end of input"},
		{"unbalanced paren", "(1 + 2", "expected next token to be )"},
		{"trailing tokens", "1 2", `unexpected INT "2"`},
		{"missing else", "1 if a", "expected next token to be else"},
		{"not without in", "a not b", "expected next token to be in"},
		{"positional after keyword", "f(a=1, 2)", "positional argument follows keyword argument"},
		{"illegal character", "1 $ 2", "unexpected"},
		{"nul byte before trailing text", "1 + 2\x00garbage", "unexpected"},
		{"unterminated string", `"abc`, "illegal token"},
		{"assignment", "a = 1", "unexpected"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			node, err := ParseExpression(tc.input)

			// Assert
			require.Error(t, err)
			assert.Nil(t, node)
			assert.Contains(t, err.Error(), tc.message)

			var list ErrorList
			require.ErrorAs(t, err, &list)
			assert.NotEmpty(t, list)
		})
	}
}

func TestParseExpression_ErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := ParseExpression("a +\n  )")

	var list ErrorList
	require.ErrorAs(t, err, &list)
	assert.Equal(t, 2, list[0].Pos.Line)
	assert.Equal(t, 3, list[0].Pos.Column)
}

func TestParseExpression_DepthLimit(t *testing.T) {
	t.Parallel()

	input := ""
	for i := 0; i <= MaxDepth; i++ {
		input += "("
	}
	input += "1"

	_, err := ParseExpression(input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested too deeply")
}
