package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	t.Parallel()

	// Arrange
	input := `a + 1_000 ** 2.5e3 // .5 >= b'x' and not c != "q\"t" || d << 1 [x:y] f(k=1)`
	expected := []struct {
		typ     TokenType
		literal string
	}{
		{IDENT, "a"},
		{PLUS, "+"},
		{INT, "1000"},
		{POWER, "**"},
		{FLOAT, "2.5e3"},
		{DOUBLE_SLASH, "//"},
		{FLOAT, ".5"},
		{GTE, ">="},
		{BYTES, "x"},
		{AND, "and"},
		{NOT, "not"},
		{IDENT, "c"},
		{NOT_EQ, "!="},
		{STRING, `q"t`},
		{LOGICAL_OR, "||"},
		{IDENT, "d"},
		{LSHIFT, "<<"},
		{INT, "1"},
		{LBRACKET, "["},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "y"},
		{RBRACKET, "]"},
		{IDENT, "f"},
		{LPAREN, "("},
		{IDENT, "k"},
		{ASSIGN, "="},
		{INT, "1"},
		{RPAREN, ")"},
		{EOF, ""},
	}

	// Act
	l := NewLexer(input)

	// Assert
	for i, want := range expected {
		tok := l.NextToken()
		require.Equal(t, want.typ, tok.Type, "token %d (%q) has wrong type", i, tok.Literal)
		assert.Equal(t, want.literal, tok.Literal, "token %d has wrong literal", i)
	}
}

func TestNextToken_Keywords(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  TokenType
	}{
		{"true", TRUE},
		{"True", TRUE},
		{"false", FALSE},
		{"None", NULL},
		{"null", NULL},
		{"is", IS},
		{"in", IN},
		{"if", IF},
		{"else", ELSE},
		{"index", IDENT},
		{"_private", IDENT},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			tok := NewLexer(tc.input).NextToken()
			assert.Equal(t, tc.want, tok.Type)
		})
	}
}

func TestNextToken_Positions(t *testing.T) {
	t.Parallel()

	// Arrange
	l := NewLexer("a\n  + b")

	// Act
	first := l.NextToken()
	second := l.NextToken()
	third := l.NextToken()

	// Assert
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, first.Pos())
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, 3, second.Column)
	assert.Equal(t, 2, third.Line)
	assert.Equal(t, 5, third.Column)
}

func TestNextToken_Illegal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{"unterminated string", `"abc`},
		{"string broken by newline", "'ab\ncd'"},
		{"bad escape", `"\q"`},
		{"bad exponent", "1e+"},
		{"unknown character", "$"},
		{"nul byte", "\x00garbage"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tok := NewLexer(tc.input).NextToken()
			assert.Equal(t, ILLEGAL, tok.Type)
		})
	}
}

func TestNextToken_NulIsNotEndOfInput(t *testing.T) {
	t.Parallel()

	// Arrange
	l := NewLexer("1\x00")

	// Act
	first, second, third := l.NextToken(), l.NextToken(), l.NextToken()

	// Assert
	assert.Equal(t, INT, first.Type)
	assert.Equal(t, ILLEGAL, second.Type)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, EOF, third.Type)
}

func TestNextToken_StringEscapes(t *testing.T) {
	t.Parallel()

	tok := NewLexer(`'tab\there \'quoted\' é'`).NextToken()

	require.Equal(t, STRING, tok.Type)
	assert.Equal(t, "tab\there 'quoted' é", tok.Literal)
}
