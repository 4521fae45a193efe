package syntax

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT  // operator and function names
	INT    // integers
	FLOAT  // floating point numbers
	STRING // string literals, already unescaped
	BYTES  // b"..." literals

	// Keywords
	TRUE
	FALSE
	NULL
	AND
	OR
	NOT
	IN
	IS
	IF
	ELSE

	// Operators
	PLUS         // +
	MINUS        // -
	ASTERISK     // *
	SLASH        // /
	DOUBLE_SLASH // //
	PERCENT      // %
	POWER        // **
	EQ           // ==
	NOT_EQ       // !=
	LT           // <
	GT           // >
	LTE          // <=
	GTE          // >=
	AMPERSAND    // &
	PIPE         // |
	CARET        // ^
	TILDE        // ~
	LSHIFT       // <<
	RSHIFT       // >>
	LOGICAL_AND  // &&
	LOGICAL_OR   // ||
	BANG         // !
	ASSIGN       // = (keyword arguments only)

	// Delimiters
	COMMA    // ,
	COLON    // :
	DOT      // .
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int
	Line     int
	Column   int
}

// Pos returns the token's location.
func (t Token) Pos() Position {
	return Position{Offset: t.Position, Line: t.Line, Column: t.Column}
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"True":  TRUE,
	"false": FALSE,
	"False": FALSE,
	"null":  NULL,
	"None":  NULL,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"in":    IN,
	"is":    IS,
	"if":    IF,
	"else":  ELSE,
}

func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

var tokenNames = map[TokenType]string{
	ILLEGAL:      "ILLEGAL",
	EOF:          "EOF",
	IDENT:        "IDENT",
	INT:          "INT",
	FLOAT:        "FLOAT",
	STRING:       "STRING",
	BYTES:        "BYTES",
	TRUE:         "true",
	FALSE:        "false",
	NULL:         "null",
	AND:          "and",
	OR:           "or",
	NOT:          "not",
	IN:           "in",
	IS:           "is",
	IF:           "if",
	ELSE:         "else",
	PLUS:         "+",
	MINUS:        "-",
	ASTERISK:     "*",
	SLASH:        "/",
	DOUBLE_SLASH: "//",
	PERCENT:      "%",
	POWER:        "**",
	EQ:           "==",
	NOT_EQ:       "!=",
	LT:           "<",
	GT:           ">",
	LTE:          "<=",
	GTE:          ">=",
	AMPERSAND:    "&",
	PIPE:         "|",
	CARET:        "^",
	TILDE:        "~",
	LSHIFT:       "<<",
	RSHIFT:       ">>",
	LOGICAL_AND:  "&&",
	LOGICAL_OR:   "||",
	BANG:         "!",
	ASSIGN:       "=",
	COMMA:        ",",
	COLON:        ":",
	DOT:          ".",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACKET:     "[",
	RBRACKET:     "]",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
