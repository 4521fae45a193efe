package syntax

import (
	"strconv"
	"strings"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	tok.Position = l.position
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '=':
		tok = l.either('=', EQ, ASSIGN)
	case '!':
		tok = l.either('=', NOT_EQ, BANG)
	case '<':
		if l.peekChar() == '<' {
			tok = l.pair(LSHIFT)
		} else {
			tok = l.either('=', LTE, LT)
		}
	case '>':
		if l.peekChar() == '>' {
			tok = l.pair(RSHIFT)
		} else {
			tok = l.either('=', GTE, GT)
		}
	case '&':
		tok = l.either('&', LOGICAL_AND, AMPERSAND)
	case '|':
		tok = l.either('|', LOGICAL_OR, PIPE)
	case '*':
		tok = l.either('*', POWER, ASTERISK)
	case '/':
		tok = l.either('/', DOUBLE_SLASH, SLASH)
	case '+':
		tok = l.single(PLUS)
	case '-':
		tok = l.single(MINUS)
	case '%':
		tok = l.single(PERCENT)
	case '^':
		tok = l.single(CARET)
	case '~':
		tok = l.single(TILDE)
	case ',':
		tok = l.single(COMMA)
	case ':':
		tok = l.single(COLON)
	case '.':
		if isDigit(l.peekChar()) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		}
		tok = l.single(DOT)
	case '(':
		tok = l.single(LPAREN)
	case ')':
		tok = l.single(RPAREN)
	case '[':
		tok = l.single(LBRACKET)
	case ']':
		tok = l.single(RBRACKET)
	case '"', '\'':
		tok.Type, tok.Literal = l.readString(l.ch, STRING)
	case 0:
		if l.position < len(l.input) {
			// A NUL byte inside the input is not the end of it.
			tok = l.single(ILLEGAL)
			break
		}
		tok.Literal = ""
		tok.Type = EOF
		return tok
	default:
		if (l.ch == 'b' || l.ch == 'B') && (l.peekChar() == '"' || l.peekChar() == '\'') {
			l.readChar()
			tok.Type, tok.Literal = l.readString(l.ch, BYTES)
		} else if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = lookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		} else {
			tok = l.single(ILLEGAL)
		}
	}

	l.readChar()
	return tok
}

// single builds a one-character token at the current position.
func (l *Lexer) single(tokenType TokenType) Token {
	return Token{
		Type:     tokenType,
		Literal:  string(l.ch),
		Position: l.position,
		Line:     l.line,
		Column:   l.column,
	}
}

// pair consumes the next character and builds a two-character token.
func (l *Lexer) pair(tokenType TokenType) Token {
	tok := l.single(tokenType)
	l.readChar()
	tok.Literal += string(l.ch)
	return tok
}

// either builds a two-character token when the next character is next,
// and a one-character token otherwise.
func (l *Lexer) either(next byte, two, one TokenType) Token {
	if l.peekChar() == next {
		return l.pair(two)
	}
	return l.single(one)
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (TokenType, string) {
	position := l.position
	tokenType := INT

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = FLOAT
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			tokenType = FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !isDigit(l.ch) {
				return ILLEGAL, l.input[position:l.position]
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return tokenType, strings.ReplaceAll(l.input[position:l.position], "_", "")
}

// readString reads a quoted literal starting at the opening quote and leaves
// the lexer on the closing quote. Escapes follow Go/Python conventions.
func (l *Lexer) readString(quote byte, tokenType TokenType) (TokenType, string) {
	start := l.position
	var raw strings.Builder
	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			return ILLEGAL, l.input[start:l.position]
		}
		if l.ch == quote {
			break
		}
		if l.ch == '\\' {
			raw.WriteByte(l.ch)
			l.readChar()
			if l.ch == 0 {
				return ILLEGAL, l.input[start:l.position]
			}
		}
		raw.WriteByte(l.ch)
	}

	decoded, err := unescape(raw.String(), quote)
	if err != nil {
		return ILLEGAL, l.input[start : l.position+1]
	}
	return tokenType, decoded
}

func unescape(s string, quote byte) (string, error) {
	var out strings.Builder
	for len(s) > 0 {
		value, _, tail, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			return "", err
		}
		out.WriteRune(value)
		s = tail
	}
	return out.String(), nil
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
