package syntax

import (
	"fmt"
)

const (
	_ int = iota
	LOWEST
	TERNARY     // x if c else y
	DISJUNCTION // or ||
	CONJUNCTION // and &&
	NEGATION    // not x
	COMPARE     // == != < > <= >= in, not in, is, is not
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / // %
	PREFIX      // -X +X ~X
	EXPONENT    // **
	CALL        // f(X) x[i] x.y
)

// MaxDepth bounds expression nesting so hostile input cannot exhaust the stack.
const MaxDepth = 200

var precedences = map[TokenType]int{
	IF:           TERNARY,
	OR:           DISJUNCTION,
	LOGICAL_OR:   DISJUNCTION,
	AND:          CONJUNCTION,
	LOGICAL_AND:  CONJUNCTION,
	EQ:           COMPARE,
	NOT_EQ:       COMPARE,
	LT:           COMPARE,
	GT:           COMPARE,
	LTE:          COMPARE,
	GTE:          COMPARE,
	IN:           COMPARE,
	NOT:          COMPARE,
	IS:           COMPARE,
	PIPE:         BIT_OR,
	CARET:        BIT_XOR,
	AMPERSAND:    BIT_AND,
	LSHIFT:       SHIFT,
	RSHIFT:       SHIFT,
	PLUS:         SUM,
	MINUS:        SUM,
	ASTERISK:     PRODUCT,
	SLASH:        PRODUCT,
	DOUBLE_SLASH: PRODUCT,
	PERCENT:      PRODUCT,
	POWER:        EXPONENT,
	LPAREN:       CALL,
	LBRACKET:     CALL,
	DOT:          CALL,
}

var binaryOperators = map[TokenType]Operator{
	PLUS:         Add,
	MINUS:        Sub,
	ASTERISK:     Mult,
	SLASH:        Div,
	DOUBLE_SLASH: FloorDiv,
	PERCENT:      Mod,
	POWER:        Pow,
	AMPERSAND:    BitAnd,
	PIPE:         BitOr,
	CARET:        BitXor,
	LSHIFT:       LShift,
	RSHIFT:       RShift,
}

var comparisonOperators = map[TokenType]Operator{
	EQ:     Eq,
	NOT_EQ: NotEq,
	LT:     Lt,
	GT:     Gt,
	LTE:    LtE,
	GTE:    GtE,
	IN:     In,
}

type (
	prefixParseFn func() Node
	infixParseFn  func(Node) Node
)

type Parser struct {
	l *Lexer

	curToken  Token
	peekToken Token

	errors []*Error
	depth  int

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn
}

func New(l *Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []*Error{},
	}

	p.prefixParseFns = make(map[TokenType]prefixParseFn)
	p.registerPrefix(IDENT, p.parseName)
	p.registerPrefix(INT, p.parseNumber)
	p.registerPrefix(FLOAT, p.parseNumber)
	p.registerPrefix(STRING, p.parseString)
	p.registerPrefix(BYTES, p.parseString)
	p.registerPrefix(TRUE, p.parseBoolean)
	p.registerPrefix(FALSE, p.parseBoolean)
	p.registerPrefix(NULL, p.parseNull)
	p.registerPrefix(MINUS, p.parsePrefixExpression)
	p.registerPrefix(PLUS, p.parsePrefixExpression)
	p.registerPrefix(TILDE, p.parsePrefixExpression)
	p.registerPrefix(NOT, p.parseNotExpression)
	p.registerPrefix(BANG, p.parseNotExpression)
	p.registerPrefix(LPAREN, p.parseGroupedExpression)
	p.registerPrefix(LBRACKET, p.parseListLiteral)

	p.infixParseFns = make(map[TokenType]infixParseFn)
	for tokenType := range binaryOperators {
		p.registerInfix(tokenType, p.parseInfixExpression)
	}
	for tokenType := range comparisonOperators {
		p.registerInfix(tokenType, p.parseComparison)
	}
	p.registerInfix(NOT, p.parseComparison)
	p.registerInfix(IS, p.parseComparison)
	p.registerInfix(AND, p.parseBoolOp)
	p.registerInfix(LOGICAL_AND, p.parseBoolOp)
	p.registerInfix(OR, p.parseBoolOp)
	p.registerInfix(LOGICAL_OR, p.parseBoolOp)
	p.registerInfix(IF, p.parseConditional)
	p.registerInfix(LPAREN, p.parseCallExpression)
	p.registerInfix(LBRACKET, p.parseSubscript)
	p.registerInfix(DOT, p.parseAttribute)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// ParseExpression parses input as a single expression.
func ParseExpression(input string) (Node, error) {
	return New(NewLexer(input)).ParseExpression()
}

// ParseExpression parses one expression and requires the whole input to be
// consumed. The returned error is an ErrorList.
func (p *Parser) ParseExpression() (Node, error) {
	if p.curTokenIs(EOF) {
		p.addError(p.curToken, "empty expression")
		return nil, ErrorList(p.errors)
	}

	expr := p.parseExpression(LOWEST)
	if len(p.errors) == 0 && !p.peekTokenIs(EOF) {
		p.addError(p.peekToken, fmt.Sprintf("unexpected %s", describe(p.peekToken)))
	}
	if len(p.errors) > 0 {
		return nil, ErrorList(p.errors)
	}
	return expr, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) parseExpression(precedence int) Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		p.addError(p.curToken, "expression nested too deeply")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseName() Node {
	return &Name{Token: p.curToken, Id: p.curToken.Literal}
}

func (p *Parser) parseNumber() Node {
	kind := ConstInt
	if p.curToken.Type == FLOAT {
		kind = ConstFloat
	}
	return &Constant{Token: p.curToken, Type: kind, Value: p.curToken.Literal}
}

func (p *Parser) parseString() Node {
	kind := ConstString
	if p.curToken.Type == BYTES {
		kind = ConstBytes
	}
	return &Constant{Token: p.curToken, Type: kind, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() Node {
	return &Constant{Token: p.curToken, Type: ConstBool, Bool: p.curTokenIs(TRUE)}
}

func (p *Parser) parseNull() Node {
	return &Constant{Token: p.curToken, Type: ConstNull}
}

func (p *Parser) parsePrefixExpression() Node {
	expression := &UnaryOp{Token: p.curToken}
	switch p.curToken.Type {
	case MINUS:
		expression.Op = USub
	case PLUS:
		expression.Op = UAdd
	default:
		expression.Op = Invert
	}

	p.nextToken()

	expression.Operand = p.parseExpression(PREFIX)
	if expression.Operand == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseNotExpression() Node {
	expression := &UnaryOp{Token: p.curToken, Op: Not}

	p.nextToken()

	expression.Operand = p.parseExpression(NEGATION)
	if expression.Operand == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left Node) Node {
	expression := &BinOp{
		Token: p.curToken,
		Left:  left,
		Op:    binaryOperators[p.curToken.Type],
	}

	precedence := p.curPrecedence()
	if expression.Op == Pow {
		// right-associative: 2 ** 3 ** 2 == 2 ** 9
		precedence--
	}
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseComparison collects a whole comparison chain such as a < b <= c.
func (p *Parser) parseComparison(left Node) Node {
	expression := &Compare{Token: p.curToken, Left: left}

	for {
		op, ok := p.comparisonOperator()
		if !ok {
			return nil
		}
		p.nextToken()
		right := p.parseExpression(COMPARE)
		if right == nil {
			return nil
		}
		expression.Ops = append(expression.Ops, op)
		expression.Comparators = append(expression.Comparators, right)

		if !p.peekIsComparison() {
			break
		}
		p.nextToken()
	}

	return expression
}

// comparisonOperator decodes the comparison at curToken, consuming the
// second keyword of `not in` and `is not`.
func (p *Parser) comparisonOperator() (Operator, bool) {
	if op, ok := comparisonOperators[p.curToken.Type]; ok {
		return op, true
	}
	switch p.curToken.Type {
	case NOT:
		if !p.expectPeek(IN) {
			return 0, false
		}
		return NotIn, true
	case IS:
		if p.peekTokenIs(NOT) {
			p.nextToken()
			return IsNot, true
		}
		return Is, true
	}
	p.addError(p.curToken, fmt.Sprintf("expected comparison operator, got %s", describe(p.curToken)))
	return 0, false
}

func (p *Parser) peekIsComparison() bool {
	_, ok := comparisonOperators[p.peekToken.Type]
	return ok || p.peekTokenIs(NOT) || p.peekTokenIs(IS)
}

// parseBoolOp flattens a run of the same boolean operator into one node.
func (p *Parser) parseBoolOp(left Node) Node {
	expression := &BoolOp{Token: p.curToken, Op: boolOperator(p.curToken.Type), Values: []Node{left}}
	precedence := p.curPrecedence()

	for {
		p.nextToken()
		value := p.parseExpression(precedence)
		if value == nil {
			return nil
		}
		expression.Values = append(expression.Values, value)

		if p.peekToken.Type == ILLEGAL || !isBoolToken(p.peekToken.Type) || boolOperator(p.peekToken.Type) != expression.Op {
			break
		}
		p.nextToken()
	}

	return expression
}

func isBoolToken(t TokenType) bool {
	return t == AND || t == LOGICAL_AND || t == OR || t == LOGICAL_OR
}

func boolOperator(t TokenType) Operator {
	if t == OR || t == LOGICAL_OR {
		return Or
	}
	return And
}

func (p *Parser) parseConditional(body Node) Node {
	expression := &IfExp{Token: p.curToken, Body: body}

	p.nextToken()
	expression.Test = p.parseExpression(TERNARY)
	if expression.Test == nil {
		return nil
	}

	if !p.expectPeek(ELSE) {
		return nil
	}
	p.nextToken()

	expression.OrElse = p.parseExpression(LOWEST)
	if expression.OrElse == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() Node {
	open := p.curToken
	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return &Tuple{Token: open}
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.peekTokenIs(COMMA) {
		if !p.expectPeek(RPAREN) {
			return nil
		}
		return exp
	}

	tuple := &Tuple{Token: open, Elts: []Node{exp}}
	for p.peekTokenIs(COMMA) {
		p.nextToken()
		if p.peekTokenIs(RPAREN) {
			break
		}
		p.nextToken()
		elt := p.parseExpression(LOWEST)
		if elt == nil {
			return nil
		}
		tuple.Elts = append(tuple.Elts, elt)
	}
	if !p.expectPeek(RPAREN) {
		return nil
	}
	return tuple
}

func (p *Parser) parseListLiteral() Node {
	list := &List{Token: p.curToken, Ctx: Load}
	elts, ok := p.parseExpressionList(RBRACKET)
	if !ok {
		return nil
	}
	list.Elts = elts
	return list
}

func (p *Parser) parseCallExpression(fn Node) Node {
	exp := &Call{Token: p.curToken, Func: fn}

	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return exp
	}

	for {
		p.nextToken()
		if p.curTokenIs(IDENT) && p.peekTokenIs(ASSIGN) {
			name := p.curToken.Literal
			p.nextToken()
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				return nil
			}
			exp.Keywords = append(exp.Keywords, &Keyword{Name: name, Value: value})
		} else {
			if len(exp.Keywords) > 0 {
				p.addError(p.curToken, "positional argument follows keyword argument")
				return nil
			}
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			exp.Args = append(exp.Args, arg)
		}

		if !p.peekTokenIs(COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(RPAREN) {
			break
		}
	}

	if !p.expectPeek(RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseSubscript(value Node) Node {
	exp := &Subscript{Token: p.curToken, Value: value, Ctx: Load}

	p.nextToken()
	var lower Node
	if !p.curTokenIs(COLON) {
		lower = p.parseExpression(LOWEST)
		if lower == nil {
			return nil
		}
		if !p.peekTokenIs(COLON) {
			if !p.expectPeek(RBRACKET) {
				return nil
			}
			exp.Index = lower
			return exp
		}
		p.nextToken()
	}

	// curToken is the first ':'
	slice := &Slice{Token: p.curToken, Lower: lower}
	if !p.peekTokenIs(COLON) && !p.peekTokenIs(RBRACKET) {
		p.nextToken()
		if slice.Upper = p.parseExpression(LOWEST); slice.Upper == nil {
			return nil
		}
	}
	if p.peekTokenIs(COLON) {
		p.nextToken()
		if !p.peekTokenIs(RBRACKET) {
			p.nextToken()
			if slice.Step = p.parseExpression(LOWEST); slice.Step == nil {
				return nil
			}
		}
	}
	if !p.expectPeek(RBRACKET) {
		return nil
	}

	exp.Index = slice
	return exp
}

func (p *Parser) parseAttribute(value Node) Node {
	exp := &Attribute{Token: p.curToken, Value: value}
	if !p.expectPeek(IDENT) {
		return nil
	}
	exp.Attr = p.curToken.Literal
	return exp
}

// parseExpressionList parses comma separated expressions up to end,
// allowing a trailing comma.
func (p *Parser) parseExpressionList(end TokenType) ([]Node, bool) {
	var list []Node

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		elt := p.parseExpression(LOWEST)
		if elt == nil {
			return nil, false
		}
		list = append(list, elt)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors returns the errors collected so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) addError(tok Token, msg string) {
	p.errors = append(p.errors, &Error{Pos: tok.Pos(), Msg: msg})
}

func (p *Parser) peekError(t TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, describe(p.peekToken))
	p.addError(p.peekToken, msg)
}

func (p *Parser) noPrefixParseFnError(tok Token) {
	if tok.Type == ILLEGAL {
		p.addError(tok, fmt.Sprintf("illegal token %q", tok.Literal))
		return
	}
	p.addError(tok, fmt.Sprintf("unexpected %s", describe(tok)))
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) registerPrefix(tokenType TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of input"
	case ILLEGAL:
		return fmt.Sprintf("illegal token %q", tok.Literal)
	case IDENT, INT, FLOAT:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case STRING, BYTES:
		return fmt.Sprintf("%s literal", tok.Type)
	default:
		return fmt.Sprintf("%q", tok.Type.String())
	}
}
