package syntax

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Position is a location in the source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a node of the expression syntax tree. The set of implementations
// is closed: consumers switch over the concrete types below.
type Node interface {
	// Kind names the syntax kind, e.g. "BinOp" or "Call".
	Kind() string
	Pos() Position
	String() string
	node()
}

type ConstantKind int

const (
	ConstString ConstantKind = iota
	ConstInt
	ConstFloat
	ConstBool
	ConstNull
	ConstBytes
)

func (k ConstantKind) String() string {
	switch k {
	case ConstString:
		return "string"
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstBool:
		return "bool"
	case ConstNull:
		return "null"
	case ConstBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// ExprContext tags how an expression is accessed.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Unknown"
	}
}

// Operator identifies a unary, binary, boolean or comparison symbol. Its
// String form is the name operators are registered under.
type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	Div
	FloorDiv
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
	LShift
	RShift
	USub
	UAdd
	Not
	Invert
	And
	Or
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var operatorNames = [...]string{
	Add:      "Add",
	Sub:      "Sub",
	Mult:     "Mult",
	Div:      "Div",
	FloorDiv: "FloorDiv",
	Mod:      "Mod",
	Pow:      "Pow",
	BitAnd:   "BitAnd",
	BitOr:    "BitOr",
	BitXor:   "BitXor",
	LShift:   "LShift",
	RShift:   "RShift",
	USub:     "USub",
	UAdd:     "UAdd",
	Not:      "Not",
	Invert:   "Invert",
	And:      "And",
	Or:       "Or",
	Eq:       "Eq",
	NotEq:    "NotEq",
	Lt:       "Lt",
	LtE:      "LtE",
	Gt:       "Gt",
	GtE:      "GtE",
	Is:       "Is",
	IsNot:    "IsNot",
	In:       "In",
	NotIn:    "NotIn",
}

var operatorSymbols = [...]string{
	Add:      "+",
	Sub:      "-",
	Mult:     "*",
	Div:      "/",
	FloorDiv: "//",
	Mod:      "%",
	Pow:      "**",
	BitAnd:   "&",
	BitOr:    "|",
	BitXor:   "^",
	LShift:   "<<",
	RShift:   ">>",
	USub:     "-",
	UAdd:     "+",
	Not:      "not ",
	Invert:   "~",
	And:      "and",
	Or:       "or",
	Eq:       "==",
	NotEq:    "!=",
	Lt:       "<",
	LtE:      "<=",
	Gt:       ">",
	GtE:      ">=",
	Is:       "is",
	IsNot:    "is not",
	In:       "in",
	NotIn:    "not in",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "Unknown"
}

// Symbol returns the source spelling of the operator.
func (o Operator) Symbol() string {
	if int(o) < len(operatorSymbols) {
		return operatorSymbols[o]
	}
	return "?"
}

type Constant struct {
	Token Token
	Type  ConstantKind
	// Value holds the decoded text of string and bytes literals and the
	// source digits of numbers.
	Value string
	Bool  bool
}

func (c *Constant) node()         {}
func (c *Constant) Kind() string  { return "Constant" }
func (c *Constant) Pos() Position { return c.Token.Pos() }
func (c *Constant) String() string {
	switch c.Type {
	case ConstString:
		return strconv.Quote(c.Value)
	case ConstBytes:
		return "b" + strconv.Quote(c.Value)
	case ConstBool:
		return strconv.FormatBool(c.Bool)
	case ConstNull:
		return "null"
	default:
		return c.Value
	}
}

type Name struct {
	Token Token
	Id    string
}

func (n *Name) node()          {}
func (n *Name) Kind() string   { return "Name" }
func (n *Name) Pos() Position  { return n.Token.Pos() }
func (n *Name) String() string { return n.Id }

type Keyword struct {
	Name  string
	Value Node
}

type Call struct {
	Token    Token // the '(' token
	Func     Node
	Args     []Node
	Keywords []*Keyword
}

func (c *Call) node()         {}
func (c *Call) Kind() string  { return "Call" }
func (c *Call) Pos() Position { return c.Func.Pos() }
func (c *Call) String() string {
	var args []string
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	for _, kw := range c.Keywords {
		args = append(args, kw.Name+"="+kw.Value.String())
	}
	return c.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

type BinOp struct {
	Token Token // the operator token
	Op    Operator
	Left  Node
	Right Node
}

func (b *BinOp) node()         {}
func (b *BinOp) Kind() string  { return "BinOp" }
func (b *BinOp) Pos() Position { return b.Left.Pos() }
func (b *BinOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.Symbol() + " " + b.Right.String() + ")"
}

type UnaryOp struct {
	Token   Token
	Op      Operator
	Operand Node
}

func (u *UnaryOp) node()         {}
func (u *UnaryOp) Kind() string  { return "UnaryOp" }
func (u *UnaryOp) Pos() Position { return u.Token.Pos() }
func (u *UnaryOp) String() string {
	return "(" + u.Op.Symbol() + u.Operand.String() + ")"
}

// BoolOp is an n-ary `and`/`or` chain: a and b and c has three values.
type BoolOp struct {
	Token  Token
	Op     Operator
	Values []Node
}

func (b *BoolOp) node()         {}
func (b *BoolOp) Kind() string  { return "BoolOp" }
func (b *BoolOp) Pos() Position { return b.Values[0].Pos() }
func (b *BoolOp) String() string {
	var parts []string
	for _, v := range b.Values {
		parts = append(parts, v.String())
	}
	return "(" + strings.Join(parts, " "+b.Op.Symbol()+" ") + ")"
}

// Compare holds a comparison chain: a < b <= c has two Ops and two
// Comparators.
type Compare struct {
	Token       Token
	Left        Node
	Ops         []Operator
	Comparators []Node
}

func (c *Compare) node()         {}
func (c *Compare) Kind() string  { return "Compare" }
func (c *Compare) Pos() Position { return c.Left.Pos() }
func (c *Compare) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(c.Left.String())
	for i, op := range c.Ops {
		out.WriteString(" " + op.Symbol() + " ")
		out.WriteString(c.Comparators[i].String())
	}
	out.WriteString(")")
	return out.String()
}

// IfExp is the conditional `body if test else orelse`.
type IfExp struct {
	Token  Token // the 'if' token
	Test   Node
	Body   Node
	OrElse Node
}

func (i *IfExp) node()         {}
func (i *IfExp) Kind() string  { return "IfExp" }
func (i *IfExp) Pos() Position { return i.Body.Pos() }
func (i *IfExp) String() string {
	return "(" + i.Body.String() + " if " + i.Test.String() + " else " + i.OrElse.String() + ")"
}

type Subscript struct {
	Token Token // the '[' token
	Value Node
	Index Node // an expression or a *Slice
	Ctx   ExprContext
}

func (s *Subscript) node()         {}
func (s *Subscript) Kind() string  { return "Subscript" }
func (s *Subscript) Pos() Position { return s.Value.Pos() }
func (s *Subscript) String() string {
	return s.Value.String() + "[" + s.Index.String() + "]"
}

// Slice is lower:upper:step inside a subscript. Omitted parts are nil.
type Slice struct {
	Token Token // the first ':' token
	Lower Node
	Upper Node
	Step  Node
}

func (s *Slice) node()         {}
func (s *Slice) Kind() string  { return "Slice" }
func (s *Slice) Pos() Position { return s.Token.Pos() }
func (s *Slice) String() string {
	part := func(n Node) string {
		if n == nil {
			return ""
		}
		return n.String()
	}
	out := part(s.Lower) + ":" + part(s.Upper)
	if s.Step != nil {
		out += ":" + s.Step.String()
	}
	return out
}

type List struct {
	Token Token // the '[' token
	Elts  []Node
	Ctx   ExprContext
}

func (l *List) node()         {}
func (l *List) Kind() string  { return "List" }
func (l *List) Pos() Position { return l.Token.Pos() }
func (l *List) String() string {
	var parts []string
	for _, e := range l.Elts {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Tuple struct {
	Token Token // the '(' token
	Elts  []Node
}

func (t *Tuple) node()         {}
func (t *Tuple) Kind() string  { return "Tuple" }
func (t *Tuple) Pos() Position { return t.Token.Pos() }
func (t *Tuple) String() string {
	var parts []string
	for _, e := range t.Elts {
		parts = append(parts, e.String())
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Attribute is value.attr member access.
type Attribute struct {
	Token Token // the '.' token
	Value Node
	Attr  string
}

func (a *Attribute) node()          {}
func (a *Attribute) Kind() string   { return "Attribute" }
func (a *Attribute) Pos() Position  { return a.Value.Pos() }
func (a *Attribute) String() string { return a.Value.String() + "." + a.Attr }
