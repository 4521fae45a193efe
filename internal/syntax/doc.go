// Package syntax implements the grammar of the formula language: a lexer,
// a Pratt parser and a closed set of syntax tree nodes.
//
// The surface follows familiar scripting conventions:
//
//	1 + 2 * 3            arithmetic, with ** binding tighter than unary minus
//	a < b and not c      comparisons and boolean operators (&&, ||, ! also work)
//	x in [1, 2, 3]       membership, identity with `is` / `is not`
//	max(a, b, key=1)     calls with positional and keyword arguments
//	now                  bare names
//	a if cond else b     conditionals
//	series[-1], s[1:3]   subscripts and slices
//
// Parsing never evaluates anything; internal/mapper turns the tree into
// operators.
package syntax
