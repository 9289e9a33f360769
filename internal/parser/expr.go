// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strconv"

	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/optional"
)

var (
	termOperators = []Alternative[ast.Operator]{
		Literal("/", ast.OpDiv),
		Literal("*", ast.OpMul),
	}
	additiveOperators = []Alternative[ast.Operator]{
		Literal("-", ast.OpSub),
		Literal("+", ast.OpAdd),
	}
	relationalOperators = []Alternative[ast.Operator]{
		Literal("<=", ast.OpLe),
		Literal(">=", ast.OpGe),
		Literal("==", ast.OpEq),
		Literal("!=", ast.OpNe),
		Literal("<", ast.OpLt),
		Literal(">", ast.OpGt),
	}
	logicalOperators = []Alternative[ast.Operator]{
		Literal("&&", ast.OpAnd),
		Literal("||", ast.OpOr),
	}
	assignOperator = unless("==", Literal("=", true))
)

// Expr = Assignment
func parseExpr(c Cursor) (Cursor, ast.Expr, error) {
	return parseAssignment(c)
}

// Assignment = Logical [ "=" Expr ]
//
// The left side of "=" has to be a plain variable reference.
func parseAssignment(c Cursor) (Cursor, ast.Expr, error) {
	start := Skip(c)
	c, lhs, err := parseLogical(c)
	if err != nil {
		return c, nil, err
	}
	next, isAssign, err := OptionalGrammar(c, assignOperator)
	if err != nil {
		return c, nil, err
	}
	if !isAssign.IsPresent() {
		return c, lhs, nil
	}
	ref, ok := lhs.(ast.VarRef)
	if !ok {
		return c, nil, Expected(start, "assignable name", c.offset-start.offset)
	}
	next, rhs, err := parseExpr(next)
	if err != nil {
		return next, nil, err
	}
	return next, ast.Assign{Name: ref.Name, Value: rhs}, nil
}

// Logical = Relational [ ( "&&" | "||" ) Expr ]
func parseLogical(c Cursor) (Cursor, ast.Expr, error) {
	return parseBinary(c, parseRelational, logicalOperators)
}

// Relational = Additive [ ( "<=" | ">=" | "==" | "!=" | "<" | ">" ) Expr ]
func parseRelational(c Cursor) (Cursor, ast.Expr, error) {
	return parseBinary(c, parseAdditive, relationalOperators)
}

// Additive = Term [ ( "-" | "+" ) Expr ]
func parseAdditive(c Cursor) (Cursor, ast.Expr, error) {
	return parseBinary(c, parseTerm, additiveOperators)
}

// Term = Factor [ ( "/" | "*" ) Expr ]
func parseTerm(c Cursor) (Cursor, ast.Expr, error) {
	return parseBinary(c, parseFactor, termOperators)
}

// parseBinary reads one operand from the next level down and, when one of
// operators follows, a whole expression as the right operand.
func parseBinary(c Cursor, operand Rule[ast.Expr], operators []Alternative[ast.Operator]) (Cursor, ast.Expr, error) {
	c, lhs, err := operand(c)
	if err != nil {
		return c, nil, err
	}
	next, op, err := OptionalGrammar(c, operators...)
	if err != nil {
		return c, nil, err
	}
	operator, ok := op.Get()
	if !ok {
		return c, lhs, nil
	}
	next, rhs, err := parseExpr(next)
	if err != nil {
		return next, nil, err
	}
	return next, ast.BinaryOp{LHS: lhs, RHS: rhs, Op: operator}, nil
}

// Factor = "(" Expr ")" | "*" Factor | Identifier | Integer
func parseFactor(c Cursor) (Cursor, ast.Expr, error) {
	return Grammar[ast.Expr](c, "expression",
		parenthesised,
		dereference,
		variable,
		integer,
	)
}

func parenthesised(c Cursor) (Cursor, optional.Optional[ast.Expr], error) {
	next, ok := Text(c, "(")
	if !ok {
		return c, optional.None[ast.Expr](), nil
	}
	next, e, err := parseExpr(next)
	if err != nil {
		return next, optional.None[ast.Expr](), err
	}
	next, err = Consume(next, ")")
	if err != nil {
		return next, optional.None[ast.Expr](), err
	}
	return next, optional.Some(e), nil
}

func dereference(c Cursor) (Cursor, optional.Optional[ast.Expr], error) {
	next, ok := Text(c, "*")
	if !ok {
		return c, optional.None[ast.Expr](), nil
	}
	next, address, err := parseFactor(next)
	if err != nil {
		return next, optional.None[ast.Expr](), err
	}
	return next, optional.Some[ast.Expr](ast.Deref{Address: address}), nil
}

func integer(c Cursor) (Cursor, optional.Optional[ast.Expr], error) {
	next, value, err := parseInteger(c)
	if err != nil {
		return c, optional.None[ast.Expr](), err
	}
	return next, optional.Some(value), nil
}

// Integer = "0x" HexDigits | Digits
func parseInteger(c Cursor) (Cursor, ast.Expr, error) {
	c, isHex := Text(c, "0x")
	if isHex {
		next, digits := c.takeWhile(isHexDigit)
		value, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return c, nil, Expected(c, "hexadecimal number", len(digits))
		}
		return next, ast.IntLiteral{Value: uint32(value)}, nil
	}
	next, digits := c.takeWhile(isDigit)
	value, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return c, nil, Expected(c, "base10 number", len(digits))
	}
	return next, ast.IntLiteral{Value: uint32(value)}, nil
}

func variable(c Cursor) (Cursor, optional.Optional[ast.Expr], error) {
	start := Skip(c)
	if r, size := start.Head(); size == 0 || !isIdentifierStart(r) {
		return c, optional.None[ast.Expr](), nil
	}
	next, name, err := Identifier(start)
	if err != nil {
		return c, optional.None[ast.Expr](), err
	}
	return next, optional.Some[ast.Expr](ast.VarRef{Name: name}), nil
}
