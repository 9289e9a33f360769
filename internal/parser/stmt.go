// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/optional"
)

var types = []Alternative[ast.Type]{
	Word("int", ast.TypeInt),
	Word("void", ast.TypeVoid),
}

// Type = "int" | "void"
func parseType(c Cursor) (Cursor, ast.Type, error) {
	return Grammar(c, "type", types...)
}

// Statement = ReturnStatement | AssignStatement | DeclStatement | IfStatement
//
// Each alternative is attempted in full and abandoned on any failure, so
// the error for a statement that matches nothing names the last one tried.
func parseStatement(c Cursor) (Cursor, ast.Expr, error) {
	return Grammar[ast.Expr](c, "conditional statement",
		Attempt[ast.Expr](parseReturnStatement),
		Attempt[ast.Expr](parseAssignStatement),
		Attempt[ast.Expr](parseDeclStatement),
		Attempt[ast.Expr](parseIfStatement),
	)
}

// ReturnStatement = [ "return" ] Expr ";"
func parseReturnStatement(c Cursor) (Cursor, ast.Expr, error) {
	c, isReturn := Keyword(c, "return")
	c, e, err := parseExpr(c)
	if err != nil {
		return c, nil, err
	}
	c, err = Consume(c, ";")
	if err != nil {
		return c, nil, err
	}
	if isReturn {
		return c, ast.Return{Value: e}, nil
	}
	return c, e, nil
}

// AssignStatement = Identifier "=" Expr ";"
func parseAssignStatement(c Cursor) (Cursor, ast.Expr, error) {
	c, name, err := Identifier(c)
	if err != nil {
		return c, nil, err
	}
	c, err = Consume(c, "=")
	if err != nil {
		return c, nil, err
	}
	c, value, err := parseExpr(c)
	if err != nil {
		return c, nil, err
	}
	c, err = Consume(c, ";")
	if err != nil {
		return c, nil, err
	}
	return c, ast.Assign{Name: name, Value: value}, nil
}

// DeclStatement = Type Identifier [ "=" Expr ] ";"
func parseDeclStatement(c Cursor) (Cursor, ast.Expr, error) {
	c, typ, err := parseType(c)
	if err != nil {
		return c, nil, err
	}
	c, name, err := Identifier(c)
	if err != nil {
		return c, nil, err
	}
	decl := ast.Decl{Type: typ, Name: name}
	c, hasInit := Text(c, "=")
	if hasInit {
		var init ast.Expr
		c, init, err = parseExpr(c)
		if err != nil {
			return c, nil, err
		}
		decl.Init = optional.Some(init)
	}
	c, err = Consume(c, ";")
	if err != nil {
		return c, nil, err
	}
	return c, decl, nil
}

// IfStatement = "if" "(" Expr ")" Body [ "else" Body ]
func parseIfStatement(c Cursor) (Cursor, ast.Expr, error) {
	c, ok := Keyword(c, "if")
	if !ok {
		return c, nil, Expected(c, "if", len("if"))
	}
	c, err := Consume(c, "(")
	if err != nil {
		return c, nil, err
	}
	c, cond, err := parseExpr(c)
	if err != nil {
		return c, nil, err
	}
	c, err = Consume(c, ")")
	if err != nil {
		return c, nil, err
	}
	c, then, err := parseBody(c)
	if err != nil {
		return c, nil, err
	}
	c, otherwise, err := OptionalGrammar[[]ast.Expr](c, elseBody)
	if err != nil {
		return c, nil, err
	}
	return c, ast.If{Cond: cond, Then: then, Else: otherwise.Value()}, nil
}

// Body = CompoundStatement | Statement
func parseBody(c Cursor) (Cursor, []ast.Expr, error) {
	return Grammar[[]ast.Expr](c, "body of if", compoundBody, singleStatementBody)
}

func compoundBody(c Cursor) (Cursor, optional.Optional[[]ast.Expr], error) {
	if _, ok := Text(c, "{"); !ok {
		return c, optional.None[[]ast.Expr](), nil
	}
	next, body, err := parseCompoundStatement(c)
	if err != nil {
		return c, optional.None[[]ast.Expr](), err
	}
	return next, optional.Some(body), nil
}

func singleStatementBody(c Cursor) (Cursor, optional.Optional[[]ast.Expr], error) {
	next, stmt, err := parseStatement(c)
	if err != nil {
		return c, optional.None[[]ast.Expr](), err
	}
	return next, optional.Some([]ast.Expr{stmt}), nil
}

func elseBody(c Cursor) (Cursor, optional.Optional[[]ast.Expr], error) {
	next, ok := Keyword(c, "else")
	if !ok {
		return c, optional.None[[]ast.Expr](), nil
	}
	next, body, err := parseBody(next)
	if err != nil {
		return c, optional.None[[]ast.Expr](), err
	}
	return next, optional.Some(body), nil
}

// CompoundStatement = "{" { Statement } "}"
func parseCompoundStatement(c Cursor) (Cursor, []ast.Expr, error) {
	c, err := Consume(c, "{")
	if err != nil {
		return c, nil, err
	}
	var body []ast.Expr
	for {
		next, done := Text(c, "}")
		if done {
			return next, body, nil
		}
		var stmt ast.Expr
		c, stmt, err = parseStatement(next)
		if err != nil {
			return c, nil, err
		}
		body = append(body, stmt)
	}
}
