// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"

	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/exc"
)

// Parse reads a whole program.
func Parse(source string) (ast.Program, error) {
	return ParseURI("", source)
}

// ParseURI is Parse with errors located in the named source.
func ParseURI(uri string, source string) (ast.Program, error) {
	_, program, err := parseProgram(NewCursor(source))
	if err != nil {
		return ast.Program{}, located(uri, err)
	}
	return program, nil
}

// ParseExpr reads a single expression that must span the whole source.
func ParseExpr(source string) (ast.Expr, error) {
	c, e, err := parseExpr(NewCursor(source))
	if err != nil {
		return nil, err
	}
	if c = Skip(c); !c.AtEnd() {
		return nil, Expected(c, "end of input", len(c.Rest()))
	}
	return e, nil
}

func located(uri string, err error) error {
	var e exc.Exception
	if errors.As(err, &e) {
		return exc.WithURI(e, uri)
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}

// Program = { Function } EOF
func parseProgram(c Cursor) (Cursor, ast.Program, error) {
	var program ast.Program
	for {
		c = Skip(c)
		if c.AtEnd() {
			return c, program, nil
		}
		next, fn, err := parseFunction(c)
		if err != nil {
			return next, ast.Program{}, err
		}
		program.Functions = append(program.Functions, fn)
		c = next
	}
}

// Function = Type Identifier "(" { Type Identifier [ "," ] } ")" CompoundStatement
func parseFunction(c Cursor) (Cursor, ast.Function, error) {
	var fn ast.Function
	c, typ, err := parseType(c)
	if err != nil {
		return c, fn, err
	}
	c, name, err := Identifier(c)
	if err != nil {
		return c, fn, err
	}
	c, err = Consume(c, "(")
	if err != nil {
		return c, fn, err
	}
	c, args, err := parseParams(c)
	if err != nil {
		return c, fn, err
	}
	c, body, err := parseCompoundStatement(c)
	if err != nil {
		return c, fn, err
	}
	fn.ReturnType = typ
	fn.Name = name
	fn.Args = args
	fn.Body = body
	return c, fn, nil
}

func parseParams(c Cursor) (Cursor, []ast.Arg, error) {
	var args []ast.Arg
	for {
		next, done := Text(c, ")")
		if done {
			return next, args, nil
		}
		var arg ast.Arg
		var err error
		c, arg.Type, err = parseType(next)
		if err != nil {
			return c, nil, err
		}
		c, arg.Name, err = Identifier(c)
		if err != nil {
			return c, nil, err
		}
		c, _ = Text(c, ",")
		args = append(args, arg)
	}
}
