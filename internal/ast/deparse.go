// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

const deparseIndent = "  "

// Deparse renders a node back into surface syntax that parses to an equal
// tree. It accepts Program, Function, Arg, Type, Operator and any Expr (or
// pointers to the first two). Binary operations are always fully
// parenthesised.
func Deparse(node any) string {
	var b strings.Builder
	switch n := node.(type) {
	case Program:
		deparseProgram(&b, n)
	case *Program:
		deparseProgram(&b, *n)
	case Function:
		deparseFunction(&b, n)
	case *Function:
		deparseFunction(&b, *n)
	case Arg:
		b.WriteString(deparseArg(n))
	case Type:
		b.WriteString(n.String())
	case Operator:
		b.WriteString(n.String())
	case Expr:
		b.WriteString(deparseExpr(n))
	default:
		panic(fmt.Sprintf("ast: cannot deparse %T", node))
	}
	return b.String()
}

func deparseProgram(b *strings.Builder, p Program) {
	for x, f := range p.Functions {
		if x > 0 {
			b.WriteByte('\n')
		}
		deparseFunction(b, f)
	}
}

func deparseFunction(b *strings.Builder, f Function) {
	b.WriteString(f.ReturnType.String())
	b.WriteByte(' ')
	b.WriteString(f.Name)
	b.WriteByte('(')
	for x, arg := range f.Args {
		if x > 0 {
			b.WriteString(", ")
		}
		b.WriteString(deparseArg(arg))
	}
	b.WriteString(") {\n")
	deparseStatements(b, f.Body, 1)
	b.WriteString("}\n")
}

func deparseArg(a Arg) string {
	return a.Type.String() + " " + a.Name
}

func deparseStatements(b *strings.Builder, stmts []Expr, depth int) {
	for _, stmt := range stmts {
		deparseStatement(b, stmt, depth)
	}
}

func deparseStatement(b *strings.Builder, stmt Expr, depth int) {
	indent := strings.Repeat(deparseIndent, depth)
	b.WriteString(indent)
	ifStmt, ok := stmt.(If)
	if !ok {
		b.WriteString(deparseExpr(stmt))
		b.WriteString(";\n")
		return
	}
	b.WriteString("if (")
	b.WriteString(deparseExpr(ifStmt.Cond))
	b.WriteString(") {\n")
	deparseStatements(b, ifStmt.Then, depth+1)
	b.WriteString(indent)
	b.WriteByte('}')
	if len(ifStmt.Else) > 0 {
		b.WriteString(" else {\n")
		deparseStatements(b, ifStmt.Else, depth+1)
		b.WriteString(indent)
		b.WriteByte('}')
	}
	b.WriteByte('\n')
}

func deparseExpr(e Expr) string {
	switch n := e.(type) {
	case IntLiteral:
		return strconv.FormatUint(uint64(n.Value), 10)
	case BinaryOp:
		return "(" + deparseOperand(n.LHS) + " " + n.Op.String() + " " + deparseOperand(n.RHS) + ")"
	case Return:
		return "return " + deparseExpr(n.Value)
	case VarRef:
		return n.Name
	case Decl:
		if init, ok := n.Init.Get(); ok {
			return n.Type.String() + " " + n.Name + " = " + deparseExpr(init)
		}
		return n.Type.String() + " " + n.Name
	case Assign:
		return n.Name + " = " + deparseExpr(n.Value)
	case Deref:
		return "*" + deparseOperand(n.Address)
	case If:
		var b strings.Builder
		deparseStatement(&b, n, 0)
		return strings.TrimSuffix(b.String(), "\n")
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

// Assignment binds loosest, so it needs parentheses wherever it appears as
// the operand of another operator.
func deparseOperand(e Expr) string {
	if _, ok := e.(Assign); ok {
		return "(" + deparseExpr(e) + ")"
	}
	return deparseExpr(e)
}

func (p Program) String() string  { return Deparse(p) }
func (f Function) String() string { return Deparse(f) }
func (a Arg) String() string      { return Deparse(a) }
