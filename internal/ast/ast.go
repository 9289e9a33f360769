// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ast holds the syntax tree produced by the parser. Nodes are plain
// values; nothing downstream mutates them.
package ast

import (
	"gopkg.microglot.org/minic.go/internal/optional"
)

type Type uint8

const (
	TypeInt Type = iota
	TypeVoid
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeVoid:
		return "void"
	default:
		return "<invalid type>"
	}
}

type Arg struct {
	Type Type
	Name string
}

//go:generate stringer -type=Operator -linecomment
type Operator uint8

const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpEq                  // ==
	OpNe                  // !=
	OpLe                  // <=
	OpGe                  // >=
	OpLt                  // <
	OpGt                  // >
	OpAnd                 // &&
	OpOr                  // ||
)

// Expr is implemented by every expression and statement node.
type Expr interface {
	expr()
}

type IntLiteral struct {
	Value uint32
}

type BinaryOp struct {
	LHS Expr
	RHS Expr
	Op  Operator
}

type Return struct {
	Value Expr
}

type If struct {
	Cond Expr
	Then []Expr
	Else []Expr
}

type VarRef struct {
	Name string
}

type Decl struct {
	Type Type
	Name string
	Init optional.Optional[Expr]
}

type Assign struct {
	Name  string
	Value Expr
}

// Deref loads a 32-bit integer from the address its operand evaluates to.
type Deref struct {
	Address Expr
}

func (IntLiteral) expr() {}
func (BinaryOp) expr()   {}
func (Return) expr()     {}
func (If) expr()         {}
func (VarRef) expr()     {}
func (Decl) expr()       {}
func (Assign) expr()     {}
func (Deref) expr()      {}

type Function struct {
	ReturnType Type
	Name       string
	Args       []Arg
	Body       []Expr
}

type Program struct {
	Functions []Function
}
