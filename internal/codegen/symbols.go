// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/ir"
)

type symbol struct {
	slot *ir.Slot
	typ  ast.Type
}

// symbolTable is flat: parameters and every declaration in a function share
// one namespace and a later declaration replaces an earlier one.
type symbolTable struct {
	symbols map[string]symbol
}

func newSymbolTable() *symbolTable {
	return &symbolTable{symbols: make(map[string]symbol)}
}

func (s *symbolTable) declare(name string, slot *ir.Slot, typ ast.Type) {
	s.symbols[name] = symbol{slot: slot, typ: typ}
}

func (s *symbolTable) lookup(name string) (symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}
