// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package codegen lowers an ast.Program into an ir.Module.
//
// Every function gets one slot for its return value and one shared return
// block. A Return statement stores into the slot; the code that follows it
// in the same statement list is dropped and control goes to the return
// block.
package codegen

import (
	"fmt"

	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/ir"
	"gopkg.microglot.org/minic.go/internal/optional"
)

type Option func(g *generator) error

// OptionWithModuleName names the generated module. The default is "main".
func OptionWithModuleName(name string) Option {
	return func(g *generator) error {
		g.module.Name = name
		return nil
	}
}

// OptionWithURI sets the source reported in lowering exceptions.
func OptionWithURI(uri string) Option {
	return func(g *generator) error {
		g.uri = uri
		return nil
	}
}

type generator struct {
	module *ir.Module
	uri    string
}

// Generate lowers program. Each call uses its own generation state so
// independent programs may be generated concurrently.
func Generate(program ast.Program, opts ...Option) (*ir.Module, error) {
	g := &generator{
		module: &ir.Module{Name: "main"},
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if len(program.Functions) == 0 {
		return nil, g.fail(exc.CodeNoFunctions, "no functions in program")
	}
	for _, f := range program.Functions {
		fn, err := g.function(f)
		if err != nil {
			return nil, err
		}
		g.module.Functions = append(g.module.Functions, fn)
	}
	return g.module, nil
}

func (g *generator) fail(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: g.uri}, code, message)
}

// functionContext is the mutable state for lowering one function.
type functionContext struct {
	*generator
	fn       *ir.Function
	block    *ir.Block
	symbols  *symbolTable
	retSlot  *ir.Slot
	retBlock *ir.Block
}

func (g *generator) function(f ast.Function) (*ir.Function, error) {
	params := make([]ir.Param, 0, len(f.Args))
	for x, arg := range f.Args {
		params = append(params, ir.Param{Index: x, Name: arg.Name})
	}
	fc := &functionContext{
		generator: g,
		fn:        ir.NewFunction(f.Name, lowerType(f.ReturnType), params),
		symbols:   newSymbolTable(),
	}
	entry := fc.fn.CreateBlock("entry")
	fc.retBlock = fc.fn.CreateBlock("return")
	fc.setBlock(entry)

	if f.ReturnType != ast.TypeVoid {
		fc.retSlot = fc.fn.NewSlot("retval")
		fc.emit(ir.Store{Slot: fc.retSlot, Value: ir.Const{Value: 0}})
	}
	for x, arg := range f.Args {
		slot := fc.fn.NewSlot(arg.Name)
		fc.emit(ir.Store{Slot: slot, Value: params[x]})
		fc.symbols.declare(arg.Name, slot, arg.Type)
	}
	if _, err := fc.statements(f.Body); err != nil {
		return nil, err
	}
	fc.term(ir.Br{Target: fc.retBlock})

	fc.setBlock(fc.retBlock)
	if fc.retSlot == nil {
		fc.term(ir.Ret{})
	} else {
		v := fc.fn.NewTemp()
		fc.emit(ir.Load{Dst: v, Slot: fc.retSlot})
		fc.term(ir.Ret{Value: optional.Some[ir.Value](v)})
	}
	return fc.fn, nil
}

func lowerType(t ast.Type) ir.Type {
	if t == ast.TypeVoid {
		return ir.Void
	}
	return ir.I32
}

// setBlock appends b to the layout and makes it the insertion point.
func (fc *functionContext) setBlock(b *ir.Block) {
	fc.fn.AppendBlock(b)
	fc.block = b
}

func (fc *functionContext) emit(i ir.Instr) {
	fc.block.Instrs = append(fc.block.Instrs, i)
}

func (fc *functionContext) term(t ir.Terminator) {
	fc.block.Term = t
}

// statements lowers stmts in order up to and including the first Return,
// and reports whether a Return ended the list.
func (fc *functionContext) statements(stmts []ast.Expr) (bool, error) {
	for _, stmt := range stmts {
		if err := fc.statement(stmt); err != nil {
			return false, err
		}
		if _, ok := stmt.(ast.Return); ok {
			return true, nil
		}
	}
	return false, nil
}

func (fc *functionContext) statement(stmt ast.Expr) error {
	switch s := stmt.(type) {
	case ast.Return:
		v, err := fc.value(s.Value)
		if err != nil {
			return err
		}
		if fc.retSlot != nil {
			fc.emit(ir.Store{Slot: fc.retSlot, Value: v})
		}
		return nil
	case ast.Decl:
		slot := fc.fn.NewSlot(s.Name)
		fc.symbols.declare(s.Name, slot, s.Type)
		if init, ok := s.Init.Get(); ok {
			v, err := fc.value(init)
			if err != nil {
				return err
			}
			fc.emit(ir.Store{Slot: slot, Value: v})
		}
		return nil
	case ast.If:
		return fc.conditional(s)
	default:
		_, err := fc.value(stmt)
		return err
	}
}

// conditional lowers an If into then, else and merge blocks. A branch that
// ends in a Return jumps straight to the return block.
func (fc *functionContext) conditional(s ast.If) error {
	cond, err := fc.value(s.Cond)
	if err != nil {
		return err
	}
	then := fc.fn.CreateBlock("then")
	otherwise := fc.fn.CreateBlock("else")
	merge := fc.fn.CreateBlock("merge")
	fc.term(ir.CondBr{Cond: cond, Then: then, Else: otherwise})

	for _, branch := range []struct {
		block *ir.Block
		body  []ast.Expr
	}{
		{block: then, body: s.Then},
		{block: otherwise, body: s.Else},
	} {
		fc.setBlock(branch.block)
		returned, err := fc.statements(branch.body)
		if err != nil {
			return err
		}
		if returned {
			fc.term(ir.Br{Target: fc.retBlock})
		} else {
			fc.term(ir.Br{Target: merge})
		}
	}
	fc.setBlock(merge)
	return nil
}

var arithmetic = map[ast.Operator]ir.BinaryOp{
	ast.OpAdd: ir.Add,
	ast.OpSub: ir.Sub,
	ast.OpMul: ir.Mul,
	ast.OpDiv: ir.SDiv,
	ast.OpAnd: ir.And,
	ast.OpOr:  ir.Or,
}

var comparisons = map[ast.Operator]ir.Predicate{
	ast.OpEq: ir.Eq,
	ast.OpNe: ir.Ne,
	ast.OpLe: ir.Sle,
	ast.OpGe: ir.Sge,
	ast.OpLt: ir.Slt,
	ast.OpGt: ir.Sgt,
}

func (fc *functionContext) value(e ast.Expr) (ir.Value, error) {
	switch n := e.(type) {
	case ast.IntLiteral:
		return ir.Const{Value: n.Value}, nil
	case ast.BinaryOp:
		return fc.binary(n)
	case ast.VarRef:
		sym, err := fc.lookup(n.Name)
		if err != nil {
			return nil, err
		}
		dst := fc.fn.NewTemp()
		fc.emit(ir.Load{Dst: dst, Slot: sym.slot})
		return dst, nil
	case ast.Assign:
		v, err := fc.value(n.Value)
		if err != nil {
			return nil, err
		}
		sym, err := fc.lookup(n.Name)
		if err != nil {
			return nil, err
		}
		fc.emit(ir.Store{Slot: sym.slot, Value: v})
		return v, nil
	case ast.Deref:
		addr, err := fc.value(n.Address)
		if err != nil {
			return nil, err
		}
		dst := fc.fn.NewTemp()
		fc.emit(ir.LoadAddr{Dst: dst, Addr: addr})
		return dst, nil
	default:
		return nil, fc.fail(exc.CodeStatementAsValue, fmt.Sprintf("statement used as a value in @%s: %s", fc.fn.Name, ast.Deparse(e)))
	}
}

func (fc *functionContext) binary(n ast.BinaryOp) (ir.Value, error) {
	lhs, err := fc.value(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := fc.value(n.RHS)
	if err != nil {
		return nil, err
	}
	dst := fc.fn.NewTemp()
	if op, ok := arithmetic[n.Op]; ok {
		fc.emit(ir.Binary{Dst: dst, Op: op, LHS: lhs, RHS: rhs})
		return dst, nil
	}
	if pred, ok := comparisons[n.Op]; ok {
		fc.emit(ir.Compare{Dst: dst, Pred: pred, LHS: lhs, RHS: rhs})
		return dst, nil
	}
	return nil, fc.fail(exc.CodeUnknownFatal, fmt.Sprintf("unknown operator %s", n.Op))
}

func (fc *functionContext) lookup(name string) (symbol, error) {
	sym, ok := fc.symbols.lookup(name)
	if !ok {
		return sym, fc.fail(exc.CodeUndeclaredIdentifier, fmt.Sprintf("undeclared identifier %q in @%s", name, fc.fn.Name))
	}
	return sym, nil
}
