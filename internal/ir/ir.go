// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ir is a small block-structured intermediate form. A Function is
// a list of basic blocks over 32-bit integer values, with locals kept in
// stack slots and every block ending in exactly one terminator.
package ir

import (
	"fmt"

	"gopkg.microglot.org/minic.go/internal/optional"
)

type Type uint8

const (
	I32 Type = iota
	Void
)

func (t Type) String() string {
	switch t {
	case I32:
		return "i32"
	case Void:
		return "void"
	default:
		return fmt.Sprintf("type-%d", uint8(t))
	}
}

// Value is an operand: a Const, a Temp or a Param.
type Value interface {
	fmt.Stringer
	value()
}

type Const struct {
	Value uint32
}

// Temp is the result of one instruction. IDs are unique within a function.
type Temp struct {
	ID int
}

// Param is the incoming value of a function argument.
type Param struct {
	Index int
	Name  string
}

func (c Const) String() string { return fmt.Sprintf("%d", c.Value) }
func (t Temp) String() string  { return fmt.Sprintf("%%t%d", t.ID) }
func (p Param) String() string { return "%" + p.Name }

func (Const) value() {}
func (Temp) value()  {}
func (Param) value() {}

// Slot is a 32-bit stack location. Names are unique within a function.
type Slot struct {
	Name string
}

func (s *Slot) String() string { return "$" + s.Name }

type Module struct {
	Name      string
	Functions []*Function
}

type Function struct {
	Name   string
	Return Type
	Params []Param
	Slots  []*Slot
	Blocks []*Block

	temps      int
	blockNames map[string]int
	slotNames  map[string]int
}

func NewFunction(name string, ret Type, params []Param) *Function {
	return &Function{
		Name:       name,
		Return:     ret,
		Params:     params,
		blockNames: make(map[string]int),
		slotNames:  make(map[string]int),
	}
}

// NewTemp allocates the next temporary.
func (f *Function) NewTemp() Temp {
	t := Temp{ID: f.temps}
	f.temps = f.temps + 1
	return t
}

// NewSlot declares a stack slot. A repeated name gets a numeric suffix.
func (f *Function) NewSlot(name string) *Slot {
	s := &Slot{Name: uniqueName(f.slotNames, name)}
	f.Slots = append(f.Slots, s)
	return s
}

// CreateBlock makes a uniquely named block that is not yet part of the
// function's layout. See AppendBlock.
func (f *Function) CreateBlock(name string) *Block {
	return &Block{Name: uniqueName(f.blockNames, name)}
}

func (f *Function) AppendBlock(b *Block) {
	f.Blocks = append(f.Blocks, b)
}

// Entry is the first block in layout order, or nil for an empty function.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block finds a block by name.
func (f *Function) Block(name string) *Block {
	for _, b := range f.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Successors lists the blocks b can branch to.
func (f *Function) Successors(b *Block) []*Block {
	if b.Term == nil {
		return nil
	}
	return b.Term.Targets()
}

// Reachable reports every block reachable from the entry block.
func (f *Function) Reachable() map[*Block]bool {
	seen := make(map[*Block]bool, len(f.Blocks))
	entry := f.Entry()
	if entry == nil {
		return seen
	}
	work := []*Block{entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		work = append(work, f.Successors(b)...)
	}
	return seen
}

// Predecessors lists, in layout order, the blocks that branch to b.
func (f *Function) Predecessors(b *Block) []*Block {
	var out []*Block
	for _, candidate := range f.Blocks {
		for _, target := range f.Successors(candidate) {
			if target == b {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

type Block struct {
	Name   string
	Instrs []Instr
	Term   Terminator
}

// Instr is a non-terminating instruction.
type Instr interface {
	fmt.Stringer
	instr()
}

type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	SDiv
	And
	Or
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case SDiv:
		return "sdiv"
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("binop-%d", uint8(op))
	}
}

// Predicate is a signed integer comparison.
type Predicate uint8

const (
	Eq Predicate = iota
	Ne
	Sle
	Sge
	Slt
	Sgt
)

func (p Predicate) String() string {
	switch p {
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case Sle:
		return "sle"
	case Sge:
		return "sge"
	case Slt:
		return "slt"
	case Sgt:
		return "sgt"
	default:
		return fmt.Sprintf("pred-%d", uint8(p))
	}
}

// Store writes Value into Slot.
type Store struct {
	Slot  *Slot
	Value Value
}

// Load reads Slot into Dst.
type Load struct {
	Dst  Temp
	Slot *Slot
}

type Binary struct {
	Dst Temp
	Op  BinaryOp
	LHS Value
	RHS Value
}

// Compare yields 1 when the predicate holds and 0 otherwise.
type Compare struct {
	Dst  Temp
	Pred Predicate
	LHS  Value
	RHS  Value
}

// LoadAddr reads a 32-bit integer from the raw address Addr.
type LoadAddr struct {
	Dst  Temp
	Addr Value
}

func (i Store) String() string {
	return fmt.Sprintf("store %s, %s", i.Slot, i.Value)
}

func (i Load) String() string {
	return fmt.Sprintf("%s = load %s", i.Dst, i.Slot)
}

func (i Binary) String() string {
	return fmt.Sprintf("%s = %s %s, %s", i.Dst, i.Op, i.LHS, i.RHS)
}

func (i Compare) String() string {
	return fmt.Sprintf("%s = cmp %s %s, %s", i.Dst, i.Pred, i.LHS, i.RHS)
}

func (i LoadAddr) String() string {
	return fmt.Sprintf("%s = loadaddr %s", i.Dst, i.Addr)
}

func (Store) instr()    {}
func (Load) instr()     {}
func (Binary) instr()   {}
func (Compare) instr()  {}
func (LoadAddr) instr() {}

// Terminator ends a block.
type Terminator interface {
	fmt.Stringer
	Targets() []*Block
}

type Br struct {
	Target *Block
}

// CondBr jumps to Then when Cond is nonzero.
type CondBr struct {
	Cond Value
	Then *Block
	Else *Block
}

// Ret leaves the function, with a value unless the function is void.
type Ret struct {
	Value optional.Optional[Value]
}

func (t Br) Targets() []*Block     { return []*Block{t.Target} }
func (t CondBr) Targets() []*Block { return []*Block{t.Then, t.Else} }
func (t Ret) Targets() []*Block    { return nil }

func (t Br) String() string {
	return "br " + t.Target.Name
}

func (t CondBr) String() string {
	return fmt.Sprintf("condbr %s, %s, %s", t.Cond, t.Then.Name, t.Else.Name)
}

func (t Ret) String() string {
	if v, ok := t.Value.Get(); ok {
		return "ret " + v.String()
	}
	return "ret"
}
