// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/minic.go/internal/ir"
	"gopkg.microglot.org/minic.go/internal/optional"
	"gopkg.microglot.org/minic.go/internal/target"
)

// RenderLLVM prints m as textual LLVM IR for triple. Slots become allocas at
// the top of the entry block. Comparisons are widened back to i32 and branch
// conditions test for nonzero.
func RenderLLVM(m *ir.Module, triple target.Triple) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; ModuleID = '%s'\n", m.Name)
	fmt.Fprintf(&b, "source_filename = %q\n", m.Name)
	fmt.Fprintf(&b, "target triple = %q\n", triple.String())
	for _, f := range m.Functions {
		b.WriteByte('\n')
		r := &llvmFunction{b: &b, f: f}
		r.render()
	}
	return b.String()
}

type llvmFunction struct {
	b     *strings.Builder
	f     *ir.Function
	conds int
}

func (r *llvmFunction) line(format string, args ...any) {
	r.b.WriteString("  ")
	fmt.Fprintf(r.b, format, args...)
	r.b.WriteByte('\n')
}

func (r *llvmFunction) render() {
	params := make([]string, 0, len(r.f.Params))
	for _, p := range r.f.Params {
		params = append(params, "i32 "+llvmValue(p))
	}
	fmt.Fprintf(r.b, "define %s @%s(%s) {\n", r.f.Return, r.f.Name, strings.Join(params, ", "))
	for x, blk := range r.f.Blocks {
		if x > 0 {
			r.b.WriteByte('\n')
		}
		fmt.Fprintf(r.b, "%s:\n", blk.Name)
		if x == 0 {
			for _, s := range r.f.Slots {
				r.line("%s = alloca i32, align 4", llvmSlot(s))
			}
		}
		for _, i := range blk.Instrs {
			r.instr(i)
		}
		r.terminator(blk.Term)
	}
	r.b.WriteString("}\n")
}

func (r *llvmFunction) instr(i ir.Instr) {
	switch i := i.(type) {
	case ir.Store:
		r.line("store i32 %s, ptr %s, align 4", llvmValue(i.Value), llvmSlot(i.Slot))
	case ir.Load:
		r.line("%s = load i32, ptr %s, align 4", llvmValue(i.Dst), llvmSlot(i.Slot))
	case ir.Binary:
		r.line("%s = %s i32 %s, %s", llvmValue(i.Dst), i.Op, llvmValue(i.LHS), llvmValue(i.RHS))
	case ir.Compare:
		bit := llvmValue(i.Dst) + ".i1"
		r.line("%s = icmp %s i32 %s, %s", bit, i.Pred, llvmValue(i.LHS), llvmValue(i.RHS))
		r.line("%s = zext i1 %s to i32", llvmValue(i.Dst), bit)
	case ir.LoadAddr:
		ptr := llvmValue(i.Dst) + ".ptr"
		r.line("%s = inttoptr i32 %s to ptr", ptr, llvmValue(i.Addr))
		r.line("%s = load i32, ptr %s, align 4", llvmValue(i.Dst), ptr)
	default:
		r.line("; unknown instruction %s", i)
	}
}

func (r *llvmFunction) terminator(t ir.Terminator) {
	switch t := t.(type) {
	case ir.Br:
		r.line("br label %%%s", t.Target.Name)
	case ir.CondBr:
		cond := fmt.Sprintf("%%cond%d", r.conds)
		r.conds = r.conds + 1
		r.line("%s = icmp ne i32 %s, 0", cond, llvmValue(t.Cond))
		r.line("br i1 %s, label %%%s, label %%%s", cond, t.Then.Name, t.Else.Name)
	case ir.Ret:
		r.line("ret %s", optional.Map(t.Value, func(v ir.Value) string {
			return "i32 " + llvmValue(v)
		}).OrElse("void"))
	default:
		r.line("unreachable")
	}
}

func llvmValue(v ir.Value) string {
	switch v := v.(type) {
	case ir.Const:
		return fmt.Sprintf("%d", int32(v.Value))
	case ir.Temp:
		return fmt.Sprintf("%%t%d", v.ID)
	case ir.Param:
		return fmt.Sprintf("%%arg%d", v.Index)
	default:
		return "undef"
	}
}

func llvmSlot(s *ir.Slot) string {
	return "%slot." + s.Name
}
