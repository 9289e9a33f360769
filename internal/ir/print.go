// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ir

import (
	"fmt"
	"strings"
)

func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %q\n", m.Name)
	for _, f := range m.Functions {
		b.WriteByte('\n')
		b.WriteString(f.String())
	}
	return b.String()
}

func (f *Function) String() string {
	var b strings.Builder
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, I32.String()+" "+p.String())
	}
	fmt.Fprintf(&b, "func %s @%s(%s) {\n", f.Return, f.Name, strings.Join(params, ", "))
	if len(f.Slots) > 0 {
		slots := make([]string, 0, len(f.Slots))
		for _, s := range f.Slots {
			slots = append(slots, s.String())
		}
		fmt.Fprintf(&b, "  slot %s\n", strings.Join(slots, ", "))
	}
	for _, blk := range f.Blocks {
		b.WriteString(blk.String())
	}
	b.WriteString("}\n")
	return b.String()
}

func (blk *Block) String() string {
	var b strings.Builder
	b.WriteString(blk.Name)
	b.WriteString(":\n")
	for _, i := range blk.Instrs {
		b.WriteString("  ")
		b.WriteString(i.String())
		b.WriteByte('\n')
	}
	if blk.Term != nil {
		b.WriteString("  ")
		b.WriteString(blk.Term.String())
		b.WriteByte('\n')
	}
	return b.String()
}
