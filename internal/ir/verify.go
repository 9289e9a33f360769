// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ir

import (
	"errors"
	"fmt"
)

// Verify checks the structural rules every backend relies on. All problems
// found are joined into the returned error.
func Verify(m *Module) error {
	var errs []error
	for _, f := range m.Functions {
		errs = append(errs, verifyFunction(f)...)
	}
	return errors.Join(errs...)
}

func verifyFunction(f *Function) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("@%s: "+format, append([]any{f.Name}, args...)...))
	}
	if len(f.Blocks) == 0 {
		fail("no blocks")
		return errs
	}
	blocks := make(map[*Block]bool, len(f.Blocks))
	names := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		if names[b.Name] {
			fail("duplicate block name %q", b.Name)
		}
		names[b.Name] = true
		blocks[b] = true
	}
	slots := make(map[*Slot]bool, len(f.Slots))
	for _, s := range f.Slots {
		slots[s] = true
	}
	for _, b := range f.Blocks {
		for _, i := range b.Instrs {
			var slot *Slot
			switch i := i.(type) {
			case Store:
				slot = i.Slot
			case Load:
				slot = i.Slot
			}
			if slot != nil && !slots[slot] {
				fail("block %s: slot %s is not declared", b.Name, slot)
			}
		}
		if b.Term == nil {
			fail("block %s has no terminator", b.Name)
			continue
		}
		for _, target := range b.Term.Targets() {
			if !blocks[target] {
				fail("block %s: branch target is not in the function", b.Name)
			}
		}
		if ret, ok := b.Term.(Ret); ok {
			hasValue := ret.Value.IsPresent()
			if f.Return == Void && hasValue {
				fail("block %s: void function returns a value", b.Name)
			}
			if f.Return != Void && !hasValue {
				fail("block %s: missing return value", b.Name)
			}
		}
	}
	return errs
}
