// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/codegen"
	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/fs"
	"gopkg.microglot.org/minic.go/internal/parser"
)

// SubCompilerC parses a source file and, unless asked to stop there, lowers
// it to IR. Every file gets its own generation state.
type SubCompilerC struct{}

func (self *SubCompilerC) CompileFile(ctx context.Context, r exc.Reporter, file api.File, parseOnly bool) (*api.Unit, error) {
	path := file.Path(ctx)
	source, err := fs.ReadAll(ctx, file)
	if err != nil {
		return nil, report(r, path, err)
	}
	program, err := parser.ParseURI(path, source)
	if err != nil {
		return nil, report(r, path, err)
	}
	unit := &api.Unit{
		URI:     path,
		Source:  source,
		Program: &program,
	}
	if parseOnly {
		return unit, nil
	}
	module, err := codegen.Generate(program, codegen.OptionWithModuleName(path), codegen.OptionWithURI(path))
	if err != nil {
		return nil, report(r, path, err)
	}
	unit.Module = module
	return unit, nil
}

func report(r exc.Reporter, path string, err error) error {
	var e exc.Exception
	if !errors.As(err, &e) {
		e = exc.WrapUnknown(exc.Location{URI: path}, err)
	}
	_ = r.Report(e)
	return e
}
