// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/exc"
)

// SubCompiler compiles one file of a particular kind. Failures are given
// to the reporter and also returned.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file api.File, parseOnly bool) (*api.Unit, error)
}

func DefaultSubCompilers() map[api.FileKind]SubCompiler {
	sc := &SubCompilerC{}
	return map[api.FileKind]SubCompiler{
		api.FileKindC:     sc,
		api.FileKindMiniC: sc,
	}
}
