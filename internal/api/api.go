// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"

	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/ir"
)

type Closer interface {
	Close(ctx context.Context) error
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindC
	FileKindMiniC
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindC:
		return "c"
	case FileKindMiniC:
		return "minic"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files []string
	// ParseOnly stops each unit after parsing; Unit.Module stays nil.
	ParseOnly bool
}

type CompileResponse struct {
	// Units are in the order their files were opened.
	Units []*Unit
}

// Unit is one compiled source file.
type Unit struct {
	URI     string
	Source  string
	Program *ast.Program
	Module  *ir.Module
}
