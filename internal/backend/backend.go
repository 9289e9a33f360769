// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package backend hands a finished ir.Module to something that can turn it
// into an artifact on disk.
package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/ir"
	"gopkg.microglot.org/minic.go/internal/target"
)

type FileType uint8

const (
	FileTypeAssembly FileType = iota
	FileTypeObject
	FileTypeLLVM
	FileTypeIR
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeAssembly:
		return "asm"
	case FileTypeObject:
		return "obj"
	case FileTypeLLVM:
		return "llvm"
	case FileTypeIR:
		return "ir"
	default:
		return fmt.Sprintf("filetype-%d", uint8(ft))
	}
}

// Extension is the conventional suffix for output of this type.
func (ft FileType) Extension() string {
	switch ft {
	case FileTypeObject:
		return ".o"
	case FileTypeLLVM:
		return ".ll"
	case FileTypeIR:
		return ".ir"
	default:
		return ".s"
	}
}

func ParseFileType(s string) (FileType, error) {
	for _, ft := range []FileType{FileTypeAssembly, FileTypeObject, FileTypeLLVM, FileTypeIR} {
		if ft.String() == s {
			return ft, nil
		}
	}
	return 0, fmt.Errorf("unknown output type %q, want one of asm, obj, llvm, ir", s)
}

// StdoutPath is the Output value that writes to standard output.
const StdoutPath = "-"

type Request struct {
	Triple   target.Triple
	FileType FileType
	Output   string
}

type Backend interface {
	Emit(ctx context.Context, m *ir.Module, req Request) error
}

// New returns the backend that produces ft. llcPath is only used for
// assembly and object output.
func New(ft FileType, llcPath string, stdout io.Writer) Backend {
	switch ft {
	case FileTypeAssembly, FileTypeObject:
		return &LLC{Path: llcPath, Stdout: stdout}
	default:
		return &Text{Stdout: stdout}
	}
}

// Text writes the module in a textual form: LLVM assembly or the native IR
// listing.
type Text struct {
	Stdout io.Writer
}

func (t *Text) Emit(ctx context.Context, m *ir.Module, req Request) error {
	if err := ir.Verify(m); err != nil {
		return exc.Wrap(exc.Location{URI: m.Name}, exc.CodeEmitFailure, err)
	}
	var content string
	switch req.FileType {
	case FileTypeLLVM:
		content = RenderLLVM(m, req.Triple)
	case FileTypeIR:
		content = m.String()
	default:
		return exc.New(exc.Location{URI: m.Name}, exc.CodeEmitFailure, fmt.Sprintf("text backend cannot produce %s", req.FileType))
	}
	if req.Output == StdoutPath {
		if _, err := io.WriteString(t.Stdout, content); err != nil {
			return exc.Wrap(exc.Location{URI: req.Output}, exc.CodeEmitFailure, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return exc.Wrap(exc.Location{URI: req.Output}, exc.CodeEmitFailure, err)
	}
	if err := os.WriteFile(req.Output, []byte(content), 0o644); err != nil {
		return exc.Wrap(exc.Location{URI: req.Output}, exc.CodeEmitFailure, err)
	}
	return nil
}
