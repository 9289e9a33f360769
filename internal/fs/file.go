// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"strings"

	"gopkg.microglot.org/minic.go/internal/api"
)

// NewFileString serves content from memory.
func NewFileString(path string, content string, kind api.FileKind) api.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

// NewFileFN builds a file whose body is produced by open. Every call to Body
// calls open again, so open must return a fresh handle each time.
func NewFileFN(path string, open func() (io.ReadCloser, error), kind api.FileKind) api.File {
	return &sourceFile{
		path: path,
		kind: kind,
		open: open,
	}
}

type sourceFile struct {
	path string
	kind api.FileKind
	open func() (io.ReadCloser, error)
}

func (f *sourceFile) Path(ctx context.Context) string {
	return f.path
}

func (f *sourceFile) Kind(ctx context.Context) api.FileKind {
	return f.kind
}

func (f *sourceFile) Body(ctx context.Context) (api.FileBody, error) {
	rc, err := f.open()
	if err != nil {
		return nil, err
	}
	return newReaderBody(f.path, rc), nil
}
