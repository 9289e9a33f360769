// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/exc"
)

const readChunk = 4096

// ReadAll drains a file body into a string.
func ReadAll(ctx context.Context, file api.File) (string, error) {
	path := file.Path(ctx)
	body, err := file.Body(ctx)
	if err != nil {
		return "", exc.Wrap(exc.Location{URI: path}, exc.CodeReadFailure, err)
	}
	defer body.Close(ctx)

	var b strings.Builder
	for {
		chunk, err := body.Read(ctx, readChunk)
		b.Write(chunk)
		if err == nil {
			continue
		}
		if isEOF(err) {
			return b.String(), nil
		}
		return "", exc.Wrap(exc.Location{URI: path}, exc.CodeReadFailure, err)
	}
}

func isEOF(err error) bool {
	var e exc.Exception
	return errors.As(err, &e) && e.Code() == exc.CodeEOF
}

// readerBody serves an io.ReadCloser as an api.FileBody. Each Read fills up
// to size bytes; the end of input comes back as a CodeEOF exception together
// with the final bytes.
type readerBody struct {
	path   string
	r      *bufio.Reader
	closer io.Closer
	buf    []byte
}

func newReaderBody(path string, rc io.ReadCloser) *readerBody {
	return &readerBody{
		path:   path,
		r:      bufio.NewReader(rc),
		closer: rc,
	}
}

func (b *readerBody) Read(ctx context.Context, size int32) ([]byte, error) {
	loc := exc.Location{URI: b.path}
	if err := ctx.Err(); err != nil {
		return nil, exc.Wrap(loc, exc.CodeReadFailure, err)
	}
	if size < 1 {
		return nil, exc.New(loc, exc.CodeReadFailure, "read size must be positive")
	}
	if cap(b.buf) < int(size) {
		b.buf = make([]byte, size)
	}
	n, err := io.ReadFull(b.r, b.buf[:size])
	switch {
	case err == nil:
		return b.buf[:n], nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return b.buf[:n], exc.Wrap(loc, exc.CodeEOF, io.EOF)
	default:
		return nil, exc.Wrap(loc, exc.CodeReadFailure, err)
	}
}

func (b *readerBody) Close(ctx context.Context) error {
	return b.closer.Close()
}
