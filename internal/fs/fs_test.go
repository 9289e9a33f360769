// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/exc"
)

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.c"), []byte("int main() { return 0; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	local, err := NewFileSystemLocal(root)
	require.NoError(t, err)

	files, err := local.Open(ctx, "/main.c")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, api.FileKindC, files[0].Kind(ctx))
	content, err := ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "int main() { return 0; }", content)

	require.NoError(t, local.Write(ctx, "/sub/extra.mc", "void f() {}"))
	files, err = local.Open(ctx, "/sub")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, api.FileKindMiniC, files[0].Kind(ctx))

	files, err = local.Open(ctx, "/")
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = local.Open(ctx, "/missing.c")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	first := NewFileSystemMemory(map[string]string{"/a.c": "first"})
	second := NewFileSystemMemory(map[string]string{"/a.c": "second", "/b.c": "only second"})
	multi := FileSystemMulti{first, second}

	files, err := multi.Open(ctx, "/a.c")
	require.NoError(t, err)
	content, err := ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "first", content)

	files, err = multi.Open(ctx, "/b.c")
	require.NoError(t, err)
	content, err = ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "only second", content)

	_, err = multi.Open(ctx, "/c.c")
	require.Error(t, err)
	require.Error(t, multi.Write(ctx, "/c.c", ""))
}

func TestFileSystemMemoryDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := NewFileSystemMemory(map[string]string{
		"/cases/b.mc":      "b",
		"/cases/a.c":       "a",
		"/cases/readme.md": "skip",
		"/cases/deep/c.c":  "nested",
	})
	files, err := mem.Open(ctx, "/cases")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "/cases/a.c", files[0].Path(ctx))
	require.Equal(t, "/cases/b.mc", files[1].Path(ctx))
}

func TestFileSystemMemoryWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := NewFileSystemMemory(nil)
	_, err := mem.Open(ctx, "-")
	require.Error(t, err)

	require.NoError(t, mem.Write(ctx, "-", "int main() { return 0; }"))
	files, err := mem.Open(ctx, "-")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, api.FileKindMiniC, files[0].Kind(ctx))
	content, err := ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "int main() { return 0; }", content)
}

func TestReadAllLarge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	content := strings.Repeat("int f() { return 1; }\n", 1000)
	f := NewFileFN("/big.c", func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, api.FileKindC)
	actual, err := ReadAll(ctx, f)
	require.NoError(t, err)
	require.Equal(t, content, actual)

	failing := NewFileFN("/bad.c", func() (io.ReadCloser, error) {
		return nil, errors.New("denied")
	}, api.FileKindC)
	_, err = ReadAll(ctx, failing)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeReadFailure, e.Code())
}

type closeCounter struct {
	io.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed = c.closed + 1
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReaderBody(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rc := &closeCounter{Reader: strings.NewReader("int main() {}")}
	body := newReaderBody("/main.c", rc)

	chunk, err := body.Read(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "int m", string(chunk))

	chunk, err = body.Read(ctx, 100)
	require.Equal(t, "ain() {}", string(chunk))
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeEOF, e.Code())
	require.Equal(t, "/main.c", e.Location().URI)

	chunk, err = body.Read(ctx, 100)
	require.Empty(t, chunk)
	require.True(t, isEOF(err))

	_, err = body.Read(ctx, 0)
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeReadFailure, e.Code())

	require.NoError(t, body.Close(ctx))
	require.Equal(t, 1, rc.closed)

	broken := newReaderBody("/broken.c", io.NopCloser(failingReader{}))
	_, err = broken.Read(ctx, 10)
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeReadFailure, e.Code())
	require.False(t, isEOF(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = newReaderBody("/c.c", io.NopCloser(strings.NewReader("x"))).Read(cancelled, 10)
	require.True(t, errors.Is(err, context.Canceled))

	_, err = ReadAll(cancelled, NewFileString("/c.c", "int main() {}", api.FileKindC))
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeReadFailure, e.Code())
}
