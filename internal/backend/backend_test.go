// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minic.go/internal/codegen"
	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/ir"
	"gopkg.microglot.org/minic.go/internal/parser"
	"gopkg.microglot.org/minic.go/internal/target"
)

func lower(t *testing.T, source string) *ir.Module {
	t.Helper()
	program, err := parser.Parse(source)
	require.NoError(t, err)
	m, err := codegen.Generate(program)
	require.NoError(t, err)
	return m
}

func TestRenderLLVMConditional(t *testing.T) {
	t.Parallel()
	m := lower(t, "int main() { if (2 > 1) { return 0; } else { return 1; } }")
	expected := `; ModuleID = 'main'
source_filename = "main"
target triple = "armv7-unknown-linux-gnueabi"

define i32 @main() {
entry:
  %slot.retval = alloca i32, align 4
  store i32 0, ptr %slot.retval, align 4
  %t0.i1 = icmp sgt i32 2, 1
  %t0 = zext i1 %t0.i1 to i32
  %cond0 = icmp ne i32 %t0, 0
  br i1 %cond0, label %then, label %else

then:
  store i32 0, ptr %slot.retval, align 4
  br label %return

else:
  store i32 1, ptr %slot.retval, align 4
  br label %return

merge:
  br label %return

return:
  %t1 = load i32, ptr %slot.retval, align 4
  ret i32 %t1
}
`
	require.Equal(t, expected, RenderLLVM(m, target.MustParseTriple(target.DefaultTriple)))
}

func TestRenderLLVMValues(t *testing.T) {
	t.Parallel()
	m := lower(t, "void poke(int p, int p) { int x = *p / 0xFFFFFFFF; x = x - 1 && p; }")
	out := RenderLLVM(m, target.MustParseTriple("x86_64-pc-linux-gnu"))
	for _, want := range []string{
		`target triple = "x86_64-pc-linux-gnu"`,
		"define void @poke(i32 %arg0, i32 %arg1) {",
		"%slot.p = alloca i32, align 4",
		"%slot.p.1 = alloca i32, align 4",
		"store i32 %arg1, ptr %slot.p.1, align 4",
		"%t1.ptr = inttoptr i32 %t0 to ptr",
		"%t1 = load i32, ptr %t1.ptr, align 4",
		"%t2 = sdiv i32 %t1, -1",
		"and i32",
		"ret void",
	} {
		require.Contains(t, out, want)
	}
	require.Equal(t, 1, strings.Count(out, "ret "))
}

func TestFileType(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"asm", "obj", "llvm", "ir"} {
		ft, err := ParseFileType(name)
		require.NoError(t, err)
		require.Equal(t, name, ft.String())
	}
	_, err := ParseFileType("exe")
	require.Error(t, err)
	require.Equal(t, ".o", FileTypeObject.Extension())
	require.Equal(t, ".s", FileTypeAssembly.Extension())
}

func TestLLCArgs(t *testing.T) {
	t.Parallel()
	l := &LLC{}
	args := l.Args(Request{
		Triple:   target.MustParseTriple(target.DefaultTriple),
		FileType: FileTypeObject,
		Output:   "out.o",
	})
	require.Equal(t, []string{
		"-mtriple=armv7-unknown-linux-gnueabi",
		"-mcpu=generic",
		"-filetype=obj",
		"-o", "out.o",
		"-",
	}, args)
}

func TestLLCArgsOpaquePointers(t *testing.T) {
	t.Parallel()
	req := Request{
		Triple:   target.MustParseTriple(target.DefaultTriple),
		FileType: FileTypeAssembly,
		Output:   "-",
	}
	testCases := []struct {
		major int
		flag  bool
	}{
		{major: 0},
		{major: 14, flag: true},
		{major: 15},
		{major: 18},
	}
	for _, testCase := range testCases {
		args := (&LLC{Major: testCase.major}).Args(req)
		require.Equal(t, testCase.flag, contains(args, "-opaque-pointers"), "major %d", testCase.major)
		require.Equal(t, "-", args[len(args)-1])
	}
}

func TestParseLLVMMajor(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		output string
		major  int
		ok     bool
	}{
		{name: "upstream", output: "LLVM (http://llvm.org/):\n  LLVM version 14.0.6\n  Optimized build.\n", major: 14, ok: true},
		{name: "distribution", output: "Ubuntu LLVM version 18.1.3\n", major: 18, ok: true},
		{name: "no version", output: "llc: unknown option\n"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			major, ok := ParseLLVMMajor(testCase.output)
			require.Equal(t, testCase.ok, ok)
			require.Equal(t, testCase.major, major)
		})
	}
}

// fakeLLC writes a shell script that reports version and records its
// arguments and standard input in dir.
func fakeLLC(t *testing.T, dir string, version string) string {
	t.Helper()
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo \"  LLVM version " + version + "\"; exit 0; fi\n" +
		"echo \"$@\" > \"" + filepath.Join(dir, "args") + "\"\n" +
		"cat > \"" + filepath.Join(dir, "input") + "\"\n"
	path := filepath.Join(dir, "llc")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// Not parallel: exec of a just-written script fails with ETXTBSY while
// another goroutine forks.
func TestLLCEmitVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	m := lower(t, "int main() { return 0; }")
	req := Request{
		Triple:   target.MustParseTriple(target.DefaultTriple),
		FileType: FileTypeAssembly,
		Output:   StdoutPath,
	}
	testCases := []struct {
		name    string
		version string
		flag    bool
		fails   bool
	}{
		{name: "llvm 14 opts in", version: "14.0.6", flag: true},
		{name: "llvm 17 reads opaque pointers", version: "17.0.1"},
		{name: "llvm 13 is too old", version: "13.0.1", fails: true},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			dir := t.TempDir()
			b := New(FileTypeAssembly, fakeLLC(t, dir, testCase.version), &bytes.Buffer{})
			err := b.Emit(context.Background(), m, req)
			if testCase.fails {
				var e exc.Exception
				require.True(t, errors.As(err, &e))
				require.Equal(t, exc.CodeEmitFailure, e.Code())
				require.Contains(t, e.Message(), "LLVM 14 or later")
				return
			}
			require.NoError(t, err)
			args, err := os.ReadFile(filepath.Join(dir, "args"))
			require.NoError(t, err)
			require.Equal(t, testCase.flag, strings.Contains(string(args), "-opaque-pointers"))
			input, err := os.ReadFile(filepath.Join(dir, "input"))
			require.NoError(t, err)
			require.Equal(t, RenderLLVM(m, req.Triple), string(input))
		})
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestLLCMissingExecutable(t *testing.T) {
	t.Parallel()
	m := lower(t, "int main() { return 0; }")
	b := New(FileTypeAssembly, filepath.Join(t.TempDir(), "no-such-llc"), &bytes.Buffer{})
	err := b.Emit(context.Background(), m, Request{
		Triple:   target.MustParseTriple(target.DefaultTriple),
		FileType: FileTypeAssembly,
		Output:   StdoutPath,
	})
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeEmitFailure, e.Code())
}

func TestTextBackend(t *testing.T) {
	t.Parallel()
	m := lower(t, "int main() { return 7; }")
	triple := target.MustParseTriple(target.DefaultTriple)

	var stdout bytes.Buffer
	b := New(FileTypeIR, "", &stdout)
	require.NoError(t, b.Emit(context.Background(), m, Request{Triple: triple, FileType: FileTypeIR, Output: StdoutPath}))
	require.Equal(t, m.String(), stdout.String())

	path := filepath.Join(t.TempDir(), "nested", "main.ll")
	b = New(FileTypeLLVM, "", &stdout)
	require.NoError(t, b.Emit(context.Background(), m, Request{Triple: triple, FileType: FileTypeLLVM, Output: path}))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, RenderLLVM(m, triple), string(written))

	broken := &ir.Module{Name: "broken", Functions: []*ir.Function{ir.NewFunction("f", ir.I32, nil)}}
	err = b.Emit(context.Background(), broken, Request{Triple: triple, FileType: FileTypeLLVM, Output: path})
	require.Error(t, err)
}
