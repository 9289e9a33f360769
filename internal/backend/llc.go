// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/ir"
)

// DefaultLLC is the executable name looked up on PATH.
const DefaultLLC = "llc"

// MinLLVMMajor is the oldest llc that reads the opaque pointer syntax
// RenderLLVM produces. LLVM 14 only reads it behind -opaque-pointers.
const MinLLVMMajor = 14

var llvmVersion = regexp.MustCompile(`LLVM version (\d+)\.`)

// LLC pipes rendered LLVM assembly through an llc executable. Optimisation
// level, relocation model and code model are left at llc's defaults.
type LLC struct {
	Path   string
	Stdout io.Writer
	// Major is the LLVM major version of the executable. Zero means Emit
	// asks the executable with --version.
	Major int
}

// Args builds the llc command line for req. Input is read from stdin.
func (l *LLC) Args(req Request) []string {
	filetype := "asm"
	if req.FileType == FileTypeObject {
		filetype = "obj"
	}
	args := []string{
		"-mtriple=" + req.Triple.String(),
		"-mcpu=generic",
		"-filetype=" + filetype,
	}
	if l.Major == MinLLVMMajor {
		args = append(args, "-opaque-pointers")
	}
	return append(args, "-o", req.Output, "-")
}

// ParseLLVMMajor finds the major version in llc --version output.
func ParseLLVMMajor(versionOutput string) (int, bool) {
	match := llvmVersion.FindStringSubmatch(versionOutput)
	if match == nil {
		return 0, false
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return major, true
}

// version asks bin for its LLVM major version. Output that names no
// version gives zero.
func (l *LLC) version(ctx context.Context, bin string) (int, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%s --version: %w: %s", bin, err, strings.TrimSpace(out.String()))
	}
	major, _ := ParseLLVMMajor(out.String())
	return major, nil
}

func (l *LLC) Emit(ctx context.Context, m *ir.Module, req Request) error {
	if err := ir.Verify(m); err != nil {
		return exc.Wrap(exc.Location{URI: m.Name}, exc.CodeEmitFailure, err)
	}
	path := l.Path
	if path == "" {
		path = DefaultLLC
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return exc.Wrap(exc.Location{URI: path}, exc.CodeEmitFailure, err)
	}

	run := *l
	if run.Major == 0 {
		major, err := l.version(ctx, bin)
		if err != nil {
			return exc.Wrap(exc.Location{URI: path}, exc.CodeEmitFailure, err)
		}
		run.Major = major
	}
	if run.Major != 0 && run.Major < MinLLVMMajor {
		return exc.New(exc.Location{URI: path}, exc.CodeEmitFailure, fmt.Sprintf("%s is LLVM %d, LLVM %d or later is required", path, run.Major, MinLLVMMajor))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, run.Args(req)...)
	cmd.Stdin = strings.NewReader(RenderLLVM(m, req.Triple))
	cmd.Stdout = l.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "No available targets") || strings.Contains(msg, "unable to get target") {
			return exc.New(exc.Location{URI: m.Name}, exc.CodeUnknownTarget, fmt.Sprintf("target %s: %s", req.Triple, msg))
		}
		return exc.New(exc.Location{URI: m.Name}, exc.CodeEmitFailure, fmt.Sprintf("%s: %v: %s", path, err, msg))
	}
	return nil
}
