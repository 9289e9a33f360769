// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/target"
)

type Option func(c *compiler) error

func OptionWithFS(fs api.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

// OptionWithMaxConcurrency limits how many files compile at once. The
// default is the smaller of GOMAXPROCS and the CPU count.
func OptionWithMaxConcurrency(v int) Option {
	return func(c *compiler) error {
		c.MaxConcurrency = v
		return nil
	}
}

func OptionWithLogger(logger *slog.Logger) Option {
	return func(c *compiler) error {
		c.Logger = logger
		return nil
	}
}

func OptionWithSubCompilers(scs map[api.FileKind]SubCompiler) Option {
	return func(c *compiler) error {
		c.SubCompilers = scs
		return nil
	}
}

func New(opts ...Option) (api.Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency < 1 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             api.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	Logger         *slog.Logger
	SubCompilers   map[api.FileKind]SubCompiler
}

// Compile opens every requested target and compiles each resulting file in
// its own goroutine. Units come back in the order the files were opened.
// Each file stops at its first failure; when anything was reported the
// error is an exc.MultiException and the response holds the units that
// succeeded.
func (self *compiler) Compile(ctx context.Context, req *api.CompileRequest) (*api.CompileResponse, error) {
	files := make([]api.File, 0, len(req.Files))
	seen := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		uri := target.Normalize(f)
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			_ = self.Reporter.Report(exc.Wrap(exc.Location{URI: uri}, exc.CodeFileNotFound, err))
			continue
		}
		for _, inf := range in {
			if seen[inf.Path(ctx)] {
				continue
			}
			seen[inf.Path(ctx)] = true
			files = append(files, inf)
		}
	}

	units := make([]*api.Unit, len(files))
	results := make(chan fileResult)
	for x, file := range files {
		go func(x int, file api.File) {
			unit, err := self.compileFile(ctx, file, req.ParseOnly)
			select {
			case results <- fileResult{index: x, unit: unit, err: err}:
			case <-ctx.Done():
			}
		}(x, file)
	}

	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil {
				self.Logger.Debug("compile failed", "uri", files[result.index].Path(ctx), "error", result.err)
				continue
			}
			units[result.index] = result.unit
		}
	}

	out := &api.CompileResponse{Units: make([]*api.Unit, 0, len(units))}
	for _, unit := range units {
		if unit != nil {
			out.Units = append(out.Units, unit)
		}
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return out, exc.MultiException(caught)
	}
	return out, nil
}

func (self *compiler) compileFile(ctx context.Context, file api.File, parseOnly bool) (*api.Unit, error) {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()
	path := file.Path(ctx)
	kind := file.Kind(ctx)
	self.Logger.Debug("compiling", "uri", path, "kind", kind.String())
	sc := self.SubCompilers[kind]
	if sc == nil {
		e := exc.New(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, "unsupported file format")
		_ = self.Reporter.Report(e)
		return nil, e
	}
	return sc.CompileFile(ctx, self.Reporter, file, parseOnly)
}

type fileResult struct {
	index int
	unit  *api.Unit
	err   error
}
