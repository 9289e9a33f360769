package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/ast"
	"gopkg.microglot.org/minic.go/internal/backend"
	"gopkg.microglot.org/minic.go/internal/compiler"
	"gopkg.microglot.org/minic.go/internal/exc"
	"gopkg.microglot.org/minic.go/internal/fs"
	"gopkg.microglot.org/minic.go/internal/parser"
	"gopkg.microglot.org/minic.go/internal/target"
)

type opts struct {
	Roots      []string
	Output     string
	Emit       string
	Target     string
	LLC        string
	DumpTree   bool
	TreeFormat string
	DumpIR     bool
	ParseOnly  bool
	Expr       string
	Verbose    bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("minic", pflag.ExitOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for source files.")
	flags.StringVarP(&op.Output, "output", "o", "", "Output file, directory when compiling several files, or - for STDOUT.")
	flags.StringVar(&op.Emit, "emit", backend.FileTypeAssembly.String(), "Output type: asm, obj, llvm or ir.")
	flags.StringVar(&op.Target, "target", target.DefaultTriple, "Target triple.")
	flags.StringVar(&op.LLC, "llc", backend.DefaultLLC, "The llc executable used for asm and obj output.")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree after parsing.")
	flags.StringVar(&op.TreeFormat, "tree-format", "go", "Parse tree format: go, json or source.")
	flags.BoolVar(&op.DumpIR, "dump-ir", false, "Output the IR after lowering.")
	flags.BoolVar(&op.ParseOnly, "parse-only", false, "Stop after parsing.")
	flags.StringVar(&op.Expr, "expr", "", "Print a single expression in canonical form and exit.")
	flags.BoolVarP(&op.Verbose, "verbose", "v", false, "Log progress to STDERR.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	if op.Expr != "" {
		canonical, err := deparseExpr(op.Expr)
		if err != nil {
			fail(err)
		}
		fmt.Println(canonical)
		return
	}

	fileType, err := backend.ParseFileType(op.Emit)
	if err != nil {
		fail(err)
	}
	triple, err := target.ParseTriple(op.Target)
	if err != nil {
		fail(err)
	}
	switch op.TreeFormat {
	case "go", "json", "source":
	default:
		fail(fmt.Errorf("unknown tree format %q, want one of go, json, source", op.TreeFormat))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if op.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	mf := make(fs.FileSystemMulti, 0, len(op.Roots)+2)
	if len(targets) == 0 {
		line, err := readLine(os.Stdin)
		if err != nil {
			fail(fmt.Errorf("reading standard input: %w", err))
		}
		stdin := fs.NewFileSystemMemory(nil)
		if err := stdin.Write(ctx, target.Stdin, line); err != nil {
			fail(err)
		}
		mf = append(mf, stdin)
		targets = []string{target.Stdin}
	}
	for _, root := range op.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			fail(err)
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			fail(err)
		}
		mf = append(mf, rf)
	}
	df, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		fail(err)
	}
	mf = append(mf, df)

	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
		compiler.OptionWithLogger(logger),
	)
	if err != nil {
		fail(err)
	}

	out, err := c.Compile(ctx, &api.CompileRequest{
		Files:     targets,
		ParseOnly: op.ParseOnly,
	})
	if err != nil {
		fail(err)
	}

	for _, unit := range out.Units {
		if op.DumpTree {
			if err := dumpTree(os.Stdout, *unit.Program, op.TreeFormat); err != nil {
				fail(err)
			}
		}
		if unit.Module == nil {
			continue
		}
		if op.DumpIR {
			fmt.Print(unit.Module.String())
		}
		if op.ParseOnly || ((op.DumpTree || op.DumpIR) && op.Output == "") {
			continue
		}
		req := backend.Request{
			Triple:   triple,
			FileType: fileType,
			Output:   outputPath(op.Output, unit.URI, fileType, len(out.Units) > 1),
		}
		logger.Debug("emitting", "uri", unit.URI, "type", fileType.String(), "output", req.Output)
		if err := backend.New(fileType, op.LLC, os.Stdout).Emit(ctx, unit.Module, req); err != nil {
			fail(err)
		}
	}
}

// readLine reads the one line of source given on standard input. A terminal
// gets line editing; redirected input is read up to the first newline at any
// length.
func readLine(stdin *os.File) (string, error) {
	if info, err := stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		ln := liner.NewLiner()
		defer ln.Close()
		return ln.Prompt("")
	}
	return readPipedLine(stdin)
}

func readPipedLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func deparseExpr(source string) (string, error) {
	e, err := parser.ParseExpr(source)
	if err != nil {
		return "", err
	}
	return ast.Deparse(e), nil
}

func dumpTree(w io.Writer, p ast.Program, format string) error {
	switch format {
	case "json":
		b, err := ast.MarshalJSON(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "source":
		_, err := io.WriteString(w, ast.Deparse(p))
		return err
	default:
		ast.Dump(w, p)
		return nil
	}
}

// outputPath picks where a unit's artifact goes. Without an explicit output
// the artifact is named after the source, in the working directory, and
// standard input goes back to standard output.
func outputPath(output string, uri string, ft backend.FileType, many bool) string {
	if output == "" && uri == target.Stdin {
		return backend.StdoutPath
	}
	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri)) + ft.Extension()
	switch {
	case output == "":
		return name
	case many && output != backend.StdoutPath:
		return filepath.Join(output, name)
	default:
		return output
	}
}

func fail(err error) {
	var me exc.MultiException
	if errors.As(err, &me) {
		for _, err := range me {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
