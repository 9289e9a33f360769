// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bufio"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// directRequires lists the modules of go.mod's require blocks that are not
// marked indirect.
func directRequires(t *testing.T) []string {
	t.Helper()
	f, err := os.Open("go.mod")
	require.NoError(t, err)
	defer f.Close()

	var mods []string
	inRequire := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "require (":
			inRequire = true
		case line == ")":
			inRequire = false
		case inRequire && line != "" && !strings.HasSuffix(line, "// indirect"):
			mods = append(mods, strings.Fields(line)[0])
		}
	}
	require.NoError(t, scanner.Err())
	return mods
}

func imports(t *testing.T, files ...string) []string {
	t.Helper()
	var paths []string
	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, spec := range f.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			require.NoError(t, err)
			paths = append(paths, path)
		}
	}
	return paths
}

func TestEveryRequireIsImported(t *testing.T) {
	t.Parallel()
	imported := imports(t, "tools.go", "tools_test.go")
	for _, mod := range directRequires(t) {
		found := false
		for _, path := range imported {
			if path == mod || strings.HasPrefix(path, mod+"/") {
				found = true
				break
			}
		}
		require.True(t, found, "%s is required but nothing imports it", mod)
	}
}
