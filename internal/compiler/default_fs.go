// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/fs"
)

// EnvPath lists extra source roots, separated like PATH.
const EnvPath = "MINIC_PATH"

// NewDefaultFS searches the working directory followed by every root named
// in MINIC_PATH.
func NewDefaultFS(lookup func(string) (string, bool)) (api.FileSystem, error) {
	roots := getDefaultRoots(lookup)
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	roots := []string{"."}
	if extra, ok := lookup(EnvPath); ok {
		for _, root := range filepath.SplitList(extra) {
			if root != "" {
				roots = append(roots, root)
			}
		}
	}
	return roots
}
