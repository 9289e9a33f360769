// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.microglot.org/minic.go/internal/api"
	"gopkg.microglot.org/minic.go/internal/exc"
)

var _ api.FileSystem = &FileSystemMemory{}

// FileSystemMemory keeps file content in memory. Opening a path that is a
// prefix of stored paths, ending at a slash, behaves like opening a
// directory.
type FileSystemMemory struct {
	lock  sync.RWMutex
	files map[string]string
}

func NewFileSystemMemory(files map[string]string) *FileSystemMemory {
	m := &FileSystemMemory{files: make(map[string]string, len(files))}
	for path, content := range files {
		m.files[path] = content
	}
	return m
}

func (m *FileSystemMemory) Open(ctx context.Context, uri string) ([]api.File, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if content, ok := m.files[uri]; ok {
		return []api.File{NewFileString(uri, content, KindOf(uri))}, nil
	}
	prefix := strings.TrimSuffix(uri, "/") + "/"
	var paths []string
	for path := range m.files {
		if strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], "/") && KindOf(path) != api.FileKindNone {
			paths = append(paths, path)
		}
	}
	if len(paths) < 1 {
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("%s does not exist", uri))
	}
	sort.Strings(paths)
	files := make([]api.File, 0, len(paths))
	for _, path := range paths {
		files = append(files, NewFileString(path, m.files[path], KindOf(path)))
	}
	return files, nil
}

func (m *FileSystemMemory) Write(ctx context.Context, uri string, content string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.files[uri] = content
	return nil
}
