// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"net/url"
	"path/filepath"
)

// Normalize converts a compile target into a standard form.
//
// Targets may be any valid URI or file path. File paths and file URIs are
// made absolute. Other URIs are left as-is for some other file system to
// handle. The single name "-" stands for standard input and is kept.
func Normalize(target string) string {
	if target == Stdin {
		return target
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

// Stdin is the target name used for source read from standard input.
const Stdin = "-"
