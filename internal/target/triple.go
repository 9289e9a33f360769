// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/minic.go/internal/exc"
)

// DefaultTriple is used when no target is requested. There is no host
// detection.
const DefaultTriple = "armv7-unknown-linux-gnueabi"

// Triple is a backend target of the form arch-vendor-os[-environment].
type Triple struct {
	Arch        string
	Vendor      string
	OS          string
	Environment string
}

var knownArch = map[string]bool{
	"arm":     true,
	"armv6":   true,
	"armv7":   true,
	"armv7a":  true,
	"thumbv7": true,
	"aarch64": true,
	"i386":    true,
	"i686":    true,
	"x86_64":  true,
	"riscv32": true,
	"riscv64": true,
	"mips":    true,
	"mipsel":  true,
	"wasm32":  true,
}

// ParseTriple validates a target triple.
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || len(parts) > 4 {
		return Triple{}, exc.New(exc.Location{}, exc.CodeUnknownTarget, fmt.Sprintf("target %q is not arch-vendor-os[-environment]", s))
	}
	for _, part := range parts {
		if part == "" {
			return Triple{}, exc.New(exc.Location{}, exc.CodeUnknownTarget, fmt.Sprintf("target %q has an empty component", s))
		}
	}
	if !knownArch[parts[0]] {
		return Triple{}, exc.New(exc.Location{}, exc.CodeUnknownTarget, fmt.Sprintf("unknown architecture %q in target %q", parts[0], s))
	}
	t := Triple{Arch: parts[0], Vendor: parts[1], OS: parts[2]}
	if len(parts) == 4 {
		t.Environment = parts[3]
	}
	return t, nil
}

// MustParseTriple is ParseTriple for constants.
func MustParseTriple(s string) Triple {
	t, err := ParseTriple(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Triple) String() string {
	s := t.Arch + "-" + t.Vendor + "-" + t.OS
	if t.Environment != "" {
		s = s + "-" + t.Environment
	}
	return s
}
