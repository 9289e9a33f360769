// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package casebook

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtract(t *testing.T) {
	markdown := `# Returns

Some prose that is ignored.

## Case: literal
` + fence + `c
int main() { return 1; }
` + fence + `
` + fence + `deparse
int main() {
  return 1;
}
` + fence + `

## Case: broken
` + fence + `c
int main() { return 0x; }
` + fence + `
` + fence + `error
Expected ` + "`conditional statement`" + `
` + fence + `
` + fence + `
plain fence without a language
` + fence

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	first := cases[0]
	be.Equal(t, first.Name, "literal")
	be.Equal(t, first.Source, "int main() { return 1; }\n")
	be.Equal(t, len(first.Expectations), 1)
	deparse, ok := first.Expectation(FenceDeparse)
	be.True(t, ok)
	be.Equal(t, deparse.Content, "int main() {\n  return 1;\n}")
	be.Equal(t, deparse.Line, 10)
	_, ok = first.Expectation(FenceIR)
	be.True(t, !ok)

	second := cases[1]
	be.Equal(t, second.Name, "broken")
	be.Equal(t, second.Expectations[0].Type, FenceError)
	be.Equal(t, second.Expectations[0].Content, "Expected `conditional statement`")
}

func TestExtractErrors(t *testing.T) {
	testCases := []struct {
		name     string
		markdown string
		message  string
	}{
		{
			name:     "fence outside case",
			markdown: fence + "c\nint main() {}\n" + fence,
			message:  "c fence outside of a case",
		},
		{
			name:     "unknown language",
			markdown: "## Case: x\n" + fence + "rust\nfn main() {}\n" + fence,
			message:  `unknown fence language "rust"`,
		},
		{
			name:     "no source",
			markdown: "## Case: x\n" + fence + "ir\nmodule\n" + fence,
			message:  `case "x" has no source fence`,
		},
		{
			name:     "no expectations",
			markdown: "## Case: x\n" + fence + "c\nint main() {}\n" + fence,
			message:  `case "x" has no expectations`,
		},
		{
			name:     "two sources",
			markdown: "## Case: x\n" + fence + "c\nint a() {}\n" + fence + "\n" + fence + "c\nint b() {}\n" + fence,
			message:  "more than one source fence",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Extract(testCase.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), testCase.message))
		})
	}
}
