// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package casebook reads golden test cases out of Markdown documents.
//
// A case starts at a heading of the form "Case: name". It holds exactly one
// ```c fence with the program under test and one or more expectation
// fences: ```deparse, ```ir, ```llvm or ```error. Prose and unlabelled
// fences are ignored.
package casebook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const casePrefix = "Case: "

type FenceType string

const (
	FenceSource  FenceType = "c"
	FenceDeparse FenceType = "deparse"
	FenceIR      FenceType = "ir"
	FenceLLVM    FenceType = "llvm"
	FenceError   FenceType = "error"
)

var expectations = map[FenceType]bool{
	FenceDeparse: true,
	FenceIR:      true,
	FenceLLVM:    true,
	FenceError:   true,
}

type Expectation struct {
	Type    FenceType
	Content string
	Line    int
}

type Case struct {
	Name         string
	Line         int
	Source       string
	Expectations []Expectation
}

// Expectation returns the first expectation of the given type.
func (c Case) Expectation(ft FenceType) (Expectation, bool) {
	for _, e := range c.Expectations {
		if e.Type == ft {
			return e, true
		}
	}
	return Expectation{}, false
}

// Extract returns the cases of a Markdown document in document order.
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, casePrefix) {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, casePrefix)),
				Line: lineOf(n, source),
			}
		case *ast.FencedCodeBlock:
			language := FenceType(n.Language(source))
			line := lineOf(n, source)
			if language == "" {
				return ast.WalkContinue, nil
			}
			if language != FenceSource && !expectations[language] {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q", line, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, language)
			}
			content := fenceContent(n, source)
			if language == FenceSource {
				if current.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: case %q has more than one source fence", line, current.Name)
				}
				current.Source = content
				return ast.WalkContinue, nil
			}
			current.Expectations = append(current.Expectations, Expectation{
				Type:    language,
				Content: strings.TrimRight(content, "\n"),
				Line:    line,
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading casebook: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func validate(c *Case) error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("line %d: case %q has no source fence", c.Line, c.Name)
	}
	if len(c.Expectations) == 0 {
		return fmt.Errorf("line %d: case %q has no expectations", c.Line, c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for x := 0; x < lines.Len(); x = x + 1 {
		line := lines.At(x)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf is the 1-based line of a block's first content line, or 1 for a
// block without content.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}
