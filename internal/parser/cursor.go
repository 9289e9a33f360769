// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package parser turns minic source text into an ast.Program. Every rule is
// a function from a Cursor to a new Cursor plus a value, so backing out of a
// failed attempt is just a matter of keeping the old Cursor.
package parser

import (
	"strings"
	"unicode/utf8"
)

// Cursor is an immutable position within a source text. The offset is
// always on a UTF-8 boundary or at the end of the text.
type Cursor struct {
	text   string
	offset int
}

func NewCursor(text string) Cursor {
	return Cursor{text: text}
}

// Text returns the whole source the cursor points into.
func (c Cursor) Text() string {
	return c.text
}

func (c Cursor) Offset() int {
	return c.offset
}

// Rest returns the unread remainder of the source.
func (c Cursor) Rest() string {
	return c.text[c.offset:]
}

func (c Cursor) AtEnd() bool {
	return c.offset >= len(c.text)
}

func (c Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Rest(), s)
}

// Head returns the next rune, or utf8.RuneError with a zero size at the end
// of input.
func (c Cursor) Head() (rune, int) {
	if c.AtEnd() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.Rest())
}

// Tail returns the cursor moved past the next rune.
func (c Cursor) Tail() Cursor {
	_, size := c.Head()
	return c.Advance(size)
}

// Advance moves the cursor forward by n bytes, stopping at the end of the
// text.
func (c Cursor) Advance(n int) Cursor {
	next := c.offset + n
	if next > len(c.text) {
		next = len(c.text)
	}
	return Cursor{text: c.text, offset: next}
}

// takeWhile returns the cursor after the longest run of runes satisfying
// keep, along with that run.
func (c Cursor) takeWhile(keep func(rune) bool) (Cursor, string) {
	next := c
	for !next.AtEnd() {
		r, size := next.Head()
		if !keep(r) {
			break
		}
		next = next.Advance(size)
	}
	return next, c.text[c.offset:next.offset]
}
