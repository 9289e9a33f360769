// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.microglot.org/minic.go/internal/exc"
)

const commentPrefix = "//"

var reserved = map[string]bool{
	"int":    true,
	"void":   true,
	"return": true,
	"if":     true,
	"else":   true,
}

// Skip moves past any mix of line comments and whitespace.
func Skip(c Cursor) Cursor {
	for {
		next := skipSpaces(skipComment(c))
		if next.offset == c.offset {
			return next
		}
		c = next
	}
}

// skipComment moves to the end of a line comment, leaving the newline for
// skipSpaces.
func skipComment(c Cursor) Cursor {
	if !c.HasPrefix(commentPrefix) {
		return c
	}
	end := strings.IndexByte(c.Rest(), '\n')
	if end < 0 {
		return c.Advance(len(c.Rest()))
	}
	return c.Advance(end)
}

func skipSpaces(c Cursor) Cursor {
	next, _ := c.takeWhile(unicode.IsSpace)
	return next
}

// Text skips trivia and then matches literal. On a mismatch the returned
// cursor is positioned after the trivia.
func Text(c Cursor, literal string) (Cursor, bool) {
	c = Skip(c)
	if c.HasPrefix(literal) {
		return c.Advance(len(literal)), true
	}
	return c, false
}

// Keyword is Text for words: the match must not run on into an identifier,
// so "returnx" never matches "return".
func Keyword(c Cursor, word string) (Cursor, bool) {
	c = Skip(c)
	if !c.HasPrefix(word) {
		return c, false
	}
	next := c.Advance(len(word))
	if r, size := next.Head(); size > 0 && isIdentifierRune(r) {
		return c, false
	}
	return next, true
}

// Consume is Text where a mismatch is an error naming literal.
func Consume(c Cursor, literal string) (Cursor, error) {
	next, ok := Text(c, literal)
	if !ok {
		return c, Expected(next, literal, len(literal))
	}
	return next, nil
}

// Expected builds the error for a failed match at c. The message quotes
// length bytes of source followed by the rest of the input.
func Expected(c Cursor, name string, length int) exc.Exception {
	end := c.offset + length
	if end > len(c.text) {
		end = len(c.text)
	}
	for end < len(c.text) && !utf8.RuneStart(c.text[end]) {
		end = end + 1
	}
	excerpt := c.text[c.offset:end]
	rest := c.text[end:]
	return exc.New(
		exc.LocationAt(c.text, c.offset, end-c.offset),
		exc.CodeExpected,
		fmt.Sprintf("Expected `%s`: %s%s", name, excerpt, rest),
	)
}

// Identifier = [A-Za-z_][A-Za-z0-9_]* except reserved words
func Identifier(c Cursor) (Cursor, string, error) {
	c = Skip(c)
	if r, size := c.Head(); size == 0 || !isIdentifierStart(r) {
		return c, "", Expected(c, "identifier", 1)
	}
	next, name := c.takeWhile(isIdentifierRune)
	if reserved[name] {
		return c, "", Expected(c, "identifier", len(name))
	}
	return next, name, nil
}

func isIdentifierStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
