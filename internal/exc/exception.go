// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"
	"strings"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location identifies the offending span of source text. Line and Column
// are 1-based; Offset and Length are in bytes.
type Location struct {
	URI    string
	Offset int
	Length int
	Line   int
	Column int
}

// LocationAt computes the line and column of a byte offset within text.
func LocationAt(text string, offset int, length int) Location {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	column := offset - strings.LastIndexByte(before, '\n')
	return Location{
		Offset: offset,
		Length: length,
		Line:   line,
		Column: column,
	}
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s:%d:%d -- %s: %s", e.location.URI, e.location.Line, e.location.Column, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// WithURI re-homes an exception into the named source while keeping its
// code, message and span.
func WithURI(e Exception, uri string) Exception {
	if e == nil {
		return nil
	}
	loc := e.Location()
	loc.URI = uri
	return &excUnwrap{
		Exception: New(loc, e.Code(), e.Message()),
		cause:     e,
	}
}

// MultiException is the combined error returned when more than one
// exception was reported during a compilation.
type MultiException []Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return "no exceptions"
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
