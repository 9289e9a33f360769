// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"gopkg.microglot.org/minic.go/internal/optional"
)

// Rule parses one construct or fails.
type Rule[T any] func(Cursor) (Cursor, T, error)

// Alternative is one branch of an ordered choice. It declines by returning
// an empty Optional and must not consume input when it does.
type Alternative[T any] func(Cursor) (Cursor, optional.Optional[T], error)

// OptionalGrammar tries each alternative against c and returns the first
// match. When every alternative declines the result is empty and the
// cursor is c.
func OptionalGrammar[T any](c Cursor, alternatives ...Alternative[T]) (Cursor, optional.Optional[T], error) {
	for _, alternative := range alternatives {
		next, result, err := alternative(c)
		if err != nil {
			return c, optional.None[T](), err
		}
		if result.IsPresent() {
			return next, result, nil
		}
	}
	return c, optional.None[T](), nil
}

// Grammar is OptionalGrammar where declining everywhere is an error naming
// the construct.
func Grammar[T any](c Cursor, name string, alternatives ...Alternative[T]) (Cursor, T, error) {
	var zero T
	next, result, err := OptionalGrammar(c, alternatives...)
	if err != nil {
		return c, zero, err
	}
	value, ok := result.Get()
	if !ok {
		return c, zero, Expected(Skip(c), name, 1)
	}
	return next, value, nil
}

// Attempt turns a rule into an alternative that declines, from the original
// cursor, wherever the rule fails.
func Attempt[T any](rule Rule[T]) Alternative[T] {
	return func(c Cursor) (Cursor, optional.Optional[T], error) {
		next, value, err := rule(c)
		if err != nil {
			return c, optional.None[T](), nil
		}
		return next, optional.Some(value), nil
	}
}

// Literal matches a fixed token and yields value for it.
func Literal[T any](token string, value T) Alternative[T] {
	return func(c Cursor) (Cursor, optional.Optional[T], error) {
		next, ok := Text(c, token)
		if !ok {
			return c, optional.None[T](), nil
		}
		return next, optional.Some(value), nil
	}
}

// Word is Literal for keywords.
func Word[T any](word string, value T) Alternative[T] {
	return func(c Cursor) (Cursor, optional.Optional[T], error) {
		next, ok := Keyword(c, word)
		if !ok {
			return c, optional.None[T](), nil
		}
		return next, optional.Some(value), nil
	}
}

// unless declines when token is next, otherwise defers to alternative. It
// keeps "=" from matching the front of "==".
func unless[T any](token string, alternative Alternative[T]) Alternative[T] {
	return func(c Cursor) (Cursor, optional.Optional[T], error) {
		if _, ok := Text(c, token); ok {
			return c, optional.None[T](), nil
		}
		return alternative(c)
	}
}
