// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationAt(t *testing.T) {
	t.Parallel()
	text := "int main() {\n  return 0\n}\n"
	testCases := []struct {
		name     string
		offset   int
		line     int
		column   int
		expected int
	}{
		{name: "start", offset: 0, line: 1, column: 1, expected: 0},
		{name: "first line", offset: 4, line: 1, column: 5, expected: 4},
		{name: "after newline", offset: 13, line: 2, column: 1, expected: 13},
		{name: "second line", offset: 22, line: 2, column: 10, expected: 22},
		{name: "past the end", offset: 100, line: 4, column: 1, expected: len(text)},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			loc := LocationAt(text, testCase.offset, 1)
			require.Equal(t, testCase.line, loc.Line)
			require.Equal(t, testCase.column, loc.Column)
			require.Equal(t, testCase.expected, loc.Offset)
			require.Equal(t, 1, loc.Length)
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	require.Nil(t, Wrap(Location{}, CodeReadFailure, nil))

	e := Wrap(Location{URI: "/a.c"}, CodeReadFailure, io.ErrUnexpectedEOF)
	require.Equal(t, CodeReadFailure, e.Code())
	require.True(t, errors.Is(e, io.ErrUnexpectedEOF))
	require.Equal(t, "/a.c:0:0 -- M0006: unexpected EOF", e.Error())

	inner := New(Location{URI: "/b.c"}, CodeEOF, "EOF")
	outer := Wrap(Location{URI: "/b.c"}, CodeReadFailure, inner)
	var found Exception
	require.True(t, errors.As(outer, &found))
	require.Equal(t, CodeReadFailure, found.Code())
	require.True(t, errors.Is(outer, inner))
}

func TestWithURI(t *testing.T) {
	t.Parallel()
	require.Nil(t, WithURI(nil, "/a.c"))
	e := New(LocationAt("x\ny", 2, 1), CodeExpected, "Expected `type`: y")
	moved := WithURI(e, "/a.c")
	require.Equal(t, CodeExpected, moved.Code())
	require.Equal(t, "/a.c", moved.Location().URI)
	require.Equal(t, 2, moved.Location().Line)
	require.Equal(t, "/a.c:2:1 -- M0008: Expected `type`: y", moved.Error())
	require.True(t, errors.Is(moved, e))
}

func TestReporter(t *testing.T) {
	t.Parallel()
	r := NewReporter([]string{CodeInvalidNumber})
	require.Nil(t, r.Report(nil))
	require.Nil(t, r.Report(New(Location{}, CodeInvalidNumber, "recorded only")))

	fatal := make(chan Exception, 10)
	var wg sync.WaitGroup
	for x := 0; x < 10; x = x + 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fatal <- r.Report(New(Location{}, CodeExpected, "fatal"))
		}()
	}
	wg.Wait()
	close(fatal)
	for e := range fatal {
		require.NotNil(t, e)
	}
	require.Len(t, r.Reported(), 11)
}

func TestMultiException(t *testing.T) {
	t.Parallel()
	require.Equal(t, "no exceptions", MultiException(nil).Error())
	multi := MultiException{
		New(Location{URI: "/a.c", Line: 1, Column: 2}, CodeExpected, "one"),
		New(Location{URI: "/b.c"}, CodeNoFunctions, "two"),
	}
	require.Equal(t, "/a.c:1:2 -- M0008: one; /b.c:0:0 -- M0101: two", multi.Error())
}
