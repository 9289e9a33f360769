// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minic.go/internal/optional"
)

func TestDeparseExpr(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		node     any
		expected string
	}{
		{
			name:     "literal",
			node:     IntLiteral{Value: 4294967295},
			expected: "4294967295",
		},
		{
			name: "nested binary",
			node: BinaryOp{
				LHS: IntLiteral{Value: 7},
				RHS: BinaryOp{LHS: VarRef{Name: "a"}, RHS: IntLiteral{Value: 1}, Op: OpSub},
				Op:  OpMul,
			},
			expected: "(7 * (a - 1))",
		},
		{
			name:     "return",
			node:     Return{Value: BinaryOp{LHS: IntLiteral{Value: 1}, RHS: IntLiteral{Value: 2}, Op: OpLe}},
			expected: "return (1 <= 2)",
		},
		{
			name:     "declaration without initialiser",
			node:     Decl{Type: TypeInt, Name: "a"},
			expected: "int a",
		},
		{
			name:     "declaration with initialiser",
			node:     Decl{Type: TypeInt, Name: "a", Init: optional.Some[Expr](IntLiteral{Value: 3})},
			expected: "int a = 3",
		},
		{
			name:     "chained assignment",
			node:     Assign{Name: "a", Value: Assign{Name: "b", Value: IntLiteral{Value: 1}}},
			expected: "a = b = 1",
		},
		{
			name: "assignment operand",
			node: BinaryOp{
				LHS: Assign{Name: "a", Value: IntLiteral{Value: 1}},
				RHS: IntLiteral{Value: 2},
				Op:  OpAnd,
			},
			expected: "((a = 1) && 2)",
		},
		{
			name:     "double dereference",
			node:     Deref{Address: Deref{Address: VarRef{Name: "p"}}},
			expected: "**p",
		},
		{
			name:     "type",
			node:     TypeVoid,
			expected: "void",
		},
		{
			name:     "operator",
			node:     OpNe,
			expected: "!=",
		},
		{
			name:     "arg",
			node:     Arg{Type: TypeInt, Name: "x"},
			expected: "int x",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, Deparse(testCase.node))
		})
	}
}

func TestDeparseProgram(t *testing.T) {
	t.Parallel()
	prog := Program{
		Functions: []Function{
			{
				ReturnType: TypeInt,
				Name:       "main",
				Args:       []Arg{{Type: TypeInt, Name: "a"}, {Type: TypeInt, Name: "b"}},
				Body: []Expr{
					If{
						Cond: BinaryOp{LHS: VarRef{Name: "a"}, RHS: VarRef{Name: "b"}, Op: OpGt},
						Then: []Expr{Return{Value: VarRef{Name: "a"}}},
						Else: []Expr{
							If{
								Cond: VarRef{Name: "b"},
								Then: []Expr{Assign{Name: "a", Value: IntLiteral{Value: 0}}},
							},
						},
					},
					Return{Value: VarRef{Name: "b"}},
				},
			},
			{
				ReturnType: TypeVoid,
				Name:       "nothing",
			},
		},
	}
	expected := `int main(int a, int b) {
  if ((a > b)) {
    return a;
  } else {
    if (b) {
      a = 0;
    }
  }
  return b;
}

void nothing() {
}
`
	require.Equal(t, expected, Deparse(prog))
	require.Equal(t, expected, prog.String())
	require.Equal(t, expected, Deparse(&prog))
}

func TestDumps(t *testing.T) {
	t.Parallel()
	prog := Program{
		Functions: []Function{
			{
				ReturnType: TypeInt,
				Name:       "main",
				Body: []Expr{
					Decl{Type: TypeInt, Name: "a", Init: optional.Some[Expr](IntLiteral{Value: 2})},
					Return{Value: Deref{Address: VarRef{Name: "a"}}},
				},
			},
		},
	}

	var buf bytes.Buffer
	Dump(&buf, prog)
	require.Contains(t, buf.String(), "ast.Program{")
	require.Contains(t, buf.String(), `Name: "main"`)

	raw, err := MarshalJSON(prog)
	require.NoError(t, err)
	var decoded struct {
		Functions []struct {
			Name       string           `json:"name"`
			ReturnType string           `json:"returnType"`
			Body       []map[string]any `json:"body"`
		} `json:"functions"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Functions, 1)
	require.Equal(t, "main", decoded.Functions[0].Name)
	require.Equal(t, "int", decoded.Functions[0].ReturnType)
	require.Len(t, decoded.Functions[0].Body, 2)
	require.Equal(t, "decl", decoded.Functions[0].Body[0]["kind"])
	require.Equal(t, "return", decoded.Functions[0].Body[1]["kind"])
	value := decoded.Functions[0].Body[1]["value"].(map[string]any)
	require.Equal(t, "deref", value["kind"])
}
