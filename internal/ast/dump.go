// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
	"io"

	"github.com/alecthomas/repr"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Dump writes the tree as a Go value literal.
func Dump(w io.Writer, p Program) {
	repr.New(w, repr.Indent("  ")).Println(p)
}

// ToStruct converts the tree into a protobuf Struct, one object per node
// with a "kind" discriminator.
func ToStruct(p Program) (*structpb.Struct, error) {
	functions := make([]any, 0, len(p.Functions))
	for _, f := range p.Functions {
		args := make([]any, 0, len(f.Args))
		for _, a := range f.Args {
			args = append(args, map[string]any{
				"type": a.Type.String(),
				"name": a.Name,
			})
		}
		functions = append(functions, map[string]any{
			"returnType": f.ReturnType.String(),
			"name":       f.Name,
			"args":       args,
			"body":       exprList(f.Body),
		})
	}
	return structpb.NewStruct(map[string]any{
		"functions": functions,
	})
}

// MarshalJSON renders ToStruct output with protojson.
func MarshalJSON(p Program) ([]byte, error) {
	s, err := ToStruct(p)
	if err != nil {
		return nil, fmt.Errorf("converting tree: %w", err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

func exprList(es []Expr) []any {
	out := make([]any, 0, len(es))
	for _, e := range es {
		out = append(out, exprValue(e))
	}
	return out
}

func exprValue(e Expr) map[string]any {
	switch n := e.(type) {
	case IntLiteral:
		return map[string]any{"kind": "int", "value": n.Value}
	case BinaryOp:
		return map[string]any{
			"kind": "binary",
			"op":   n.Op.String(),
			"lhs":  exprValue(n.LHS),
			"rhs":  exprValue(n.RHS),
		}
	case Return:
		return map[string]any{"kind": "return", "value": exprValue(n.Value)}
	case If:
		return map[string]any{
			"kind": "if",
			"cond": exprValue(n.Cond),
			"then": exprList(n.Then),
			"else": exprList(n.Else),
		}
	case VarRef:
		return map[string]any{"kind": "var", "name": n.Name}
	case Decl:
		m := map[string]any{"kind": "decl", "type": n.Type.String(), "name": n.Name}
		if init, ok := n.Init.Get(); ok {
			m["init"] = exprValue(init)
		}
		return m
	case Assign:
		return map[string]any{"kind": "assign", "name": n.Name, "value": exprValue(n.Value)}
	case Deref:
		return map[string]any{"kind": "deref", "address": exprValue(n.Address)}
	default:
		return map[string]any{"kind": fmt.Sprintf("%T", e)}
	}
}
