package ast

import (
	"strconv"
	"strings"
)

// Sprint renders an expression back into Decaf-like source text. Used by
// tests that want a readable diff instead of a deep struct dump.
func Sprint(e Expr) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *StringLit:
		return `"` + n.Value + `"`
	case *NullLit:
		return "null"
	case *This:
		return "this"
	case *Unary:
		return "(" + n.Op.String() + Sprint(n.Operand) + ")"
	case *Binary:
		return "(" + Sprint(n.Lhs) + " " + n.Op.String() + " " + Sprint(n.Rhs) + ")"
	case *NewArray:
		return "new " + sprintTypeLit(n.ElemType) + "[" + Sprint(n.Length) + "]"
	case *NewClass:
		return "new " + n.ClassName + "()"
	case *VarSel:
		if n.Receiver == nil {
			return n.Name
		}
		return Sprint(n.Receiver) + "." + n.Name
	case *IndexSel:
		return Sprint(n.Array) + "[" + Sprint(n.Index) + "]"
	case *Call:
		var b strings.Builder
		b.WriteString(Sprint(n.Func))
		b.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Sprint(a))
		}
		b.WriteString(")")
		return b.String()
	case *ClassTest:
		return Sprint(n.Obj) + " instanceof " + n.ClassName
	case *ClassCast:
		return "(class " + n.ClassName + ") " + Sprint(n.Obj)
	case *Lambda:
		var b strings.Builder
		b.WriteString("fun(")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(sprintTypeLit(p.TypeLit))
			b.WriteString(" ")
			b.WriteString(p.Name)
		}
		b.WriteString(")")
		if n.Expr != nil {
			b.WriteString(" => ")
			b.WriteString(Sprint(n.Expr))
		} else {
			b.WriteString(" { ... }")
		}
		return b.String()
	default:
		return "<unknown expr>"
	}
}

func sprintTypeLit(t TypeLit) string {
	if t == nil {
		return "var"
	}
	switch n := t.(type) {
	case *TInt:
		return "int"
	case *TBool:
		return "bool"
	case *TString:
		return "string"
	case *TVoid:
		return "void"
	case *TClass:
		return n.Name
	case *TArray:
		return sprintTypeLit(n.Elem) + "[]"
	case *TLambda:
		var parts []string
		for _, p := range n.Params {
			parts = append(parts, sprintTypeLit(p))
		}
		return "(" + strings.Join(parts, ", ") + ")=>" + sprintTypeLit(n.Ret)
	default:
		return "?"
	}
}
