package ir

import (
	"fmt"
	"io"
	"strings"
)

// FuncLabelPrefix marks a label quad that opens a function body
const FuncLabelPrefix = "func_"

// FuncLabel returns the label result naming function name
func FuncLabel(name string) string {
	return FuncLabelPrefix + name
}

// FunctionName reports the function a label quad opens, if any
func (q Quad) FunctionName() (string, bool) {
	if q.Op != OpLabel || !strings.HasPrefix(q.Result, FuncLabelPrefix) {
		return "", false
	}
	return strings.TrimPrefix(q.Result, FuncLabelPrefix), true
}

func target(r string) string {
	if r == "" {
		return "L_"
	}
	return "L" + r
}

// Format renders q as a single three-address statement
func Format(q Quad) string {
	switch q.Op.Class() {
	case ClassAssign:
		return fmt.Sprintf("%s = %s", q.Result, q.Arg1)
	case ClassBinary:
		return fmt.Sprintf("%s = %s %s %s", q.Result, q.Arg1, q.Op.Symbol(), q.Arg2)
	case ClassIndexLoad:
		return fmt.Sprintf("%s = %s[%s]", q.Result, q.Arg1, q.Arg2)
	case ClassIndexStore:
		return fmt.Sprintf("%s[%s] = %s", q.Result, q.Arg1, q.Arg2)
	case ClassGoto:
		return "goto " + target(q.Result)
	case ClassCondJump:
		return fmt.Sprintf("%s %s goto %s", q.Op.Symbol(), q.Arg1, target(q.Result))
	case ClassRelJump:
		return fmt.Sprintf("if %s %s %s goto %s", q.Arg1, q.Op.Symbol(), q.Arg2, target(q.Result))
	case ClassParam:
		return "param " + q.Arg1
	case ClassCall:
		if q.Result == "" {
			return fmt.Sprintf("call %s, %s", q.Arg1, q.Arg2)
		}
		return fmt.Sprintf("%s = call %s, %s", q.Result, q.Arg1, q.Arg2)
	case ClassReturn:
		if q.Arg1 == "" {
			return "return"
		}
		return "return " + q.Arg1
	case ClassUnary:
		return fmt.Sprintf("%s = %s %s", q.Result, q.Op.Symbol(), q.Arg1)
	case ClassConversion:
		return fmt.Sprintf("%s = %s(%s)", q.Result, q.Op.Symbol(), q.Arg1)
	case ClassLabel:
		if name, ok := q.FunctionName(); ok {
			return "Function: " + name
		}
		return q.Result + ":"
	default:
		return strings.TrimSpace(strings.Join([]string{q.Op.String(), q.Arg1, q.Arg2, q.Result}, " "))
	}
}

// WriteListing renders c as address-prefixed three-address code.
// Function labels print as a banner line without an address.
func WriteListing(w io.Writer, c *Code) error {
	var b strings.Builder
	for addr, q := range c.quads {
		if name, ok := q.FunctionName(); ok {
			fmt.Fprintf(&b, "Function: %s\n", name)
			continue
		}
		fmt.Fprintf(&b, "L%-3d: %s\n", addr, Format(q))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func slot(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}

// WriteDump renders every field of every quad, one row per address
func WriteDump(w io.Writer, c *Code) error {
	var b strings.Builder
	b.WriteString("\nQuad Array:\n")
	b.WriteString("Index\tOperator\tArg1\tArg2\tResult\n")
	b.WriteString("----------------------------------------\n")
	for addr, q := range c.quads {
		fmt.Fprintf(&b, "%d\t%s\t\t%s\t%s\t%s\n",
			addr, q.Op, slot(q.Arg1), slot(q.Arg2), slot(q.Result))
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
