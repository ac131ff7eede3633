// Package types implements the primitive type system.
//
// Design: Closed set of eight tags, fixed sizes, total promotion lattice.
package types

// Type is a primitive type tag
type Type int

const (
	Void Type = iota
	Char
	Int
	Float
	Pointer
	Array
	Function
	Bool
)

var names = [...]string{
	Void:     "void",
	Char:     "char",
	Int:      "int",
	Float:    "float",
	Pointer:  "ptr",
	Array:    "array",
	Function: "function",
	Bool:     "bool",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

// Size returns the canonical size of t in bytes.
// Array is a marker: callers set the real size once length and element
// type are known.
func (t Type) Size() int {
	switch t {
	case Char, Bool, Array:
		return 1
	case Int, Pointer:
		return 4
	case Float:
		return 8
	default:
		return 0
	}
}

// IsNumeric reports whether t takes part in arithmetic
func (t Type) IsNumeric() bool {
	return t == Char || t == Int || t == Float
}

// Parse maps a source-level type keyword onto its tag
func Parse(name string) (Type, bool) {
	switch name {
	case "void":
		return Void, true
	case "char":
		return Char, true
	case "int":
		return Int, true
	case "float", "double":
		return Float, true
	case "bool", "_Bool":
		return Bool, true
	case "ptr":
		return Pointer, true
	}
	return Void, false
}

// Unify returns the promoted type of a binary operation on a and b.
// ok is false when the pair is incompatible; the returned type is then Void
// and must not be confused with a genuine void value.
func Unify(a, b Type) (t Type, ok bool) {
	switch {
	case a == b:
		return a, true
	case (a == Int && b == Float) || (a == Float && b == Int):
		return Float, true
	case (a == Char && b == Int) || (a == Int && b == Char):
		return Int, true
	case a == Pointer || b == Pointer:
		return Pointer, true
	case a == Bool || b == Bool:
		return Bool, true
	}
	return Void, false
}
