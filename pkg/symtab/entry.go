package symtab

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/quadc/pkg/types"
)

// Entry is one declared name
type Entry struct {
	Name       string
	Type       types.Type
	ElemType   types.Type // element type for arrays and pointer targets
	Size       int
	Offset     int
	ArrayLen   int
	Init       Value  // nil when there is no initial value
	Nested     *Scope // body scope of a function entry
	ParamCount int

	scope *Scope
}

// Scope returns the scope that owns e
func (e *Entry) Scope() *Scope { return e.scope }

// The setters below change exactly one field. Offsets of later entries are
// never recomputed, so size changes must happen before the next Insert.

func (e *Entry) SetType(t types.Type)     { e.Type = t }
func (e *Entry) SetSize(size int)         { e.Size = size }
func (e *Entry) SetOffset(offset int)     { e.Offset = offset }
func (e *Entry) SetInit(v Value)          { e.Init = v }
func (e *Entry) SetArrayLen(n int)        { e.ArrayLen = n }
func (e *Entry) SetElemType(t types.Type) { e.ElemType = t }
func (e *Entry) SetNested(s *Scope)       { e.Nested = s }

// Value is an initial value, tagged by the type it belongs to
type Value interface {
	Type() types.Type
	fmt.Stringer
}

type IntValue int64

func (IntValue) Type() types.Type { return types.Int }
func (v IntValue) String() string { return fmt.Sprintf("%d", int64(v)) }

type FloatValue float64

func (FloatValue) Type() types.Type { return types.Float }
func (v FloatValue) String() string { return fmt.Sprintf("%.1f", float64(v)) }

type CharValue rune

func (CharValue) Type() types.Type { return types.Char }
func (v CharValue) String() string { return strconv.QuoteRune(rune(v)) }

type BoolValue bool

func (BoolValue) Type() types.Type { return types.Bool }
func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}
