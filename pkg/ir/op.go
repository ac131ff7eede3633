package ir

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/GriffinCanCode/quadc/pkg/types"
)

var ErrUnknownOp = errors.New("unknown operator")

// Op is a quad operator
type Op int

const (
	OpInvalid Op = iota

	OpAssign

	// Binary arithmetic and bitwise
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr

	// Arrays
	OpIndexLoad
	OpIndexStore

	// Jumps
	OpGoto
	OpIf
	OpIfFalse
	OpIfLT
	OpIfLE
	OpIfGT
	OpIfGE
	OpIfEQ
	OpIfNE

	// Calls
	OpParam
	OpCall
	OpReturn

	// Unary
	OpNeg
	OpNot
	OpCompl
	OpAddr
	OpDeref

	// Conversions
	OpIntToFloat
	OpFloatToInt
	OpCharToInt
	OpIntToChar
	OpBoolToInt
	OpIntToBool

	OpLabel

	numOps
)

// Class groups operators that render the same way
type Class int

const (
	ClassInvalid Class = iota
	ClassAssign
	ClassBinary
	ClassIndexLoad
	ClassIndexStore
	ClassGoto
	ClassCondJump
	ClassRelJump
	ClassParam
	ClassCall
	ClassReturn
	ClassUnary
	ClassConversion
	ClassLabel
)

type opInfo struct {
	mnemonic string
	class    Class
	symbol   string // operator text in listings
}

var ops = [numOps]opInfo{
	OpInvalid: {"invalid", ClassInvalid, ""},
	OpAssign:  {"=", ClassAssign, "="},

	OpAdd: {"+", ClassBinary, "+"},
	OpSub: {"-", ClassBinary, "-"},
	OpMul: {"*", ClassBinary, "*"},
	OpDiv: {"/", ClassBinary, "/"},
	OpMod: {"%", ClassBinary, "%"},
	OpAnd: {"&", ClassBinary, "&"},
	OpOr:  {"|", ClassBinary, "|"},
	OpXor: {"^", ClassBinary, "^"},
	OpShl: {"<<", ClassBinary, "<<"},
	OpShr: {">>", ClassBinary, ">>"},

	OpIndexLoad:  {"=[]", ClassIndexLoad, ""},
	OpIndexStore: {"[]=", ClassIndexStore, ""},

	OpGoto:    {"goto", ClassGoto, ""},
	OpIf:      {"if", ClassCondJump, "if"},
	OpIfFalse: {"ifFalse", ClassCondJump, "ifFalse"},
	OpIfLT:    {"if<", ClassRelJump, "<"},
	OpIfLE:    {"if<=", ClassRelJump, "<="},
	OpIfGT:    {"if>", ClassRelJump, ">"},
	OpIfGE:    {"if>=", ClassRelJump, ">="},
	OpIfEQ:    {"if==", ClassRelJump, "=="},
	OpIfNE:    {"if!=", ClassRelJump, "!="},

	OpParam:  {"param", ClassParam, ""},
	OpCall:   {"call", ClassCall, ""},
	OpReturn: {"return", ClassReturn, ""},

	OpNeg:   {"uminus", ClassUnary, "-"},
	OpNot:   {"not", ClassUnary, "!"},
	OpCompl: {"compl", ClassUnary, "~"},
	OpAddr:  {"addr", ClassUnary, "&"},
	OpDeref: {"deref", ClassUnary, "*"},

	OpIntToFloat: {"=inttoreal", ClassConversion, "int2float"},
	OpFloatToInt: {"=realtoint", ClassConversion, "float2int"},
	OpCharToInt:  {"=chartoint", ClassConversion, "char2int"},
	OpIntToChar:  {"=inttochar", ClassConversion, "int2char"},
	OpBoolToInt:  {"=booltoint", ClassConversion, "bool2int"},
	OpIntToBool:  {"=inttobool", ClassConversion, "int2bool"},

	OpLabel: {"LABEL", ClassLabel, ""},
}

func (op Op) info() opInfo {
	if op < 0 || op >= numOps {
		return ops[OpInvalid]
	}
	return ops[op]
}

// String returns the mnemonic stored in quads
func (op Op) String() string { return op.info().mnemonic }

// Class returns the rendering family of op
func (op Op) Class() Class { return op.info().class }

// Symbol returns the operator as written in listings
func (op Op) Symbol() string { return op.info().symbol }

// IsJump reports whether op's result slot holds a jump target
func (op Op) IsJump() bool {
	switch op.Class() {
	case ClassGoto, ClassCondJump, ClassRelJump:
		return true
	}
	return false
}

var convOps = map[types.Conversion]Op{
	types.IntToFloat: OpIntToFloat,
	types.FloatToInt: OpFloatToInt,
	types.CharToInt:  OpCharToInt,
	types.IntToChar:  OpIntToChar,
	types.BoolToInt:  OpBoolToInt,
	types.IntToBool:  OpIntToBool,
}

// ConversionOp returns the operator that performs c
func ConversionOp(c types.Conversion) Op {
	return convOps[c]
}

var binarySymbols = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod,
	"&": OpAnd, "|": OpOr, "^": OpXor, "<<": OpShl, ">>": OpShr,
}

var relSymbols = map[string]Op{
	"<": OpIfLT, "<=": OpIfLE, ">": OpIfGT, ">=": OpIfGE, "==": OpIfEQ, "!=": OpIfNE,
}

// BinaryOp maps a source operator such as "+" or "<<" onto its quad operator
func BinaryOp(sym string) (Op, bool) {
	op, ok := binarySymbols[sym]
	return op, ok
}

// RelJump maps a relational operator such as "<=" onto its conditional jump
func RelJump(sym string) (Op, bool) {
	op, ok := relSymbols[sym]
	return op, ok
}

// relJumpPattern also accepts the older spellings "if<goto" and "if< goto"
var relJumpPattern = regexp2.MustCompile(`^if\s*(?<rel><=|>=|==|!=|<|>)\s*(?:goto)?$`, regexp2.None)

var mnemonics = func() map[string]Op {
	m := make(map[string]Op, numOps)
	for op := OpAssign; op < numOps; op++ {
		m[op.String()] = op
	}
	return m
}()

// ParseOp maps a mnemonic back onto its operator
func ParseOp(text string) (Op, error) {
	if op, ok := mnemonics[text]; ok {
		return op, nil
	}

	m, err := relJumpPattern.FindStringMatch(text)
	if err != nil {
		return OpInvalid, fmt.Errorf("parse op %q: %w", text, err)
	}
	if m != nil {
		if op, ok := RelJump(m.GroupByName("rel").String()); ok {
			return op, nil
		}
	}

	return OpInvalid, fmt.Errorf("parse op %q: %w", text, ErrUnknownOp)
}
