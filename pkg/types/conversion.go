package types

// Conversion is a single-step primitive conversion
type Conversion int

const (
	IntToFloat Conversion = iota
	FloatToInt
	CharToInt
	IntToChar
	BoolToInt
	IntToBool
)

var conversions = [...]struct {
	from, to Type
	name     string
}{
	IntToFloat: {Int, Float, "int2float"},
	FloatToInt: {Float, Int, "float2int"},
	CharToInt:  {Char, Int, "char2int"},
	IntToChar:  {Int, Char, "int2char"},
	BoolToInt:  {Bool, Int, "bool2int"},
	IntToBool:  {Int, Bool, "int2bool"},
}

// From returns the source type of c
func (c Conversion) From() Type { return conversions[c].from }

// To returns the destination type of c
func (c Conversion) To() Type { return conversions[c].to }

func (c Conversion) String() string { return conversions[c].name }

// ConversionFor returns the direct conversion from one type to another.
func ConversionFor(from, to Type) (Conversion, bool) {
	for i, c := range conversions {
		if c.from == from && c.to == to {
			return Conversion(i), true
		}
	}
	return 0, false
}

// ConversionPath returns the chain of conversions taking from to to.
// Everything routes through Int, so a path is at most two steps long.
// An empty, ok path means the types are already equal.
func ConversionPath(from, to Type) ([]Conversion, bool) {
	if from == to {
		return nil, true
	}
	if c, ok := ConversionFor(from, to); ok {
		return []Conversion{c}, true
	}
	first, ok := ConversionFor(from, Int)
	if !ok {
		return nil, false
	}
	second, ok := ConversionFor(Int, to)
	if !ok {
		return nil, false
	}
	return []Conversion{first, second}, true
}
