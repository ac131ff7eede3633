package types

import "testing"

func TestSizes(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{Void, 0},
		{Char, 1},
		{Int, 4},
		{Float, 8},
		{Pointer, 4},
		{Bool, 1},
		{Array, 1},
		{Function, 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.Size(); got != tt.want {
				t.Errorf("%s.Size() = %d, want %d", tt.typ, got, tt.want)
			}
		})
	}
}

// TestUnify covers the promotion lattice
func TestUnify(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Type
		want   Type
		wantOK bool
	}{
		{"int_float", Int, Float, Float, true},
		{"float_int", Float, Int, Float, true},
		{"char_int", Char, Int, Int, true},
		{"int_char", Int, Char, Int, true},
		{"bool_int", Bool, Int, Bool, true},
		{"pointer_char", Pointer, Char, Pointer, true},
		{"char_pointer", Char, Pointer, Pointer, true},
		{"pointer_bool", Pointer, Bool, Pointer, true},
		{"same", Float, Float, Float, true},
		{"void_void", Void, Void, Void, true},
		{"array_function", Array, Function, Void, false},
		{"char_float", Char, Float, Void, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Unify(tt.a, tt.b)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Unify(%s, %s) = (%s, %v), want (%s, %v)",
					tt.a, tt.b, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestConversionPath(t *testing.T) {
	tests := []struct {
		name     string
		from, to Type
		want     []Conversion
		wantOK   bool
	}{
		{"identity", Int, Int, nil, true},
		{"direct", Int, Float, []Conversion{IntToFloat}, true},
		{"char_float", Char, Float, []Conversion{CharToInt, IntToFloat}, true},
		{"bool_char", Bool, Char, []Conversion{BoolToInt, IntToChar}, true},
		{"float_bool", Float, Bool, []Conversion{FloatToInt, IntToBool}, true},
		{"pointer_int", Pointer, Int, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConversionPath(tt.from, tt.to)
			if ok != tt.wantOK {
				t.Fatalf("ConversionPath(%s, %s) ok = %v, want %v", tt.from, tt.to, ok, tt.wantOK)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ConversionPath(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("step %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, name := range []string{"void", "char", "int", "float", "bool"} {
		typ, ok := Parse(name)
		if !ok || typ.String() != name {
			t.Errorf("Parse(%q) = (%s, %v)", name, typ, ok)
		}
	}
	if _, ok := Parse("struct"); ok {
		t.Error("Parse(\"struct\") should fail")
	}
}
