package frontend

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/quadc/pkg/compile"
	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

func formatted(ctx *compile.Context) []string {
	var out []string
	for _, q := range ctx.Code.Quads() {
		out = append(out, ir.Format(q))
	}
	return out
}

func mustCompile(t *testing.T, source string) *compile.Context {
	t.Helper()
	ctx, err := Compile("test.c", source)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return ctx
}

// TestTranslation checks the quads emitted for each control construct
func TestTranslation(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "if_else",
			source: "int a; int b; if (a < b) a = 1; else b = 2;",
			want: []string{
				"if a < b goto L2",
				"goto L4",
				"a = 1",
				"goto L5",
				"b = 2",
			},
		},
		{
			name:   "while_and",
			source: "int i; int n; while (i < n && n > 0) i = i + 1;",
			want: []string{
				"if i < n goto L2",
				"goto L7",
				"if n > 0 goto L4",
				"goto L7",
				"t0 = i + 1",
				"i = t0",
				"goto L0",
			},
		},
		{
			name:   "or_value",
			source: "bool f; int x; f = x > 1 || x < -1;",
			want: []string{
				"if x > 1 goto L4",
				"goto L2",
				"if x < -1 goto L4",
				"goto L6",
				"t0 = 1",
				"goto L7",
				"t0 = 0",
				"f = t0",
			},
		},
		{
			name:   "for_continue_break",
			source: "int i; for (i = 0; i < 3; i = i + 1) { if (i == 1) continue; break; }",
			want: []string{
				"i = 0",
				"if i < 3 goto L6",
				"goto L11",
				"t0 = i + 1",
				"i = t0",
				"goto L1",
				"if i == 1 goto L8",
				"goto L9",
				"goto L3",
				"goto L11",
				"goto L3",
			},
		},
		{
			name:   "coercion",
			source: "int i; float f; f = i + 2.5;",
			want: []string{
				"t0 = int2float(i)",
				"t1 = t0 + 2.5",
				"f = t1",
			},
		},
		{
			name:   "array",
			source: "int a[10]; int i; a[i] = 5; i = a[2];",
			want: []string{
				"t0 = i * 4",
				"a[t0] = 5",
				"t1 = a[8]",
				"i = t1",
			},
		},
		{
			name:   "code_around_function",
			source: "int x; if (x) x = 1; int f() { return 2; } x = 3;",
			want: []string{
				"if x goto L2",
				"goto L6",
				"x = 1",
				"goto L6",
				"Function: f",
				"return 2",
				"x = 3",
			},
		},
		{
			name:   "straight_line_skips_functions",
			source: "int x; x = 1; int f() { return 1; } int g() { return 2; } x = 2;",
			want: []string{
				"x = 1",
				"goto L6",
				"Function: f",
				"return 1",
				"Function: g",
				"return 2",
				"x = 2",
			},
		},
		{
			name:   "block_temp_keeps_outer_name",
			source: "int t0 = 5; int a; { a = a + 1; a = t0; }",
			want: []string{
				"t0 = 5",
				"t1 = a + 1",
				"a = t1",
				"a = t0",
			},
		},
		{
			name:   "pointer_step",
			source: "int *p; int i; p = p + i;",
			want:   []string{"t0 = p + i", "p = t0"},
		},
		{
			name:   "char_escape",
			source: `char c = '\n';`,
			want:   []string{`c = '\n'`},
		},
		{
			name:   "initializers",
			source: "int x = 5; float y = 3; char c = 'a';",
			want: []string{
				"x = 5",
				"y = 3.0",
				"c = 'a'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := mustCompile(t, tt.source)
			got := formatted(ctx)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d quads, want %d:\n%s", len(got), len(tt.want), strings.Join(got, "\n"))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("quad %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFunctions(t *testing.T) {
	source := `
int add(int a, int b) { return a + b; }
int main() {
	int r;
	r = add(1, 2);
	return r;
}`
	ctx := mustCompile(t, source)

	want := []string{
		"Function: add",
		"t0 = a + b",
		"return t0",
		"Function: main",
		"param 1",
		"param 2",
		"t0 = call add, 2",
		"r = t0",
		"return r",
	}
	got := formatted(ctx)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("quads:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	add, ok := ctx.Global.LookupLocal("add")
	if !ok {
		t.Fatal("add not declared globally")
	}
	if add.Type != types.Function || add.ElemType != types.Int {
		t.Errorf("add = %s returning %s", add.Type, add.ElemType)
	}
	if add.ParamCount != 2 {
		t.Errorf("add.ParamCount = %d, want 2", add.ParamCount)
	}
	if add.Nested == nil || add.Nested.Parent != ctx.Global {
		t.Fatal("add body scope not nested under global")
	}
	if b, ok := add.Nested.LookupLocal("b"); !ok || b.Offset != 4 {
		t.Errorf("parameter b = %+v", b)
	}
	if _, ok := ctx.Global.LookupLocal("r"); ok {
		t.Error("local r leaked into global scope")
	}
	if ctx.Active != ctx.Global {
		t.Errorf("active scope = %s after compilation", ctx.Active.Name)
	}
	if n := len(ctx.Scopes()); n != 3 {
		t.Errorf("len(Scopes()) = %d, want 3", n)
	}
}

func TestVoidFunctionGetsReturn(t *testing.T) {
	ctx := mustCompile(t, "int g; void set(int v) { g = v; }")

	want := []string{"Function: set", "g = v", "return"}
	got := formatted(ctx)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("quads = %q, want %q", got, want)
	}
}

func TestSymbols(t *testing.T) {
	ctx := mustCompile(t, "int a[10]; int i; float f = 3; i = a[i];")

	a, _ := ctx.Global.LookupLocal("a")
	if a.Size != 40 || a.ArrayLen != 10 || a.ElemType != types.Int {
		t.Errorf("a = size %d len %d elem %s", a.Size, a.ArrayLen, a.ElemType)
	}
	i, _ := ctx.Global.LookupLocal("i")
	if i.Offset != 40 {
		t.Errorf("i.Offset = %d, want 40", i.Offset)
	}
	f, _ := ctx.Global.LookupLocal("f")
	if f.Offset != 44 || f.Init == nil || f.Init.String() != "3.0" {
		t.Errorf("f = offset %d init %v", f.Offset, f.Init)
	}
}

func TestBlockScopes(t *testing.T) {
	ctx := mustCompile(t, "int x; { float x; x = 1.5; } x = 2;")

	scopes := ctx.Scopes()
	if len(scopes) != 2 {
		t.Fatalf("len(Scopes()) = %d, want 2", len(scopes))
	}
	inner := scopes[1]
	if inner.Name != "global.block1" || inner.Parent != ctx.Global {
		t.Errorf("inner scope = %s", inner.Name)
	}
	if x, ok := inner.LookupLocal("x"); !ok || x.Type != types.Float {
		t.Errorf("shadowing x = %+v", x)
	}
	want := []string{"x = 1.5", "x = 2"}
	got := formatted(ctx)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("quads = %q, want %q", got, want)
	}
}

func TestCompileIntoAppends(t *testing.T) {
	ctx := compile.New()
	if err := CompileInto(ctx, "repl", "int x;"); err != nil {
		t.Fatal(err)
	}
	if err := CompileInto(ctx, "repl", "x = 1; { int y; }"); err != nil {
		t.Fatal(err)
	}
	if err := CompileInto(ctx, "repl", "{ int z; }"); err != nil {
		t.Fatal(err)
	}

	if ctx.NextQuad() != 1 {
		t.Errorf("NextQuad = %d, want 1", ctx.NextQuad())
	}
	scopes := ctx.Scopes()
	if len(scopes) != 3 || scopes[1].Name == scopes[2].Name {
		t.Errorf("block scopes not distinct: %d scopes", len(scopes))
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"redeclaration", "int x; int x;", "redeclaration of 'x'"},
		{"pointer_plus_float", "int *p; p = p + 1.5;", "invalid operands to '+' (ptr and float)"},
		{"pointer_plus_pointer", "int *p; int *q; p = p + q;", "invalid operands to '+' (ptr and ptr)"},
		{"undeclared", "y = 1;", "undeclared identifier 'y'"},
		{"break_outside_loop", "break;", "break outside loop"},
		{"return_outside_function", "return;", "return outside function"},
		{"argument_count", "int f(int a) { return a; } int r; r = f();", "expects 1 arguments, got 0"},
		{"not_assignable", "int x; 1 = x;", "not assignable"},
		{"void_variable", "void v;", "declared void"},
		{"missing_semicolon", "int x; x = 1", "expected ';'"},
		{"bad_character", "int x; x = 1 @ 2;", "unexpected character"},
		{"unterminated_comment", "int x; /* never closed", "unterminated comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("test.c", tt.source)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "parse errors") {
				t.Errorf("error %q lacks the parse errors prefix", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestErrorLines(t *testing.T) {
	p := NewParser(compile.New(), "test.c", "int x;\n\nz = 3;")
	if err := p.Parse(); err == nil {
		t.Fatal("expected error")
	}
	errs := p.Errors()
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "line 3, col 1:") {
		t.Errorf("errors = %q", errs)
	}
}

func TestLexer(t *testing.T) {
	lex := NewLexer("int x = 'b'; // comment\nx <<= 2.5 != /* c */ y && !z")
	want := []struct {
		typ    TokenType
		lexeme string
	}{
		{INT, "int"}, {NAME, "x"}, {ASSIGN, "="}, {CHARACTER, "b"}, {SEMICOLON, ";"},
		{NAME, "x"}, {SHL, "<<"}, {ASSIGN, "="}, {REAL, "2.5"}, {NE, "!="},
		{NAME, "y"}, {ANDAND, "&&"}, {NOT, "!"}, {NAME, "z"}, {EOF, ""},
	}

	for i, w := range want {
		tok := lex.Next()
		if tok.Type != w.typ || tok.Lexeme != w.lexeme {
			t.Fatalf("token %d = %v %q, want %v %q", i, tok.Type, tok.Lexeme, w.typ, w.lexeme)
		}
	}
}

func TestCharEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`'\n'`, "\n"},
		{`'\0'`, "\x00"},
		{`'\''`, "'"},
		{`'z'`, "z"},
	}
	for _, tt := range tests {
		tok := NewLexer(tt.src).Next()
		if tok.Type != CHARACTER || tok.Lexeme != tt.want {
			t.Errorf("%s lexed as %v %q", tt.src, tok.Type, tok.Lexeme)
		}
	}
}
