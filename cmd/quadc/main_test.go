package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/quadc/pkg/frontend"
	"github.com/GriffinCanCode/quadc/pkg/logger"
)

func TestParseEmit(t *testing.T) {
	tests := []struct {
		list    string
		want    reports
		wantErr bool
	}{
		{"symbols,quads,tac", reports{true, true, true}, false},
		{"tac", reports{tac: true}, false},
		{"symbols, quads", reports{symbols: true, quads: true}, false},
		{"all", reports{true, true, true}, false},
		{"", reports{}, true},
		{"asm", reports{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got, err := parseEmit(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEmit(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseEmit(%q) = %+v, want %+v", tt.list, got, tt.want)
			}
		})
	}
}

func TestLogFlagsConfig(t *testing.T) {
	lf := logFlags{debug: true, format: "json"}
	cfg := lf.config()
	if cfg.Level != logger.LevelDebug || !cfg.AddSource || cfg.Format != "json" {
		t.Errorf("debug config = %+v", cfg)
	}

	lf = logFlags{verbose: true, format: "text"}
	if cfg := lf.config(); cfg.Level != logger.LevelInfo {
		t.Errorf("verbose level = %v", cfg.Level)
	}

	lf = logFlags{format: "xml"}
	if err := lf.init(); err == nil {
		t.Error("expected error for bad log format")
	}
}

func TestWriteReports(t *testing.T) {
	ctx, err := frontend.Compile("test.c", "int x; x = 1;")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeReports(&buf, ctx, reports{tac: true}); err != nil {
		t.Fatal(err)
	}
	want := "\n## Generated 3-Address Code:\n```\nL0  : x = 1\n```\n"
	if buf.String() != want {
		t.Errorf("tac report = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := writeReports(&buf, ctx, reports{true, true, true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"### Symbol Table: global", "Quad Array:", "0\t=\t\t1\tNULL\tx", "L0  : x = 1"} {
		if !strings.Contains(out, s) {
			t.Errorf("reports missing %q:\n%s", s, out)
		}
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"int x;", false},
		{"while (x) {", true},
		{"while (x) {\n x = 1;\n}", false},
		{"f(1,", true},
		{"/* open", true},
		{"}", false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.src); got != tt.want {
			t.Errorf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestSession(t *testing.T) {
	var buf bytes.Buffer
	s := newSession(&buf)

	steps := []struct {
		input string
		want  string
	}{
		{"int x; x = 1;", "L0  : x = 1\n"},
		{":emit goto", "L1  : goto L_\n"},
		{":patch 1 0", "L1  : goto L0\n"},
		{":patch 1 0", "L1 already has a target\n"},
		{":emit if< x 10 -", "L2  : if x < 10 goto L_\n"},
		{":emit bogus", "error: parse op \"bogus\": unknown operator\n"},
		{":patch 9 0", "error: patch 9: quad address out of range\n"},
		{"y = 2;", "parse errors: [line 1, col 1: undeclared identifier 'y']\n"},
	}

	for _, st := range steps {
		buf.Reset()
		if st.input[0] == ':' {
			if s.command(st.input) {
				t.Fatalf("%q ended the session", st.input)
			}
		} else {
			s.eval(st.input)
		}
		if buf.String() != st.want {
			t.Errorf("%q printed %q, want %q", st.input, buf.String(), st.want)
		}
	}

	buf.Reset()
	s.command(":symbols")
	if !strings.Contains(buf.String(), "### Symbol Table: global") {
		t.Errorf(":symbols printed %q", buf.String())
	}

	s.command(":reset")
	if s.ctx.NextQuad() != 0 {
		t.Errorf("NextQuad after reset = %d", s.ctx.NextQuad())
	}
	if !s.command(":quit") {
		t.Error(":quit did not end the session")
	}
}

func TestCompileCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.c")
	out := filepath.Join(dir, "prog.txt")
	if err := os.WriteFile(src, []byte("int x; x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer logger.Reset()

	if code := compileCmd([]string{"-emit", "tac", "-o", out, src}); code != 0 {
		t.Fatalf("compileCmd exit = %d", code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\n## Generated 3-Address Code:\n```\nL0  : x = 1\n```\n"; string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}

	bad := filepath.Join(dir, "bad.c")
	if err := os.WriteFile(bad, []byte("y = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := compileCmd([]string{"-o", out, bad}); code != 1 {
		t.Errorf("compileCmd on bad source exit = %d, want 1", code)
	}
	if code := compileCmd(nil); code != 2 {
		t.Errorf("compileCmd without input exit = %d, want 2", code)
	}
}

func TestLogDir(t *testing.T) {
	dir := t.TempDir()
	lf := logFlags{format: "text", dir: dir}
	if err := lf.init(); err != nil {
		t.Fatal(err)
	}
	logger.Info("to file")
	logger.Reset()

	data, err := os.ReadFile(filepath.Join(dir, "quadc.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %s", data)
	}
}

func TestSymbolOrder(t *testing.T) {
	ctx, err := frontend.Compile("test.c", "int f() { { int b; } return 1; } int g() { return 2; }")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeSymbols(&buf, ctx); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	// function tables follow global, unowned block tables come last
	order := []string{"Symbol Table: global\n", "Symbol Table: f\n", "Symbol Table: g\n", "Symbol Table: f.block1\n"}
	last := -1
	for _, h := range order {
		i := strings.Index(out, h)
		if i < 0 {
			t.Fatalf("missing %q:\n%s", h, out)
		}
		if i < last {
			t.Errorf("%q out of order:\n%s", h, out)
		}
		last = i
	}
	if n := strings.Count(out, "### Symbol Table:"); n != 4 {
		t.Errorf("got %d tables, want 4", n)
	}
}
