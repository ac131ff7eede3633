package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/quadc/pkg/compile"
	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/symtab"
)

// reports selects what writeReports prints
type reports struct {
	symbols bool
	quads   bool
	tac     bool
}

func parseEmit(list string) (reports, error) {
	var r reports
	for _, name := range strings.Split(list, ",") {
		switch strings.TrimSpace(name) {
		case "symbols":
			r.symbols = true
		case "quads":
			r.quads = true
		case "tac":
			r.tac = true
		case "all":
			r = reports{true, true, true}
		case "":
		default:
			return reports{}, fmt.Errorf("unknown report %q", name)
		}
	}
	if r == (reports{}) {
		return r, fmt.Errorf("no reports selected")
	}
	return r, nil
}

func writeReports(w io.Writer, ctx *compile.Context, r reports) error {
	if r.symbols {
		if err := writeSymbols(w, ctx); err != nil {
			return err
		}
	}
	if r.quads {
		if err := ir.WriteDump(w, ctx.Code); err != nil {
			return err
		}
	}
	if r.tac {
		if err := writeTAC(w, ctx.Code); err != nil {
			return err
		}
	}
	return nil
}

// writeSymbols lists the global scope with the function scopes nested under
// it, then every scope no entry owns, such as blocks
func writeSymbols(w io.Writer, ctx *compile.Context) error {
	owned := make(map[*symtab.Scope]bool)
	for _, s := range ctx.Scopes() {
		for _, e := range s.Entries() {
			if e.Nested != nil {
				owned[e.Nested] = true
			}
		}
	}

	for _, s := range ctx.Scopes() {
		if owned[s] {
			continue
		}
		if err := symtab.WriteTables(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeTAC(w io.Writer, c *ir.Code) error {
	if _, err := io.WriteString(w, "\n## Generated 3-Address Code:\n```\n"); err != nil {
		return err
	}
	if err := ir.WriteListing(w, c); err != nil {
		return err
	}
	_, err := io.WriteString(w, "```\n")
	return err
}
