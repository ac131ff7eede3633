// Package frontend implements the reference mini-C front end.
//
// Design: Minimal, focused on exercising the semantic actions. Declarations,
// functions, blocks, if/else, while, for, break/continue, return and C
// expressions are translated straight into quads as they are parsed.
package frontend

import (
	"github.com/GriffinCanCode/quadc/pkg/compile"
	"github.com/GriffinCanCode/quadc/pkg/logger"
)

// Compile translates source into a fresh context.
// The context is returned even on error so callers can inspect what was
// produced before the first diagnostic.
func Compile(file, source string) (*compile.Context, error) {
	ctx := compile.New()
	err := CompileInto(ctx, file, source)
	return ctx, err
}

// CompileInto translates source into an existing context, appending to its
// scopes and quads
func CompileInto(ctx *compile.Context, file, source string) error {
	logger.LogPhase("translate")
	start := ctx.NextQuad()

	if err := NewParser(ctx, file, source).Parse(); err != nil {
		return err
	}

	logger.Debug("Translated", "file", file, "quads", ctx.NextQuad()-start, "scopes", len(ctx.Scopes()))
	logger.LogPhaseComplete("translate")
	return nil
}
