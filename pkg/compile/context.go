// Package compile holds the state of one compilation run.
//
// Design: Everything the semantic actions touch (scopes, quads, counters)
// hangs off a Context value, so independent compilations never interfere.
package compile

import (
	"fmt"

	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/logger"
	"github.com/GriffinCanCode/quadc/pkg/symtab"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

// GlobalScopeName names the outermost scope
const GlobalScopeName = "global"

// Context is the state threaded through every semantic action
type Context struct {
	Global *symtab.Scope
	Active *symtab.Scope
	Code   *ir.Code

	fn     *Function
	scopes []*symtab.Scope
	temps  int
	labels int
}

// New returns a context with an empty global scope as the active scope
func New() *Context {
	global := symtab.NewScope(GlobalScopeName, nil)
	return &Context{
		Global: global,
		Active: global,
		Code:   ir.NewCode(),
		scopes: []*symtab.Scope{global},
	}
}

// Scopes returns every scope created so far, in creation order
func (c *Context) Scopes() []*symtab.Scope {
	return c.scopes
}

// Emit appends a quad to the context's code
func (c *Context) Emit(op ir.Op, arg1, arg2, result string) int {
	return c.Code.Emit(op, arg1, arg2, result)
}

// NextQuad returns the address of the next quad
func (c *Context) NextQuad() int {
	return c.Code.NextQuad()
}

// Backpatch resolves l to target
func (c *Context) Backpatch(l ir.List, target int) int {
	return c.Code.Backpatch(l, target)
}

// Declare inserts name into the active scope
func (c *Context) Declare(name string, t types.Type) (*symtab.Entry, symtab.Outcome) {
	return c.Active.Insert(name, t)
}

// Lookup resolves name from the active scope outward
func (c *Context) Lookup(name string) (*symtab.Entry, bool) {
	return c.Active.Lookup(name)
}

// GenTemp allocates a temporary in the active scope
func (c *Context) GenTemp(t types.Type) *symtab.Entry {
	return c.Active.GenTemp(t)
}

// NewTemp returns a fresh name from the run-wide temporary counter.
// Unlike GenTemp it declares nothing.
func (c *Context) NewTemp() string {
	name := fmt.Sprintf("t%d", c.temps)
	c.temps++
	return name
}

// NewLabel returns a fresh label name from the run-wide counter
func (c *Context) NewLabel() string {
	name := fmt.Sprintf("L%d", c.labels)
	c.labels++
	return name
}

// OpenScope makes a new block scope nested in the active one the active scope
func (c *Context) OpenScope(name string) *symtab.Scope {
	c.Active = symtab.NewScope(name, c.Active)
	c.scopes = append(c.scopes, c.Active)
	return c.Active
}

// CloseScope returns to the enclosing scope. The global scope is never left.
func (c *Context) CloseScope() {
	if c.Active.Parent == nil {
		logger.Warn("CloseScope called on the global scope")
		return
	}
	c.Active = c.Active.Parent
}
