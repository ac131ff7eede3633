package compile

import (
	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/logger"
	"github.com/GriffinCanCode/quadc/pkg/symtab"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

// Function is a function definition whose body is being translated
type Function struct {
	Entry  *symtab.Entry
	Scope  *symtab.Scope
	Return types.Type

	outer *Function
}

// BeginFunction declares name in the active scope, opens its body scope and
// emits the function label. The outcome reports a clash with an existing
// name; the body scope is opened either way.
func (c *Context) BeginFunction(name string, ret types.Type) (*Function, symtab.Outcome) {
	entry, outcome := c.Declare(name, types.Function)
	if outcome == symtab.Inserted {
		entry.SetElemType(ret)
	}

	body := symtab.NewScope(name, c.Active)
	c.scopes = append(c.scopes, body)
	// a clash with a variable leaves the variable untouched
	if entry.Type == types.Function && entry.Nested == nil {
		entry.SetNested(body)
	}

	fn := &Function{
		Entry:  entry,
		Scope:  body,
		Return: ret,
		outer:  c.fn,
	}
	c.fn = fn
	c.Active = body
	c.Emit(ir.OpLabel, "", "", ir.FuncLabel(name))

	logger.Debug("Function opened", "name", name, "returns", ret.String())
	return fn, outcome
}

// DeclareParam adds a parameter to fn's body scope
func (c *Context) DeclareParam(fn *Function, name string, t types.Type) (*symtab.Entry, symtab.Outcome) {
	e, outcome := fn.Scope.Insert(name, t)
	if outcome == symtab.Inserted && fn.Entry.Nested == fn.Scope {
		fn.Entry.ParamCount++
	}
	return e, outcome
}

// EndFunction closes fn and makes its enclosing scope active again
func (c *Context) EndFunction(fn *Function) {
	c.Active = fn.Scope.Parent
	c.fn = fn.outer
	logger.Debug("Function closed",
		"name", fn.Entry.Name,
		"params", fn.Entry.ParamCount,
		"frame", fn.Scope.Width())
}

// Function returns the function being translated, or nil at top level
func (c *Context) Function() *Function {
	return c.fn
}
