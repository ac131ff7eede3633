package compile

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

var ErrNoConversion = errors.New("no conversion between types")

// Convert emits conv applied to name into a fresh temporary of the
// destination type in the active scope, and returns the temporary's name.
func (c *Context) Convert(conv types.Conversion, name string) string {
	tmp := c.GenTemp(conv.To())
	c.Emit(ir.ConversionOp(conv), name, "", tmp.Name)
	return tmp.Name
}

func (c *Context) IntToFloat(name string) string { return c.Convert(types.IntToFloat, name) }
func (c *Context) FloatToInt(name string) string { return c.Convert(types.FloatToInt, name) }
func (c *Context) CharToInt(name string) string  { return c.Convert(types.CharToInt, name) }
func (c *Context) IntToChar(name string) string  { return c.Convert(types.IntToChar, name) }
func (c *Context) BoolToInt(name string) string  { return c.Convert(types.BoolToInt, name) }
func (c *Context) IntToBool(name string) string  { return c.Convert(types.IntToBool, name) }

// Coerce converts name from one type to another, going through Int when no
// direct conversion exists. Equal types return name untouched.
func (c *Context) Coerce(name string, from, to types.Type) (string, error) {
	path, ok := types.ConversionPath(from, to)
	if !ok {
		return "", fmt.Errorf("coerce %s from %s to %s: %w", name, from, to, ErrNoConversion)
	}
	for _, conv := range path {
		name = c.Convert(conv, name)
	}
	return name, nil
}
