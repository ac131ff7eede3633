// Package ir implements the quad store.
//
// Design: Linear three-address code, addressed by position, append-only.
// Jump targets start out absent and are filled in by backpatching.
package ir

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/quadc/pkg/logger"
)

var ErrBadAddress = errors.New("quad address out of range")

// Quad is a three-address instruction. An empty operand slot is absent.
type Quad struct {
	Op     Op
	Arg1   string
	Arg2   string
	Result string
}

// Code is the instruction log of one compilation
type Code struct {
	quads []Quad
}

func NewCode() *Code {
	return &Code{}
}

// Emit appends an instruction and returns the address it now lives at
func (c *Code) Emit(op Op, arg1, arg2, result string) int {
	addr := len(c.quads)
	c.quads = append(c.quads, Quad{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
	logger.Debug("Quad emitted",
		"addr", addr,
		"op", op.String(),
		"arg1", arg1,
		"arg2", arg2,
		"result", result)
	return addr
}

// NextQuad returns the address the next Emit will use
func (c *Code) NextQuad() int {
	return len(c.quads)
}

func (c *Code) Len() int {
	return len(c.quads)
}

// At returns the instruction stored at addr
func (c *Code) At(addr int) (Quad, error) {
	if addr < 0 || addr >= len(c.quads) {
		return Quad{}, fmt.Errorf("at %d: %w", addr, ErrBadAddress)
	}
	return c.quads[addr], nil
}

// Quads returns a copy of every instruction in address order
func (c *Code) Quads() []Quad {
	out := make([]Quad, len(c.quads))
	copy(out, c.quads)
	return out
}

// Patch fills the result slot of the quad at addr with target.
// A slot that already holds a value is left alone and patched is false.
func (c *Code) Patch(addr, target int) (patched bool, err error) {
	if addr < 0 || addr >= len(c.quads) {
		return false, fmt.Errorf("patch %d: %w", addr, ErrBadAddress)
	}
	q := &c.quads[addr]
	if q.Result != "" {
		return false, nil
	}
	q.Result = strconv.Itoa(target)
	return true, nil
}
