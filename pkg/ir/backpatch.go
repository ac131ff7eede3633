package ir

import (
	"github.com/GriffinCanCode/quadc/pkg/logger"
)

// List is a set of quad addresses waiting for the same jump target.
// Order carries no meaning.
type List []int

// MakeList returns a list holding addr alone
func MakeList(addr int) List {
	return List{addr}
}

// Merge concatenates a and b. An empty side yields the other unchanged.
func Merge(a, b List) List {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(List, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Backpatch points every quad in l at target and returns how many result
// slots were filled. Quads whose target is already set are skipped.
func (c *Code) Backpatch(l List, target int) int {
	patched := 0
	for _, addr := range l {
		ok, err := c.Patch(addr, target)
		if err != nil {
			logger.Warn("Backpatch skipped bad address", "addr", addr, "error", err)
			continue
		}
		if !ok {
			logger.Debug("Backpatch left resolved quad alone", "addr", addr, "target", target)
			continue
		}
		patched++
	}
	logger.LogBackpatch(target, len(l), patched)
	return patched
}
