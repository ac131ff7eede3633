// Package symtab implements scoped symbol tables.
//
// Design: One Scope per lexical block, chained through Parent for shadowing
// lookups. Entries keep declaration order; offsets are assigned on insert.
package symtab

import (
	"fmt"

	"github.com/GriffinCanCode/quadc/pkg/logger"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

// Scope holds the entries declared in one lexical block
type Scope struct {
	Name   string
	Parent *Scope // enclosing scope, used for lookups only

	entries []*Entry
	index   map[string]*Entry
	temps   int
}

// Outcome tells an Insert caller whether a new entry was created
type Outcome int

const (
	Inserted Outcome = iota
	AlreadyDeclared
)

func (o Outcome) String() string {
	if o == AlreadyDeclared {
		return "already declared"
	}
	return "inserted"
}

// NewScope creates an empty scope. parent may be nil.
func NewScope(name string, parent *Scope) *Scope {
	parentName := ""
	if parent != nil {
		parentName = parent.Name
	}
	logger.LogScope(name, parentName)
	return &Scope{
		Name:   name,
		Parent: parent,
		index:  make(map[string]*Entry),
	}
}

// Lookup resolves name in s, then in each enclosing scope in turn.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if e, ok := sc.LookupLocal(name); ok {
			return e, true
		}
	}
	return nil, false
}

// LookupLocal resolves name in s only
func (s *Scope) LookupLocal(name string) (*Entry, bool) {
	e, ok := s.index[name]
	return e, ok
}

// Insert declares name in s. A name already present in s is returned as is
// with AlreadyDeclared; no diagnostic is raised here.
func (s *Scope) Insert(name string, t types.Type) (*Entry, Outcome) {
	if e, ok := s.LookupLocal(name); ok {
		logger.Debug("Symbol already declared", "scope", s.Name, "name", name)
		return e, AlreadyDeclared
	}

	e := &Entry{
		Name:     name,
		Type:     t,
		ElemType: types.Void,
		Size:     t.Size(),
		Offset:   s.Width(),
		scope:    s,
	}
	s.entries = append(s.entries, e)
	s.index[name] = e

	logger.Debug("Symbol inserted",
		"scope", s.Name,
		"name", name,
		"type", t.String(),
		"offset", e.Offset)
	return e, Inserted
}

// GenTemp declares a fresh temporary t0, t1, ... in s.
// Names come from the counter of s, skipping any name visible from s so a
// temporary never shadows a variable.
func (s *Scope) GenTemp(t types.Type) *Entry {
	for {
		name := fmt.Sprintf("t%d", s.temps)
		s.temps++
		if _, taken := s.Lookup(name); taken {
			continue
		}
		e, _ := s.Insert(name, t)
		return e
	}
}

// Width is the sum of the current sizes of all entries in s
func (s *Scope) Width() int {
	w := 0
	for _, e := range s.entries {
		w += e.Size
	}
	return w
}

// Len returns the number of entries declared in s
func (s *Scope) Len() int {
	return len(s.entries)
}

// Entries returns the entries of s, most recently inserted first.
func (s *Scope) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// EntryAt returns the i-th entry in declaration order
func (s *Scope) EntryAt(i int) (*Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return nil, false
	}
	return s.entries[i], true
}

// Depth counts the scopes enclosing s
func (s *Scope) Depth() int {
	d := 0
	for sc := s.Parent; sc != nil; sc = sc.Parent {
		d++
	}
	return d
}
