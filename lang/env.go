package lang

import (
	"iter"
	"maps"
	"slices"

	"github.com/ardnew/permute/lang/token"
)

// Env is the let-binding store of one evaluation: an append-only mapping
// from binding name to the set it was declared with, in declaration order.
//
// Stored sets are never modified. Redefining a name replaces the entry for
// lookups made afterwards; results already derived from the old set are
// unaffected.
type Env struct {
	names []string
	sets  map[string]*token.Set
}

// NewEnv returns an empty store.
func NewEnv() *Env {
	return &Env{sets: make(map[string]*token.Set)}
}

// Define binds name to set.
func (e *Env) Define(name string, set *token.Set) {
	if _, ok := e.sets[name]; !ok {
		e.names = append(e.names, name)
	}

	e.sets[name] = set
}

// Lookup returns the set bound to name.
func (e *Env) Lookup(name string) (*token.Set, bool) {
	if e == nil {
		return nil, false
	}

	set, ok := e.sets[name]

	return set, ok
}

// Len returns the number of distinct names defined.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}

	return len(e.names)
}

// Names returns an iterator over the defined names in first-declaration
// order.
func (e *Env) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		if e == nil {
			return
		}

		for _, name := range e.names {
			if !yield(name) {
				return
			}
		}
	}
}

// All returns an iterator over the defined names and their current sets.
func (e *Env) All() iter.Seq2[string, *token.Set] {
	return func(yield func(string, *token.Set) bool) {
		if e == nil {
			return
		}

		for _, name := range e.names {
			if !yield(name, e.sets[name]) {
				return
			}
		}
	}
}

// clone returns a store with the same entries that can be extended
// independently. Sets are shared.
func (e *Env) clone() *Env {
	c := &Env{
		names: slices.Clone(e.names),
		sets:  maps.Clone(e.sets),
	}

	if c.sets == nil {
		c.sets = make(map[string]*token.Set)
	}

	return c
}
