package lang

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/permute/lang/token"
)

// Combination is one resolved assignment of loop variables: a mapping from
// binding name to a single token sequence. Combinations are values; [with]
// returns an extended copy and never modifies the receiver.
type Combination struct {
	keys   []string
	values map[string]token.Sequence
	pos    map[string]token.Position // where each key was bound
}

// NewCombination returns a combination of the given name/value pairs,
// bound in order.
func NewCombination(pairs ...Pair) Combination {
	var c Combination

	for _, p := range pairs {
		c = c.with(p.Name, p.Value, token.Position{})
	}

	return c
}

// Pair is a name and its bound value.
type Pair struct {
	Name  string
	Value token.Sequence
}

// Len returns the number of bound names.
func (c Combination) Len() int { return len(c.keys) }

// Lookup returns the sequence bound to name.
func (c Combination) Lookup(name string) (token.Sequence, bool) {
	seq, ok := c.values[name]

	return seq, ok
}

// All returns an iterator over the bound names and values in binding order.
func (c Combination) All() iter.Seq2[string, token.Sequence] {
	return func(yield func(string, token.Sequence) bool) {
		for _, k := range c.keys {
			if !yield(k, c.values[k]) {
				return
			}
		}
	}
}

// String renders c as "{a = x, b = y}".
func (c Combination) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, k := range c.keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(k)
		sb.WriteString(" = ")
		sb.WriteString(c.values[k].String())
	}

	sb.WriteByte('}')

	return sb.String()
}

// boundAt returns where name was bound.
func (c Combination) boundAt(name string) token.Position { return c.pos[name] }

// with returns a copy of c extended with name bound to seq.
func (c Combination) with(
	name string,
	seq token.Sequence,
	at token.Position,
) Combination {
	n := Combination{
		keys:   append(slices.Clip(c.keys), name),
		values: make(map[string]token.Sequence, len(c.values)+1),
		pos:    make(map[string]token.Position, len(c.pos)+1),
	}

	maps.Copy(n.values, c.values)
	maps.Copy(n.pos, c.pos)

	n.values[name] = seq
	n.pos[name] = at

	return n
}
