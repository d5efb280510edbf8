package token

import (
	"encoding/binary"
	"iter"
	"strings"

	"github.com/zeebo/xxh3"
)

// Sequence is an ordered run of tokens.
//
// Sequences are treated as immutable: operations that derive a new sequence
// never write through to the receiver's backing array.
type Sequence []Token

// Idents returns a sequence of identifier atoms.
func Idents(names ...string) Sequence {
	seq := make(Sequence, len(names))
	for i, name := range names {
		seq[i] = NewIdent(name)
	}

	return seq
}

// Equal reports whether s and o have the same length and every token is
// pairwise structurally equal.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}

	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}

	return true
}

// Hash returns a structural hash of s consistent with [Sequence.Equal].
func (s Sequence) Hash() uint64 {
	return xxh3.Hash(s.appendCanonical(make([]byte, 0, 16*len(s))))
}

// appendCanonical appends an unambiguous encoding of s to buf.
// Atom text is length-prefixed and groups are bracketed by their token count,
// so distinct trees never share an encoding.
func (s Sequence) appendCanonical(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))

	for _, t := range s {
		buf = append(buf, byte(t.Kind))

		if t.Kind == Group {
			buf = append(buf, byte(t.Delim))
			buf = t.Inner.appendCanonical(buf)

			continue
		}

		buf = binary.AppendUvarint(buf, uint64(len(t.Text)))
		buf = append(buf, t.Text...)
	}

	return buf
}

// Clone returns a deep copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}

	out := make(Sequence, len(s))
	for i, t := range s {
		if t.Kind == Group {
			t.Inner = t.Inner.Clone()
		}

		out[i] = t
	}

	return out
}

// Split divides s on every top-level punctuation token with the given text.
// Separators nested inside groups do not split. A single trailing separator
// does not produce an extra empty part, so "a, b," splits like "a, b".
func (s Sequence) Split(sep string) []Sequence {
	parts := s.SplitAll(sep)
	if n := len(parts); n > 1 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}

	return parts
}

// SplitAll divides s on every top-level punctuation token with the given
// text. A sequence with n separators always yields n+1 parts, including an
// empty last part after a trailing separator.
func (s Sequence) SplitAll(sep string) []Sequence {
	var (
		parts []Sequence
		start int
	)

	for i, t := range s {
		if t.IsPunct(sep) {
			parts = append(parts, s[start:i:i])
			start = i + 1
		}
	}

	return append(parts, s[start:len(s):len(s)])
}

// Pos returns the position of the first token in s that has one.
func (s Sequence) Pos() Position {
	for _, t := range s {
		if t.Pos.IsValid() {
			return t.Pos
		}

		if t.Kind == Group {
			if p := t.Inner.Pos(); p.IsValid() {
				return p
			}
		}
	}

	return Position{}
}

// Walk returns an iterator over every token of s in depth-first order,
// groups before their contents.
func (s Sequence) Walk() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		s.walk(yield)
	}
}

func (s Sequence) walk(yield func(Token) bool) bool {
	for _, t := range s {
		if !yield(t) {
			return false
		}

		if t.Kind == Group && !t.Inner.walk(yield) {
			return false
		}
	}

	return true
}

// String renders s as source text, separating tokens with single spaces
// except where the surrounding punctuation reads better tight.
func (s Sequence) String() string {
	var sb strings.Builder

	s.write(&sb)

	return sb.String()
}

func (s Sequence) write(sb *strings.Builder) {
	for i, t := range s {
		if i > 0 && spaced(s[i-1], t) {
			sb.WriteByte(' ')
		}

		if t.Kind != Group {
			sb.WriteString(t.Text)

			continue
		}

		sb.WriteString(t.Delim.Open())

		if len(t.Inner) > 0 {
			pad := t.Delim == Brace

			if pad {
				sb.WriteByte(' ')
			}

			t.Inner.write(sb)

			if pad {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(t.Delim.Close())
	}
}

// spaced reports whether a space belongs between prev and next.
func spaced(prev, next Token) bool {
	switch {
	case next.Kind == Punct && tightBefore(next.Text):
		return false

	case prev.Kind == Punct && tightAfter(prev.Text):
		return false

	case next.IsPunct("!") && prev.Kind == Ident:
		return false

	case next.IsGroup(Paren) || next.IsGroup(Bracket):
		return (prev.Kind == Punct && !prev.IsPunct("!") && !prev.IsPunct("#")) ||
			prev.IsGroup(Brace)
	}

	return true
}

func tightBefore(p string) bool {
	switch p {
	case ",", ";", ".", ":", "::", "?":
		return true
	}

	return false
}

func tightAfter(p string) bool {
	switch p {
	case ".", "::", "!", "#", "'", "$", "@":
		return true
	}

	return false
}
