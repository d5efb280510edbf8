// Package token defines the recursive token trees consumed and produced by
// the expansion engine.
//
// A [Token] is either an atom (identifier, literal, or punctuation) or a
// group: a [Delimiter] wrapping a nested [Sequence]. Sequences compare
// structurally: source positions never participate in equality or hashing,
// so a value parsed twice from different places is the same set element.
package token

import (
	"strconv"
)

// Kind identifies the variant of a [Token].
type Kind uint8

const (
	Ident   Kind = iota // identifier
	Literal             // literal
	Punct               // punct
	Group               // group
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"

	case Literal:
		return "literal"

	case Punct:
		return "punct"

	case Group:
		return "group"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Delimiter is the bracket kind of a group token.
type Delimiter uint8

const (
	None    Delimiter = iota // invisible
	Paren                    // ( )
	Brace                    // { }
	Bracket                  // [ ]
)

// Open returns the opening bracket of d, or "" for [None].
func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing bracket of d, or "" for [None].
func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// String returns the name of the delimiter.
func (d Delimiter) String() string {
	switch d {
	case None:
		return "none"
	case Paren:
		return "paren"
	case Brace:
		return "brace"
	case Bracket:
		return "bracket"
	default:
		return "Delimiter(" + strconv.Itoa(int(d)) + ")"
	}
}

// Position is a location in script source. Lines and columns are 1-based;
// the zero value means the token was synthesized.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to real source.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column", or "-" for a synthesized position.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit or a delimited group of them.
//
// Atoms use Text; groups use Delim and Inner. A group exclusively owns its
// nested sequence.
type Token struct {
	Kind  Kind
	Text  string
	Delim Delimiter
	Inner Sequence
	Pos   Position
}

// NewIdent returns an identifier atom.
func NewIdent(name string) Token { return Token{Kind: Ident, Text: name} }

// NewLiteral returns a literal atom with the given source text.
func NewLiteral(text string) Token { return Token{Kind: Literal, Text: text} }

// NewPunct returns a punctuation atom.
func NewPunct(text string) Token { return Token{Kind: Punct, Text: text} }

// NewGroup returns a group of the given delimiter around inner.
func NewGroup(delim Delimiter, inner ...Token) Token {
	return Token{Kind: Group, Delim: delim, Inner: inner}
}

// At returns a copy of t located at pos.
func (t Token) At(pos Position) Token {
	t.Pos = pos

	return t
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// IsPunct reports whether t is the punctuation text.
func (t Token) IsPunct(text string) bool {
	return t.Kind == Punct && t.Text == text
}

// IsGroup reports whether t is a group with delimiter d.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delim == d
}

// Equal reports whether t and u are structurally identical.
// Positions are ignored.
func (t Token) Equal(u Token) bool {
	if t.Kind != u.Kind {
		return false
	}

	if t.Kind == Group {
		return t.Delim == u.Delim && t.Inner.Equal(u.Inner)
	}

	return t.Text == u.Text
}

// String renders t as source text.
func (t Token) String() string {
	return Sequence{t}.String()
}
