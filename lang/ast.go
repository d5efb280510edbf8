package lang

import (
	"iter"

	"github.com/ardnew/permute/lang/token"
)

// Script is a parsed template: an ordered list of items evaluated top to
// bottom.
type Script struct {
	Items []Item
}

// All returns an iterator over the items of the script in declaration order.
func (s *Script) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		if s == nil {
			return
		}

		for i, item := range s.Items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Item is one top-level script entry: [*Static], [*Let], or [*For].
type Item interface {
	// Pos returns the location of the item's first token.
	Pos() token.Position

	item()
}

// Static is a run of tokens copied to the output verbatim.
type Static struct {
	Body     token.Sequence
	Position token.Position
}

// Let binds a name to the set produced by its terms.
type Let struct {
	Name     token.Token
	First    Term
	Rest     []SignedTerm
	Position token.Position
}

// For repeats Body once per combination of its bindings. Bindings are listed
// outermost first; a later binding's terms may refer to earlier targets.
type For struct {
	Bindings []Binding
	Body     token.Sequence
	Position token.Position
}

func (s *Static) Pos() token.Position { return s.Position }
func (l *Let) Pos() token.Position    { return l.Position }
func (f *For) Pos() token.Position    { return f.Position }

func (*Static) item() {}
func (*Let) item()    {}
func (*For) item()    {}

// Binding is one "for <target> in <terms>" clause.
type Binding struct {
	Target Target
	First  Term
	Rest   []SignedTerm
}

// Target names what each loop value is bound to.
//
// A single-name target has exactly one element in Names and Tuple unset.
// A tuple target destructures a parenthesized value positionally into Names.
// The wildcard identifier "_" consumes a value without binding it.
type Target struct {
	Names    []token.Token
	Tuple    bool
	Position token.Position
}

// Arity returns the number of values the target consumes.
func (t Target) Arity() int { return len(t.Names) }

// Wildcard is the target name that binds nothing.
const Wildcard = "_"

// TermKind distinguishes the two kinds of binding term.
type TermKind uint8

const (
	// TermRef names a set declared by an earlier let.
	TermRef TermKind = iota

	// TermList is a literal bracketed list of token sequences.
	TermList
)

// String returns the name of the term kind.
func (k TermKind) String() string {
	switch k {
	case TermRef:
		return "ref"
	case TermList:
		return "list"
	default:
		return "unknown"
	}
}

// Term is a binding term: a reference to a let-bound set or a literal list.
type Term struct {
	Kind TermKind

	// Ref is the referenced identifier (TermRef only).
	Ref token.Token

	// Delim and Entries describe a literal list (TermList only). Each entry
	// is one element of the resulting set.
	Delim   token.Delimiter
	Entries []token.Sequence

	Position token.Position
}

// RefTerm returns a term referring to the let binding name.
func RefTerm(name string) Term {
	return Term{Kind: TermRef, Ref: token.NewIdent(name)}
}

// ListTerm returns a bracket-delimited literal list term.
func ListTerm(entries ...token.Sequence) Term {
	return Term{Kind: TermList, Delim: token.Bracket, Entries: entries}
}

// Op is a set-algebra operator joining binding terms.
type Op uint8

const (
	OpAdd Op = iota // +
	OpSub           // -
)

// String returns the operator symbol.
func (o Op) String() string {
	if o == OpSub {
		return "-"
	}

	return "+"
}

// SignedTerm is a follow-up term combined into the running set by Op.
type SignedTerm struct {
	Op   Op
	Term Term
}
