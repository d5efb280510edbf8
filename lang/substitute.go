package lang

import (
	"github.com/ardnew/permute/lang/token"
)

// Bindings resolves loop-variable names during substitution.
// [Combination] implements Bindings.
type Bindings interface {
	Lookup(name string) (token.Sequence, bool)
}

// Substitute returns a copy of seq in which every identifier bound in b is
// replaced by its value. Replacement values are spliced into the enclosing
// sequence rather than wrapped in a group. Groups are rebuilt with the same
// delimiter around their substituted contents, to any depth.
//
// Substituted values are not themselves rescanned.
func Substitute(seq token.Sequence, b Bindings) token.Sequence {
	if seq == nil {
		return nil
	}

	out := make(token.Sequence, 0, len(seq))

	for _, t := range seq {
		switch t.Kind {
		case token.Ident:
			if repl, ok := b.Lookup(t.Text); ok {
				out = append(out, repl...)

				continue
			}

			out = append(out, t)

		case token.Group:
			t.Inner = Substitute(t.Inner, b)
			out = append(out, t)

		default:
			out = append(out, t)
		}
	}

	return out
}
