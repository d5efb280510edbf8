package lang

import (
	"log/slog"

	"github.com/ardnew/permute/lang/token"
)

// EvaluateTerm resolves a single binding term to an ordered set.
//
// A reference term returns the set stored in env under that name; the set is
// shared, not copied, and callers must not modify it. A list term yields one
// element per entry in source order. When comb is non-nil, each list entry is
// first substituted against it, which lets the terms of a nested loop refer to
// the current values of the loops enclosing it.
func EvaluateTerm(term Term, env *Env, comb *Combination) (*token.Set, error) {
	switch term.Kind {
	case TermRef:
		set, ok := env.Lookup(term.Ref.Text)
		if !ok {
			return nil, ErrUndefinedBinding.
				WithPosition(termPos(term)).
				With(slog.String("name", term.Ref.Text))
		}

		return set, nil

	case TermList:
		set := token.NewSet()

		for _, entry := range term.Entries {
			if comb != nil {
				entry = Substitute(entry, comb)
			}

			set.Add(entry)
		}

		return set, nil

	default:
		return nil, ErrParse.
			WithPosition(term.Position).
			With(slog.String("term", term.Kind.String()))
	}
}

// EvaluateTerms resolves first and then folds each follow-up term into the
// running set, strictly left to right. [OpAdd] appends elements not already
// present; [OpSub] removes elements structurally equal to any in the term.
//
// The returned set may be shared with env when rest is empty.
func EvaluateTerms(
	first Term,
	rest []SignedTerm,
	env *Env,
	comb *Combination,
) (*token.Set, error) {
	acc, err := EvaluateTerm(first, env, comb)
	if err != nil {
		return nil, err
	}

	for _, st := range rest {
		set, err := EvaluateTerm(st.Term, env, comb)
		if err != nil {
			return nil, err
		}

		switch st.Op {
		case OpAdd:
			acc = acc.Union(set)

		case OpSub:
			acc = acc.Difference(set)
		}
	}

	return acc, nil
}

func termPos(term Term) token.Position {
	if term.Ref.Pos.IsValid() {
		return term.Ref.Pos
	}

	return term.Position
}
