package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/permute/lang/token"
)

// Expand instantiates body once per combination of bindings, with default
// options. See [Evaluator.Expand].
func Expand(
	env *Env,
	bindings []Binding,
	body token.Sequence,
) ([]token.Sequence, error) {
	return NewEvaluator().Expand(context.Background(), env, bindings, body)
}

// Expand instantiates body once per combination of bindings.
//
// Bindings are processed outermost first. Every combination produced so far
// branches once per element of the next binding's set, and that set is
// evaluated separately for each combination, with the combination in scope,
// so a nested binding can depend on the current value of an enclosing one.
// The result holds one substituted body per final combination, with the
// outermost binding varying slowest.
//
// All combinations of the widest binding are held in memory at once, so
// space grows with the product of the set sizes. [WithMaxCombinations] bounds
// it.
func (ev *Evaluator) Expand(
	ctx context.Context,
	env *Env,
	bindings []Binding,
	body token.Sequence,
) ([]token.Sequence, error) {
	combs := []Combination{{}}

	for depth, b := range bindings {
		var next []Combination

		for _, comb := range combs {
			set, err := EvaluateTerms(b.First, b.Rest, env, &comb)
			if err != nil {
				return nil, err
			}

			for _, value := range set.All() {
				ext, err := bind(comb, b.Target, Substitute(value, comb))
				if err != nil {
					return nil, err
				}

				next = append(next, ext)

				if ev.opts.maxCombinations > 0 &&
					len(next) > ev.opts.maxCombinations {
					return nil, ErrTooManyCombinations.
						WithPosition(b.Target.Position).
						With(slog.Int("limit", ev.opts.maxCombinations))
				}
			}
		}

		ev.logger.TraceContext(ctx, "binding expanded",
			slog.Int("depth", depth),
			slog.Int("combinations", len(next)),
		)

		combs = next
	}

	out := make([]token.Sequence, len(combs))
	for i, comb := range combs {
		out[i] = Substitute(body, comb)
	}

	return out, nil
}

// bind returns comb extended with value bound to target.
func bind(comb Combination, target Target, value token.Sequence) (
	Combination,
	error,
) {
	if !target.Tuple {
		return bindName(comb, target.Names[0], value)
	}

	if len(value) != 1 || !value[0].IsGroup(token.Paren) {
		return comb, ErrMalformedTupleTarget.
			WithPosition(valuePos(value, target)).
			With(
				slog.Int("expected", target.Arity()),
				slog.String("value", value.String()),
			)
	}

	// Every comma separates, so a trailing comma counts an empty element.
	parts := value[0].Inner.SplitAll(",")
	if len(parts) != target.Arity() {
		return comb, ErrArityMismatch.
			WithPosition(valuePos(value, target)).
			With(
				slog.Int("expected", target.Arity()),
				slog.Int("actual", len(parts)),
			)
	}

	var err error

	for i, name := range target.Names {
		comb, err = bindName(comb, name, parts[i])
		if err != nil {
			return comb, err
		}
	}

	return comb, nil
}

// bindName binds a single target identifier. The wildcard binds nothing.
func bindName(
	comb Combination,
	name token.Token,
	value token.Sequence,
) (Combination, error) {
	if name.Text == Wildcard {
		return comb, nil
	}

	if _, ok := comb.Lookup(name.Text); ok {
		return comb, ErrDuplicateBinding.
			WithPosition(name.Pos).
			With(
				slog.String("name", name.Text),
				slog.String("previous", comb.boundAt(name.Text).String()),
			)
	}

	return comb.with(name.Text, value, name.Pos), nil
}

func valuePos(value token.Sequence, target Target) token.Position {
	if p := value.Pos(); p.IsValid() {
		return p
	}

	return target.Position
}
