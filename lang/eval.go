package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/permute/lang/token"
	"github.com/ardnew/permute/log"
)

// Evaluate expands script into a single flat token sequence.
//
// Evaluation is a pure function of the script: it performs no I/O and
// evaluating the same script twice yields equal output. On error the returned
// sequence is nil; partial output is never returned.
func Evaluate(
	ctx context.Context,
	script *Script,
	opts ...Option,
) (token.Sequence, error) {
	return NewEvaluator(opts...).Eval(ctx, script)
}

// Evaluator walks scripts item by item, keeping the let bindings they declare.
//
// A single Evaluator may evaluate several scripts in turn (as the REPL does);
// let bindings declared by one are visible to the next. An Evaluator is not
// safe for concurrent use.
type Evaluator struct {
	env    *Env
	opts   options
	logger log.Logger
}

// NewEvaluator returns an Evaluator with an empty let-binding store.
func NewEvaluator(opts ...Option) *Evaluator {
	o := makeOptions(opts...)

	return &Evaluator{
		env:    NewEnv(),
		opts:   o,
		logger: o.logger,
	}
}

// Env returns the let bindings declared so far.
func (ev *Evaluator) Env() *Env { return ev.env }

// Reset discards all let bindings.
func (ev *Evaluator) Reset() { ev.env = NewEnv() }

// Eval evaluates script and returns its output concatenated in declaration
// order.
func (ev *Evaluator) Eval(
	ctx context.Context,
	script *Script,
) (token.Sequence, error) {
	chunks, err := ev.EvalEach(ctx, script)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, c := range chunks {
		n += len(c)
	}

	out := make(token.Sequence, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}

	return out, nil
}

// EvalEach evaluates script and returns its output as separate chunks: one
// per static item and one per instantiation of each for body, in order.
//
// Let bindings declared by script are kept only if the whole script
// evaluates without error.
func (ev *Evaluator) EvalEach(
	ctx context.Context,
	script *Script,
) ([]token.Sequence, error) {
	if script == nil {
		return nil, nil
	}

	env := ev.env.clone()

	var chunks []token.Sequence

	for i, item := range script.All() {
		switch it := item.(type) {
		case *Static:
			chunks = append(chunks, it.Body)

		case *Let:
			set, err := EvaluateTerms(it.First, it.Rest, env, nil)
			if err != nil {
				return nil, err
			}

			env.Define(it.Name.Text, set)

			ev.logger.TraceContext(ctx, "let defined",
				slog.String("name", it.Name.Text),
				slog.Int("size", set.Len()),
			)

		case *For:
			bodies, err := ev.Expand(ctx, env, it.Bindings, it.Body)
			if err != nil {
				return nil, err
			}

			chunks = append(chunks, bodies...)

			ev.logger.TraceContext(ctx, "for expanded",
				slog.Int("item", i),
				slog.Int("bindings", len(it.Bindings)),
				slog.Int("instances", len(bodies)),
			)
		}
	}

	ev.env = env

	ev.logger.DebugContext(ctx, "script evaluated",
		slog.Int("items", len(script.Items)),
		slog.Int("chunks", len(chunks)),
		slog.Int("lets", env.Len()),
	)

	return chunks, nil
}
