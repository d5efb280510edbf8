package repl

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/permute/lang"
	"github.com/ardnew/permute/lang/token"
	"github.com/ardnew/permute/log"
)

// Session holds the let bindings accumulated by an interactive session.
//
// Each input is parsed as a complete script and evaluated against the
// bindings of all earlier inputs. An input that fails leaves the bindings
// unchanged.
type Session struct {
	ev     *lang.Evaluator
	opts   []lang.Option
	logger log.Logger
}

// Result is the outcome of evaluating one input.
type Result struct {
	// Chunks holds the expansion of each static and for item, in order.
	Chunks []token.Sequence
	// Bound lists the names defined by let items, in order.
	Bound []string
}

// NewSession returns an empty session. opts configure parsing and
// evaluation of every input.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	opts = append([]lang.Option{lang.WithLogger(logger)}, opts...)

	return &Session{
		ev:     lang.NewEvaluator(opts...),
		opts:   opts,
		logger: logger,
	}
}

// Eval parses and evaluates line.
func (s *Session) Eval(ctx context.Context, line string) (Result, error) {
	script, err := lang.ParseString(ctx, line, s.opts...)
	if err != nil {
		return Result{}, err
	}

	return s.eval(ctx, s.ev, script)
}

// Load parses and evaluates the script read from r. name identifies the
// source in errors.
func (s *Session) Load(ctx context.Context, name string, r io.Reader) (Result, error) {
	script, err := lang.ParseReader(ctx, r, s.opts...)
	if err != nil {
		return Result{}, lang.WrapError(err).With(slog.String("file", name))
	}

	res, err := s.eval(ctx, s.ev, script)
	if err != nil {
		return Result{}, lang.WrapError(err).With(slog.String("file", name))
	}

	s.logger.DebugContext(ctx, "repl source loaded",
		slog.String("file", name),
		slog.Int("bindings", s.ev.Env().Len()),
	)

	return res, nil
}

// Replace evaluates src in an empty environment and, if it succeeds, makes
// its bindings the session's bindings.
func (s *Session) Replace(ctx context.Context, src string) (Result, error) {
	script, err := lang.ParseString(ctx, src, s.opts...)
	if err != nil {
		return Result{}, err
	}

	ev := lang.NewEvaluator(s.opts...)

	res, err := s.eval(ctx, ev, script)
	if err != nil {
		return Result{}, err
	}

	s.ev = ev

	return res, nil
}

func (s *Session) eval(
	ctx context.Context,
	ev *lang.Evaluator,
	script *lang.Script,
) (Result, error) {
	chunks, err := ev.EvalEach(ctx, script)
	if err != nil {
		return Result{}, err
	}

	var res Result

	for _, c := range chunks {
		if len(c) > 0 {
			res.Chunks = append(res.Chunks, c)
		}
	}

	for _, item := range script.All() {
		if let, ok := item.(*lang.Let); ok {
			res.Bound = append(res.Bound, let.Name.Text)
		}
	}

	return res, nil
}

// Reset removes every binding.
func (s *Session) Reset() { s.ev.Reset() }

// Len returns the number of bindings.
func (s *Session) Len() int { return s.ev.Env().Len() }

// Names returns the bound names in definition order.
func (s *Session) Names() iter.Seq[string] { return s.ev.Env().Names() }

// Lookup returns the set bound to name.
func (s *Session) Lookup(name string) (*token.Set, bool) {
	return s.ev.Env().Lookup(name)
}

// All returns an iterator over each binding in definition order.
func (s *Session) All() iter.Seq2[string, *token.Set] { return s.ev.Env().All() }

// Source renders the bindings as a script of let items that recreates them.
func (s *Session) Source() string {
	var sb strings.Builder

	for name, set := range s.All() {
		sb.WriteString("let ")
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(setLiteral(set))
		sb.WriteString(";\n")
	}

	return sb.String()
}

// setLiteral renders set as a list term.
func setLiteral(set *token.Set) string {
	return lang.ListTerm(set.Values()...).String()
}
