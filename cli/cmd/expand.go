package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/permute/lang"
	"github.com/ardnew/permute/lang/token"
)

// Expand parses and evaluates scripts and prints their expansion.
//
// All files are evaluated in order by one evaluator, so let bindings declared
// in one file are visible to the files after it.
type Expand struct {
	Output string   `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int      `default:"2"                            help:"Indent width for json and yaml output." short:"i"`
	Files  []string `arg:""         default:"-"             help:"Script files, searched in --path, or '-' for stdin." name:"file" optional:""`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := settingsFrom(ctx)

	files := e.Files
	if len(files) == 0 {
		files = []string{stdinSource}
	}

	paths, err := resolveSources(files, s.SearchPath)
	if err != nil {
		return err
	}

	srcs := buildSourceFiles(paths)
	if srcs == nil {
		return ErrNoInput.With(slog.Any("files", files))
	}
	defer srcs.Close()

	opts := s.langOptions()
	ev := lang.NewEvaluator(opts...)

	var chunks []token.Sequence

	for name, r := range srcs.All() {
		script, err := lang.ParseReader(ctx, r, opts...)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "expand"),
				slog.String("file", name),
			)
		}

		out, err := ev.EvalEach(ctx, script)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "expand"),
				slog.String("file", name),
			)
		}

		s.Logger.DebugContext(ctx, "file expanded",
			slog.String("file", name),
			slog.Int("chunks", len(out)),
		)

		chunks = append(chunks, out...)
	}

	return lang.FormatChunks(ctx, outputFrom(ctx), chunks, e.Output, e.Indent)
}
