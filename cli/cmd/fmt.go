package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/permute/lang"
)

// Fmt parses a script and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native script syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Print the parsed item tree."`
}

// Native formats input as native script syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for loop and static bodies (0 keeps them on one line)." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	script, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return script.Format(ctx, outputFrom(ctx), f.Indent)
}

// JSON parses input and outputs its items as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	script, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return script.FormatJSON(ctx, outputFrom(ctx), j.Indent)
}

// YAML parses input and outputs its items as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	script, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return script.FormatYAML(ctx, outputFrom(ctx), y.Indent)
}

// AST prints the parsed item tree with source positions.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	script, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return script.Print(outputFrom(ctx))
}

// parseSource opens name (searched in the configured path, "-" for stdin)
// and parses it. format names the requested output in error attributes.
func parseSource(
	ctx context.Context,
	name, format string,
) (*lang.Script, error) {
	s := settingsFrom(ctx)

	path, err := resolveSource(name, s.SearchPath)
	if err != nil {
		return nil, err
	}

	var r io.Reader = os.Stdin

	if path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrSourceNotFound.Wrap(err).
				With(slog.String("file", name))
		}
		defer f.Close()

		r = f
	}

	script, err := lang.ParseReader(ctx, r, s.langOptions()...)
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("format", format),
			slog.String("file", name),
		)
	}

	return script, nil
}
