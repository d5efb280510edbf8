package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/permute/lang/token"
)

// Format writes the script in native syntax to the writer.
//
// With indent > 0 every item starts on its own line and for bodies are
// indented; otherwise the script is written on a single line.
func (s *Script) Format(_ context.Context, w io.Writer, indent int) error {
	sep := " "
	if indent > 0 {
		sep = "\n"
	}

	for i, item := range s.All() {
		if i > 0 {
			if _, err := fmt.Fprint(w, sep); err != nil {
				return err
			}
		}

		if err := formatItem(item, w, indent); err != nil {
			return err
		}
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the script as JSON to the writer.
func (s *Script) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, s.ToMap(), indent)
}

// FormatYAML writes the script as YAML to the writer.
func (s *Script) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, s.ToMap(), indent)
}

// Print writes an indented tree of the script's items and tokens.
func (s *Script) Print(w io.Writer) error {
	for i, item := range s.All() {
		var err error

		switch it := item.(type) {
		case *Static:
			_, err = fmt.Fprintf(w, "[%d] Static @%s\n", i, it.Position)
			if err == nil {
				err = printSequence(w, it.Body, 1)
			}

		case *Let:
			_, err = fmt.Fprintf(w, "[%d] Let %s @%s\n", i, it.Name.Text, it.Position)
			if err == nil {
				err = printTerms(w, it.First, it.Rest, 1)
			}

		case *For:
			_, err = fmt.Fprintf(w, "[%d] For @%s\n", i, it.Position)

			for _, b := range it.Bindings {
				if err != nil {
					break
				}

				_, err = fmt.Fprintf(w, "  Binding %s @%s\n",
					b.Target, b.Target.Position)
				if err == nil {
					err = printTerms(w, b.First, b.Rest, 2)
				}
			}

			if err == nil {
				_, err = fmt.Fprintln(w, "  Body")
			}

			if err == nil {
				err = printSequence(w, it.Body, 2)
			}
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// FormatChunks writes rendered expansion output in the named format:
// "text" writes one chunk per line, "json" and "yaml" write an array of
// strings.
func FormatChunks(
	ctx context.Context,
	w io.Writer,
	chunks []token.Sequence,
	format string,
	indent int,
) error {
	switch format {
	case "json":
		return writeJSON(w, Render(chunks), indent)

	case "yaml":
		return writeYAML(ctx, w, Render(chunks), indent)

	default:
		for _, c := range chunks {
			if len(c) == 0 {
				continue
			}

			if _, err := fmt.Fprintln(w, c.String()); err != nil {
				return err
			}
		}

		return nil
	}
}

func formatItem(item Item, w io.Writer, indent int) error {
	switch it := item.(type) {
	case *Static:
		if needsStaticBlock(it.Body) {
			_, err := fmt.Fprintf(w, "%s { %s }", keywordStatic, it.Body)

			return err
		}

		_, err := fmt.Fprint(w, it.Body.String())

		return err

	case *Let:
		_, err := fmt.Fprintf(w, "%s %s = %s;",
			keywordLet, it.Name.Text, formatTerms(it.First, it.Rest))

		return err

	case *For:
		for _, b := range it.Bindings {
			_, err := fmt.Fprintf(w, "%s %s %s %s ",
				keywordFor, b.Target, keywordIn, formatTerms(b.First, b.Rest))
			if err != nil {
				return err
			}
		}

		if indent == 0 || len(it.Body) == 0 {
			_, err := fmt.Fprint(w, token.NewGroup(token.Brace, it.Body...))

			return err
		}

		_, err := fmt.Fprintf(w, "{\n%s%s\n}",
			strings.Repeat(" ", indent), it.Body)

		return err

	default:
		return nil
	}
}

// needsStaticBlock reports whether body, written bare, would be parsed as
// something other than a single static item.
func needsStaticBlock(body token.Sequence) bool {
	p := &parser{toks: body}

	for i := range body {
		p.pos = i

		if p.atLet() || p.atFor() || p.atStatic() {
			return true
		}
	}

	return false
}

func printTerms(w io.Writer, first Term, rest []SignedTerm, depth int) error {
	pad := strings.Repeat("  ", depth)

	if _, err := fmt.Fprintf(w, "%s%s %s\n", pad, first.Kind, first); err != nil {
		return err
	}

	for _, st := range rest {
		_, err := fmt.Fprintf(w, "%s%s %s %s\n", pad, st.Op, st.Term.Kind, st.Term)
		if err != nil {
			return err
		}
	}

	return nil
}

func printSequence(w io.Writer, seq token.Sequence, depth int) error {
	pad := strings.Repeat("  ", depth)

	for _, t := range seq {
		if t.Kind != token.Group {
			_, err := fmt.Fprintf(w, "%s%s %q @%s\n", pad, t.Kind, t.Text, t.Pos)
			if err != nil {
				return err
			}

			continue
		}

		_, err := fmt.Fprintf(w, "%s%s %s @%s\n", pad, t.Kind, t.Delim, t.Pos)
		if err != nil {
			return err
		}

		if err := printSequence(w, t.Inner, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
