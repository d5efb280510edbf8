package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/permute/lang"
)

const fmtSource = `let T = [u8, u16] - [u16];
for X in T { fn f() -> X {} }
struct S;`

// runFmt writes src to a temp file, points cmd at it with setSource, and
// returns what cmd writes.
func runFmt(
	t *testing.T,
	src string,
	run func(ctx context.Context, source string) error,
) (string, error) {
	t.Helper()

	path := writeFiles(t, t.TempDir(), [2]string{"in.pm", src})[0]

	var buf bytes.Buffer

	err := run(WithOutput(t.Context(), &buf), path)

	return buf.String(), err
}

func TestNative_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "inline",
			indent: 0,
			want: "let T = [u8, u16] - [u16];\n" +
				"for X in T { fn f() -> X {} }\n" +
				"struct S;\n",
		},
		{
			name:   "indented",
			indent: 2,
			want: "let T = [u8, u16] - [u16];\n" +
				"for X in T {\n  fn f() -> X {}\n}\n" +
				"struct S;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := runFmt(t, fmtSource, func(ctx context.Context, src string) error {
				return (&Native{Indent: tt.indent, Source: src}).Run(ctx)
			})
			if err != nil {
				t.Fatalf("Native.Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Native.Run() =\n%s\nwant:\n%s", got, tt.want)
			}

			// Formatted output parses back to the same script.
			again, err := runFmt(t, got, func(ctx context.Context, src string) error {
				return (&Native{Indent: tt.indent, Source: src}).Run(ctx)
			})
			if err != nil || again != got {
				t.Errorf("reformat = %q, %v; want %q", again, err, got)
			}
		})
	}
}

func TestJSON_Run(t *testing.T) {
	t.Parallel()

	got, err := runFmt(t, fmtSource, func(ctx context.Context, src string) error {
		return (&JSON{Indent: 2, Source: src}).Run(ctx)
	})
	if err != nil {
		t.Fatalf("JSON.Run() error = %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(got), &items); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, got)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3:\n%s", len(items), got)
	}

	for i, key := range []string{"let", "for", "static"} {
		if _, ok := items[i][key]; !ok {
			t.Errorf("item %d = %v, want key %q", i, items[i], key)
		}
	}
}

func TestYAML_Run(t *testing.T) {
	t.Parallel()

	got, err := runFmt(t, fmtSource, func(ctx context.Context, src string) error {
		return (&YAML{Indent: 2, Source: src}).Run(ctx)
	})
	if err != nil {
		t.Fatalf("YAML.Run() error = %v", err)
	}

	var items []map[string]any
	if err := yaml.Unmarshal([]byte(got), &items); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, got)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3:\n%s", len(items), got)
	}

	if items[2]["static"] != "struct S;" {
		t.Errorf("static item = %v, want struct S;", items[2])
	}
}

func TestAST_Run(t *testing.T) {
	t.Parallel()

	got, err := runFmt(t, fmtSource, func(ctx context.Context, src string) error {
		return (&AST{Source: src}).Run(ctx)
	})
	if err != nil {
		t.Fatalf("AST.Run() error = %v", err)
	}

	for _, want := range []string{"[0] Let T @1:1", "[1] For @2:1", "[2] Static"} {
		if !strings.Contains(got, want) {
			t.Errorf("AST output missing %q:\n%s", want, got)
		}
	}
}

func TestFmt_ParseErrors(t *testing.T) {
	t.Parallel()

	commands := map[string]func(ctx context.Context, src string) error{
		"native": func(ctx context.Context, src string) error {
			return (&Native{Source: src}).Run(ctx)
		},
		"json": func(ctx context.Context, src string) error {
			return (&JSON{Source: src}).Run(ctx)
		},
		"yaml": func(ctx context.Context, src string) error {
			return (&YAML{Source: src}).Run(ctx)
		},
		"ast": func(ctx context.Context, src string) error {
			return (&AST{Source: src}).Run(ctx)
		},
	}

	inputs := []string{
		"let T = [a]",
		"for X in T",
		"for () in T {}",
	}

	for format, run := range commands {
		for _, input := range inputs {
			t.Run(format+"/"+input, func(t *testing.T) {
				t.Parallel()

				out, err := runFmt(t, input, run)
				if !errors.Is(err, lang.ErrParse) {
					t.Fatalf("error = %v, want ErrParse", err)
				}

				var e *lang.Error
				if !errors.As(err, &e) {
					t.Fatalf("error %T is not *lang.Error", err)
				}

				if v, ok := e.Attr("format"); !ok || v.String() != format {
					t.Errorf("format attr = %v, want %s", v, format)
				}

				if out != "" {
					t.Errorf("wrote output on error: %q", out)
				}
			})
		}
	}
}

func TestFmt_SearchPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, [2]string{"lib.pm", "struct S;"})

	var buf bytes.Buffer

	ctx := WithOutput(t.Context(), &buf)
	ctx = WithSettings(ctx, Settings{SearchPath: []string{dir}})

	if err := (&Native{Source: "lib.pm"}).Run(ctx); err != nil {
		t.Fatalf("Native.Run() error = %v", err)
	}

	if got := buf.String(); got != "struct S;\n" {
		t.Errorf("Native.Run() = %q, want %q", got, "struct S;\n")
	}

	err := (&Native{Source: filepath.Join("missing", "lib.pm")}).Run(ctx)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("error = %v, want ErrSourceNotFound", err)
	}
}
