package lang

import (
	"errors"
	"testing"

	"github.com/ardnew/permute/lang/token"
)

// mustParse scans and parses src (bypassing the cache) or fails the test.
func mustParse(tb testing.TB, src string) *Script {
	tb.Helper()

	script, err := parseSource(tb.Context(), src)
	if err != nil {
		tb.Fatalf("parse %q failed: %v", src, err)
	}

	return script
}

func TestParse_Let(t *testing.T) {
	script := mustParse(t, "let T = [u8, u16] + U - [u8];")

	if len(script.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(script.Items))
	}

	let, ok := script.Items[0].(*Let)
	if !ok {
		t.Fatalf("item is %T, want *Let", script.Items[0])
	}

	if let.Name.Text != "T" {
		t.Errorf("name = %q, want T", let.Name.Text)
	}

	if let.First.Kind != TermList || len(let.First.Entries) != 2 {
		t.Errorf("first term = %v, want list of 2", let.First)
	}

	if len(let.Rest) != 2 {
		t.Fatalf("got %d follow-up terms, want 2", len(let.Rest))
	}

	if let.Rest[0].Op != OpAdd || let.Rest[0].Term.Kind != TermRef ||
		let.Rest[0].Term.Ref.Text != "U" {
		t.Errorf("rest[0] = %v %v, want + U", let.Rest[0].Op, let.Rest[0].Term)
	}

	if let.Rest[1].Op != OpSub || let.Rest[1].Term.Kind != TermList {
		t.Errorf("rest[1] = %v %v, want - [u8]", let.Rest[1].Op, let.Rest[1].Term)
	}

	if let.Pos().Line != 1 || let.Pos().Column != 1 {
		t.Errorf("position = %v, want 1:1", let.Pos())
	}
}

func TestParse_For(t *testing.T) {
	script := mustParse(t, "for (A, B) in [(x, 1)] for C in {a, b} { A B C }")

	f, ok := script.Items[0].(*For)
	if !ok || len(script.Items) != 1 {
		t.Fatalf("items = %v, want one *For", script.Items)
	}

	if len(f.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(f.Bindings))
	}

	outer := f.Bindings[0].Target
	if !outer.Tuple || outer.Arity() != 2 || outer.String() != "(A, B)" {
		t.Errorf("outer target = %v, want tuple (A, B)", outer)
	}

	inner := f.Bindings[1]
	if inner.Target.Tuple || inner.Target.String() != "C" {
		t.Errorf("inner target = %v, want C", inner.Target)
	}

	if inner.First.Delim != token.Brace || len(inner.First.Entries) != 2 {
		t.Errorf("inner term = %v, want brace list of 2", inner.First)
	}

	if got, want := f.Body.String(), "A B C"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestParse_StaticItems(t *testing.T) {
	script := mustParse(t, `
struct S;
static { let x = 1; }
let T = [a];
fn main() {}
`)

	kinds := make([]string, len(script.Items))
	for i, item := range script.Items {
		switch item.(type) {
		case *Static:
			kinds[i] = "static"
		case *Let:
			kinds[i] = "let"
		case *For:
			kinds[i] = "for"
		}
	}

	want := []string{"static", "static", "let", "static"}
	if len(kinds) != len(want) {
		t.Fatalf("items = %v, want %v", kinds, want)
	}

	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("item %d = %s, want %s", i, kinds[i], want[i])
		}
	}

	block := script.Items[1].(*Static)
	if got, want := block.Body.String(), "let x = 1;"; got != want {
		t.Errorf("static block body = %q, want %q", got, want)
	}
}

func TestParse_KeywordsAsText(t *testing.T) {
	// Keywords not in item position are ordinary tokens.
	script := mustParse(t, "for x in 0..10 { let y; }")

	if len(script.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(script.Items))
	}

	if _, ok := script.Items[0].(*Static); !ok {
		t.Errorf("item is %T, want *Static", script.Items[0])
	}
}

func TestParse_ListEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "let T = [a, b];", []string{"a", "b"}},
		{"trailing comma", "let T = [a, b,];", []string{"a", "b"}},
		{"empty", "let T = [];", nil},
		{"unwrap same delimiter", "let T = [[a, b], c];", []string{"a, b", "c"}},
		{"keep other delimiter", "let T = [(a, b), c];", []string{"(a, b)", "c"}},
		{"unwrap brace in brace", "let T = {{x}, y};", []string{"x", "y"}},
		{"multi-token entry", "let T = [Vec<u8>, &str];", []string{"Vec < u8 >", "& str"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			let := mustParse(t, tt.input).Items[0].(*Let)

			got := make([]string, len(let.First.Entries))
			for i, e := range let.First.Entries {
				got[i] = e.String()
			}

			if len(got) != len(tt.want) {
				t.Fatalf("entries = %q, want %q", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing semicolon", "let T = [a]"},
		{"bad follow-up term", "let T = [a] - 1;"},
		{"dangling operator", "let T = [a] + ;"},
		{"missing body", "for X in T"},
		{"body not brace", "for X in T (x)"},
		{"bad tuple element", "for (a, 1) in T {}"},
		{"empty tuple", "for () in T {}"},
		{"nested tuple", "for ((a, b), c) in T {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := mustScan(t, tt.input)

			_, err := Parse(t.Context(), seq)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v is not ErrParse", err)
			}

			var e *Error
			if errors.As(err, &e) && !e.Position().IsValid() {
				t.Errorf("error %v has no position", err)
			}
		})
	}
}
