package lang

import (
	"errors"
	"log/slog"
	"slices"
	"testing"
)

// expandSource parses and evaluates src, returning each output chunk
// rendered as text.
func expandSource(tb testing.TB, src string, opts ...Option) ([]string, error) {
	tb.Helper()

	script := mustParse(tb, src)

	chunks, err := NewEvaluator(opts...).EvalEach(tb.Context(), script)
	if err != nil {
		return nil, err
	}

	return Render(chunks), nil
}

func TestEvaluate_Expansion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single loop",
			input: "let T = [u8, u16]; for X in T { fn f() -> X {} }",
			want:  []string{"fn f() -> u8 {}", "fn f() -> u16 {}"},
		},
		{
			name:  "cross product outermost slowest",
			input: "for A in [a1, a2] for B in [b1, b2, b3] { A B; }",
			want: []string{
				"a1 b1;", "a1 b2;", "a1 b3;",
				"a2 b1;", "a2 b2;", "a2 b3;",
			},
		},
		{
			name:  "set algebra left to right",
			input: "let A = [a, b, c]; let B = A - [b] + [d, a]; for X in B { X }",
			want:  []string{"a", "c", "d"},
		},
		{
			name:  "union then difference",
			input: "for X in [a] + [b] - [a] { X }",
			want:  []string{"b"},
		},
		{
			name:  "duplicates removed structurally",
			input: "for X in [(a, b), ( a , b ), c, c] { X }",
			want:  []string{"(a, b)", "c"},
		},
		{
			name:  "redefinition does not affect earlier lets",
			input: "let A = [x]; let B = A; let A = [y]; for X in B { X } for X in A { X }",
			want:  []string{"x", "y"},
		},
		{
			name:  "inner set depends on outer value",
			input: "for X in [a, b] for Y in [X, z] { X Y }",
			want:  []string{"a a", "a z", "b b", "b z"},
		},
		{
			name:  "tuple destructuring",
			input: "for (N, T) in [(Byte, u8), (Word, u16)] { type N = T; }",
			want:  []string{"type Byte = u8;", "type Word = u16;"},
		},
		{
			name:  "tuple element may span tokens",
			input: "for (N, T) in [(V, Vec<u8>)] { type N = T; }",
			want:  []string{"type V = Vec < u8 >;"},
		},
		{
			name:  "wildcard in tuple",
			input: "for (_, T) in [(a, u8), (b, u16)] { T }",
			want:  []string{"u8", "u16"},
		},
		{
			name:  "wildcard alone",
			input: "for _ in [a, b] { x }",
			want:  []string{"x", "x"},
		},
		{
			name:  "substitution in nested groups",
			input: "for X in [u8] { Vec<(X, [X; 2])> }",
			want:  []string{"Vec < (u8, [u8; 2]) >"},
		},
		{
			name:  "multi-token value spliced",
			input: "for X in [Vec<u8>] { let v: X; }",
			want:  []string{"let v: Vec < u8 >;"},
		},
		{
			name:  "let names are not substituted",
			input: "let T = [u8]; T",
			want:  []string{"T"},
		},
		{
			name:  "static items interleave",
			input: "mod m { } for X in [a, b] { X } static { end }",
			want:  []string{"mod m {}", "a", "b", "end"},
		},
		{
			name:  "empty set yields nothing",
			input: "for X in [] { X }",
			want:  nil,
		},
		{
			name:  "empty set anywhere in chain yields nothing",
			input: "for X in [a, b] for Y in [] { X Y }",
			want:  nil,
		},
		{
			name:  "brace list",
			input: "for X in {a, {b, c}} { X }",
			want:  []string{"a", "b, c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandSource(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		attrs  map[string]string
		line   int
		column int
	}{
		{
			name:   "undefined reference in for",
			input:  "let T = [a]; for X in U { X }",
			target: ErrUndefinedBinding,
			attrs:  map[string]string{"name": "U"},
			line:   1,
			column: 23,
		},
		{
			name:   "undefined reference in let",
			input:  "let T = [a] + Missing;",
			target: ErrUndefinedBinding,
			attrs:  map[string]string{"name": "Missing"},
			line:   1,
			column: 15,
		},
		// Tuple shape errors are returned as values instead of aborting.
		{
			name:   "tuple arity too large",
			input:  "for (A, B) in [(x, y, z)] { A }",
			target: ErrArityMismatch,
			attrs:  map[string]string{"expected": "2", "actual": "3"},
			line:   1,
			column: 16,
		},
		{
			name:   "tuple arity too small",
			input:  "for (A, B, C) in [(x, y)] { A }",
			target: ErrArityMismatch,
			attrs:  map[string]string{"expected": "3", "actual": "2"},
			line:   1,
			column: 19,
		},
		{
			name:   "tuple target with bare value",
			input:  "for (A, B) in [x] { A }",
			target: ErrMalformedTupleTarget,
			attrs:  map[string]string{"expected": "2", "value": "x"},
			line:   1,
			column: 16,
		},
		{
			name:   "tuple value with trailing comma",
			input:  "for (A, B) in [(x, y,)] { A }",
			target: ErrArityMismatch,
			attrs:  map[string]string{"expected": "2", "actual": "3"},
			line:   1,
			column: 16,
		},
		{
			name:   "tuple value with empty element",
			input:  "for (A, B) in [(x, , y)] { A }",
			target: ErrArityMismatch,
			attrs:  map[string]string{"expected": "2", "actual": "3"},
			line:   1,
			column: 16,
		},
		{
			name:   "tuple target with bracketed value",
			input:  "for (A, B) in {[x, y]} { A }",
			target: ErrMalformedTupleTarget,
			line:   1,
			column: 16,
		},
		{
			name:   "name bound twice in one chain",
			input:  "for X in [a] for X in [b] { X }",
			target: ErrDuplicateBinding,
			attrs:  map[string]string{"name": "X", "previous": "1:5"},
			line:   1,
			column: 18,
		},
		{
			name:   "name repeated in tuple",
			input:  "for (X, X) in [(a, b)] { X }",
			target: ErrDuplicateBinding,
			attrs:  map[string]string{"name": "X"},
			line:   1,
			column: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandSource(t, tt.input)
			if err == nil {
				t.Fatalf("expected error, got %q", got)
			}

			if got != nil {
				t.Errorf("partial output returned with error: %q", got)
			}

			if !errors.Is(err, tt.target) {
				t.Fatalf("error %v is not %v", err, tt.target)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			for key, want := range tt.attrs {
				v, ok := e.Attr(key)
				if !ok {
					t.Errorf("missing attribute %q in %v", key, err)

					continue
				}

				if v.String() != want {
					t.Errorf("attribute %q = %q, want %q", key, v.String(), want)
				}
			}

			pos := e.Position()
			if pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("position = %v, want %d:%d", pos, tt.line, tt.column)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	script := mustParse(t,
		"let T = [a, b] + [c]; for X in T for Y in [X, d] { X Y } tail")

	first, err := Evaluate(t.Context(), script)
	if err != nil {
		t.Fatalf("first evaluation failed: %v", err)
	}

	second, err := Evaluate(t.Context(), script)
	if err != nil {
		t.Fatalf("second evaluation failed: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("evaluations differ:\n%v\n%v", first, second)
	}

	want := "a a a d b b b d c c c d tail"
	if got := first.String(); got != want {
		t.Errorf("Evaluate() = %q, want %q", got, want)
	}
}

func TestEvaluate_NilScript(t *testing.T) {
	out, err := Evaluate(t.Context(), nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Errorf("Evaluate(nil) = %v, %v; want empty, nil", out, err)
	}
}

func TestEvaluate_MaxCombinations(t *testing.T) {
	src := "for A in [a, b] for B in [c, d] { A B }"

	if _, err := expandSource(t, src, WithMaxCombinations(4)); err != nil {
		t.Fatalf("limit 4: unexpected error: %v", err)
	}

	_, err := expandSource(t, src, WithMaxCombinations(3))
	if !errors.Is(err, ErrTooManyCombinations) {
		t.Fatalf("limit 3: error = %v, want ErrTooManyCombinations", err)
	}

	var e *Error
	if errors.As(err, &e) {
		if v, ok := e.Attr("limit"); !ok || v.Int64() != 3 {
			t.Errorf("limit attribute = %v, want 3", v)
		}
	}

	if _, err := expandSource(t, src, WithMaxCombinations(-1)); err != nil {
		t.Errorf("negative limit should be unbounded: %v", err)
	}
}

func TestEvaluator_Session(t *testing.T) {
	ctx := t.Context()
	ev := NewEvaluator()

	if _, err := ev.Eval(ctx, mustParse(t, "let T = [a, b];")); err != nil {
		t.Fatalf("let failed: %v", err)
	}

	out, err := ev.Eval(ctx, mustParse(t, "for X in T { X }"))
	if err != nil {
		t.Fatalf("for failed: %v", err)
	}

	if got, want := out.String(), "a b"; got != want {
		t.Errorf("Eval() = %q, want %q", got, want)
	}

	// A failing script leaves the bindings untouched.
	_, err = ev.Eval(ctx, mustParse(t, "let U = [c]; for X in Missing { X }"))
	if !errors.Is(err, ErrUndefinedBinding) {
		t.Fatalf("error = %v, want ErrUndefinedBinding", err)
	}

	if _, ok := ev.Env().Lookup("U"); ok {
		t.Error("let from failed script was committed")
	}

	names := slices.Collect(ev.Env().Names())
	if !slices.Equal(names, []string{"T"}) {
		t.Errorf("names = %v, want [T]", names)
	}

	ev.Reset()

	if ev.Env().Len() != 0 {
		t.Errorf("Reset left %d bindings", ev.Env().Len())
	}
}

func TestError_Format(t *testing.T) {
	err := ErrArityMismatch.
		WithPosition(mustScan(t, "\n  x")[0].Pos).
		With(slog.Int("expected", 2), slog.Int("actual", 3))

	want := "2:3: tuple arity mismatch expected=2 actual=3"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrArityMismatch) || errors.Is(err, ErrUndefinedBinding) {
		t.Error("errors.Is does not match the originating sentinel")
	}

	wrapped := ErrReadInput.Wrap(errors.New("boom"))
	if got, want := wrapped.Error(), "failed to read input: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if WrapError(err) != err {
		t.Error("WrapError should return an existing *Error unchanged")
	}
}
