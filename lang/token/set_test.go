package token

import (
	"slices"
	"testing"
)

// names renders every element of s.
func names(s *Set) []string {
	var out []string
	for _, seq := range s.All() {
		out = append(out, seq.String())
	}

	return out
}

func set(elems ...string) *Set {
	s := NewSet()
	for _, e := range elems {
		s.Add(Idents(e))
	}

	return s
}

func TestSet_Add(t *testing.T) {
	s := NewSet()

	if !s.Add(Idents("u8")) {
		t.Error("first Add should insert")
	}

	if s.Add(Idents("u8")) {
		t.Error("duplicate Add should not insert")
	}

	s.Add(Idents("u16"))
	s.Add(Idents("u8"))

	if got, want := names(s), []string{"u8", "u16"}; !slices.Equal(got, want) {
		t.Errorf("elements = %v, want %v", got, want)
	}

	if !s.Contains(Idents("u16")) || s.Contains(Idents("u32")) {
		t.Errorf("Contains wrong for %v", s)
	}
}

func TestSet_ZeroValue(t *testing.T) {
	var s Set

	if s.Len() != 0 || s.Contains(Idents("a")) {
		t.Fatal("zero Set should be empty")
	}

	s.Add(Idents("a"))

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	var nilSet *Set
	if nilSet.Len() != 0 || nilSet.Values() != nil {
		t.Error("nil Set should behave as empty")
	}
}

func TestSet_Union(t *testing.T) {
	tests := []struct {
		name string
		a, b *Set
		want []string
	}{
		{"disjoint", set("a", "b"), set("c"), []string{"a", "b", "c"}},
		{"overlap keeps first position", set("a", "b"), set("b", "a", "c"), []string{"a", "b", "c"}},
		{"empty right", set("a"), NewSet(), []string{"a"}},
		{"empty left", NewSet(), set("x", "y"), []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := names(tt.a)

			got := names(tt.a.Union(tt.b))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Union() = %v, want %v", got, tt.want)
			}

			if after := names(tt.a); !slices.Equal(before, after) {
				t.Errorf("Union modified receiver: %v -> %v", before, after)
			}
		})
	}
}

func TestSet_Difference(t *testing.T) {
	tests := []struct {
		name string
		a, b *Set
		want []string
	}{
		{"remove middle", set("a", "b", "c"), set("b"), []string{"a", "c"}},
		{"remove absent", set("a"), set("z"), []string{"a"}},
		{"remove all", set("a", "b"), set("b", "a"), nil},
		{"empty right", set("a", "b"), NewSet(), []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.a.Difference(tt.b))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Difference() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSet_StructuralElements(t *testing.T) {
	pos := Position{Offset: 1, Line: 1, Column: 2}

	s := NewSet(
		Sequence{NewGroup(Paren, NewIdent("A").At(pos), NewPunct(","), NewIdent("u8"))},
		Sequence{NewGroup(Paren, NewIdent("A"), NewPunct(","), NewIdent("u8"))},
		Sequence{NewGroup(Bracket, NewIdent("A"), NewPunct(","), NewIdent("u8"))},
	)

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2: %v", s.Len(), s)
	}

	if !s.At(0)[0].Inner[0].Pos.IsValid() {
		t.Error("first occurrence should be kept")
	}
}

func TestSet_Clone(t *testing.T) {
	s := set("a")
	c := s.Clone()
	c.Add(Idents("b"))

	if s.Len() != 1 {
		t.Errorf("Clone shares storage: %v", s)
	}

	if !c.Contains(Idents("a")) {
		t.Errorf("Clone lost elements: %v", c)
	}
}

func TestSet_Equal_String(t *testing.T) {
	if !set("a", "b").Equal(set("a", "b")) {
		t.Error("equal sets reported unequal")
	}

	if set("a", "b").Equal(set("b", "a")) {
		t.Error("order should matter")
	}

	if got, want := set("a", "b").String(), "[a, b]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
