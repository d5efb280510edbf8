package token

import (
	"iter"
	"slices"
	"strings"
)

// Set is an insertion-ordered collection of sequences with no two elements
// structurally equal. The first occurrence of an element fixes its position.
//
// The zero value is an empty set ready to use. A Set is not safe for
// concurrent mutation; sets shared between evaluations are only read.
type Set struct {
	items  []Sequence
	bucket map[uint64][]int // hash -> indexes into items
}

// NewSet returns a set containing seqs, duplicates removed.
func NewSet(seqs ...Sequence) *Set {
	s := &Set{
		items:  make([]Sequence, 0, len(seqs)),
		bucket: make(map[uint64][]int, len(seqs)),
	}

	for _, seq := range seqs {
		s.Add(seq)
	}

	return s
}

// Len returns the number of elements in s.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}

// At returns the i'th element in insertion order.
func (s *Set) At(i int) Sequence { return s.items[i] }

// Add inserts seq unless an equal element is already present.
// It reports whether seq was inserted.
func (s *Set) Add(seq Sequence) bool {
	h := seq.Hash()
	if s.find(h, seq) >= 0 {
		return false
	}

	if s.bucket == nil {
		s.bucket = make(map[uint64][]int)
	}

	s.bucket[h] = append(s.bucket[h], len(s.items))
	s.items = append(s.items, seq)

	return true
}

// Contains reports whether an element equal to seq is present.
func (s *Set) Contains(seq Sequence) bool {
	if s.Len() == 0 {
		return false
	}

	return s.find(seq.Hash(), seq) >= 0
}

func (s *Set) find(h uint64, seq Sequence) int {
	for _, i := range s.bucket[h] {
		if s.items[i].Equal(seq) {
			return i
		}
	}

	return -1
}

// All returns an iterator over the elements of s in insertion order.
func (s *Set) All() iter.Seq2[int, Sequence] {
	return func(yield func(int, Sequence) bool) {
		if s == nil {
			return
		}

		for i, seq := range s.items {
			if !yield(i, seq) {
				return
			}
		}
	}
}

// Values returns the elements of s in insertion order.
// The returned slice is a copy.
func (s *Set) Values() []Sequence {
	if s == nil {
		return nil
	}

	return slices.Clone(s.items)
}

// Clone returns a shallow copy of s. Elements are shared; the copy can be
// extended without affecting s.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}

	c := &Set{
		items:  slices.Clone(s.items),
		bucket: make(map[uint64][]int, len(s.bucket)),
	}

	for h, idx := range s.bucket {
		c.bucket[h] = slices.Clone(idx)
	}

	return c
}

// Union returns a new set holding the elements of s followed by those
// elements of o not already in s.
func (s *Set) Union(o *Set) *Set {
	u := s.Clone()

	for _, seq := range o.All() {
		u.Add(seq)
	}

	return u
}

// Difference returns a new set holding the elements of s that are not in o,
// in their original order.
func (s *Set) Difference(o *Set) *Set {
	d := NewSet()

	for _, seq := range s.All() {
		if !o.Contains(seq) {
			d.Add(seq)
		}
	}

	return d
}

// Equal reports whether s and o hold equal elements in the same order.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}

	for i, seq := range s.All() {
		if !seq.Equal(o.items[i]) {
			return false
		}
	}

	return true
}

// String renders s as a bracketed, comma-separated list.
func (s *Set) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, seq := range s.All() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(seq.String())
	}

	sb.WriteByte(']')

	return sb.String()
}
