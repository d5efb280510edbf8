package lang

import (
	"encoding/json"
	"strings"

	"github.com/ardnew/permute/lang/token"
)

// MarshalJSON implements json.Marshaler for Script.
func (s *Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// ToMap converts the script to native Go values: one map per item, keyed by
// the item kind.
//
//	[{"let": {"name": "T", "terms": "[u8, u16] - [u8]"}},
//	 {"for": {"bindings": [{"target": "X", "in": "T"}], "body": "X"}},
//	 {"static": "fn main() {}"}]
func (s *Script) ToMap() []any {
	result := make([]any, 0, len(s.Items))

	for _, item := range s.All() {
		result = append(result, itemToMap(item))
	}

	return result
}

func itemToMap(item Item) map[string]any {
	switch it := item.(type) {
	case *Static:
		return map[string]any{"static": it.Body.String()}

	case *Let:
		return map[string]any{
			"let": map[string]any{
				"name":  it.Name.Text,
				"terms": formatTerms(it.First, it.Rest),
			},
		}

	case *For:
		bindings := make([]any, len(it.Bindings))
		for i, b := range it.Bindings {
			bindings[i] = map[string]any{
				"target": b.Target.String(),
				"in":     formatTerms(b.First, b.Rest),
			}
		}

		return map[string]any{
			"for": map[string]any{
				"bindings": bindings,
				"body":     it.Body.String(),
			},
		}

	default:
		return nil
	}
}

// String renders the target as it appears in source.
func (t Target) String() string {
	if !t.Tuple {
		if len(t.Names) == 0 {
			return ""
		}

		return t.Names[0].Text
	}

	names := make([]string, len(t.Names))
	for i, n := range t.Names {
		names[i] = n.Text
	}

	return "(" + strings.Join(names, ", ") + ")"
}

// String renders the term as it appears in source.
func (t Term) String() string {
	if t.Kind == TermRef {
		return t.Ref.Text
	}

	delim := t.Delim
	if delim == token.None {
		delim = token.Bracket
	}

	entries := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = formatEntry(e, delim)
	}

	return delim.Open() + strings.Join(entries, ", ") + delim.Close()
}

// formatEntry renders a list entry, re-wrapping entries that need it to
// survive a round trip through the parser.
func formatEntry(e token.Sequence, delim token.Delimiter) string {
	wrap := len(e) == 1 && e[0].IsGroup(delim)

	if !wrap {
		if parts := e.Split(","); len(parts) > 1 {
			wrap = true
		}
	}

	if wrap {
		return delim.Open() + e.String() + delim.Close()
	}

	return e.String()
}

// formatTerms renders a term chain as it appears in source.
func formatTerms(first Term, rest []SignedTerm) string {
	var sb strings.Builder

	sb.WriteString(first.String())

	for _, st := range rest {
		sb.WriteByte(' ')
		sb.WriteString(st.Op.String())
		sb.WriteByte(' ')
		sb.WriteString(st.Term.String())
	}

	return sb.String()
}

// Render converts each sequence in chunks to text.
func Render(chunks []token.Sequence) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.String()
	}

	return out
}
