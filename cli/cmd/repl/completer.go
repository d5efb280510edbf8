package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// keywords are the reserved words of the script syntax.
var keywords = []string{"let", "for", "in", "static"}

// previewWidth bounds the width of a binding preview in the list view.
const previewWidth = 60

// isWordBoundary reports whether r separates completion words. Words are
// identifiers: letters, digits, and underscores.
func isWordBoundary(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. The word is empty when the cursor sits between two
// boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inCommand reports whether a word starting at wordStart is a command name,
// which is the case when only the command prefix precedes it.
func inCommand(input string, wordStart int) bool {
	return strings.TrimSpace(input[:wordStart]) == commandPrefix
}

// candidatesFor returns the completion candidates for a word beginning at
// wordStart: command names after the command prefix, otherwise the session's
// bindings followed by the keywords.
func (m model) candidatesFor(input string, wordStart int) []string {
	if inCommand(input, wordStart) {
		return commandNames()
	}

	if strings.HasPrefix(strings.TrimSpace(input), commandPrefix) {
		return nil
	}

	names := slices.Collect(m.session.Names())

	return append(names, keywords...)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, along with the candidate list and the word
// boundaries. An empty word has no matches except directly after the command
// prefix, where every command is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	candidates = m.candidatesFor(input, wordStart)
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if !inCommand(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// formatPreview renders the list literal of a bound set holding n values,
// shortened to fit previewWidth.
func formatPreview(literal string, n int) string {
	if r := []rune(literal); len(r) > previewWidth {
		literal = string(r[:previewWidth-3]) + "..."
	}

	unit := "values"
	if n == 1 {
		unit = "value"
	}

	return fmt.Sprintf("%s (%d %s)", literal, n, unit)
}
