package lang

import (
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/permute/lang/token"
)

// operators lists the multi-character punctuation recognized as a single
// token, longest first so the scanner can take the first prefix match.
var operators = []string{
	"<<=", ">>=", "&^=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=",
	"<<", ">>", "..", ":=", "++", "--", "<-", "&^",
}

// Scan converts source text into a token tree. Brackets are matched and
// folded into group tokens; whitespace and comments are discarded.
//
// Identifiers, numeric literals, string, raw-string, and character literals,
// and punctuation are recognized in a way that accepts most C-family source.
// Every token records its source position.
func Scan(src string) (token.Sequence, error) {
	s := &scanner{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	return s.scanSequence(token.None, token.Position{})
}

// scanner holds the scanner state.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

// scanSequence scans tokens until the closing bracket of delim, or EOF when
// delim is [token.None]. open is the position of the opening bracket.
func (s *scanner) scanSequence(
	delim token.Delimiter,
	open token.Position,
) (token.Sequence, error) {
	seq := token.Sequence{}

	for {
		s.skipWhitespaceAndComments()

		if s.eof() {
			if delim != token.None {
				return nil, ErrParse.WithPosition(open).
					With(slog.String("unclosed", delim.Open()))
			}

			return seq, nil
		}

		pos := s.position()
		ch := s.peek()

		switch {
		case ch == '(' || ch == '[' || ch == '{':
			s.advance()

			d := openDelimiter(ch)

			inner, err := s.scanSequence(d, pos)
			if err != nil {
				return nil, err
			}

			seq = append(seq, token.Token{
				Kind:  token.Group,
				Delim: d,
				Inner: inner,
				Pos:   pos,
			})

		case ch == ')' || ch == ']' || ch == '}':
			if delim == token.None || delim.Close() != string(ch) {
				return nil, ErrParse.WithPosition(pos).
					With(slog.String("unexpected", string(ch)))
			}

			s.advance()

			return seq, nil

		case isIdentifierStart(ch):
			seq = append(seq, token.NewIdent(s.scanIdentifier()).At(pos))

		case ch >= '0' && ch <= '9':
			seq = append(seq, token.NewLiteral(s.scanNumber()).At(pos))

		case ch == '"':
			text, err := s.scanQuoted('"')
			if err != nil {
				return nil, err
			}

			seq = append(seq, token.NewLiteral(text).At(pos))

		case ch == '`':
			text, err := s.scanQuoted('`')
			if err != nil {
				return nil, err
			}

			seq = append(seq, token.NewLiteral(text).At(pos))

		case ch == '\'':
			if text, ok := s.scanChar(); ok {
				seq = append(seq, token.NewLiteral(text).At(pos))

				continue
			}

			// Not a character literal (e.g. a lifetime): lone quote.
			s.advance()
			seq = append(seq, token.NewPunct("'").At(pos))

		default:
			seq = append(seq, token.NewPunct(s.scanPunct()).At(pos))
		}
	}
}

func openDelimiter(ch rune) token.Delimiter {
	switch ch {
	case '(':
		return token.Paren
	case '[':
		return token.Bracket
	default:
		return token.Brace
	}
}

// scanIdentifier scans an identifier token.
func (s *scanner) scanIdentifier() string {
	start := s.pos

	s.advance()

	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}

	return string(s.input[start:s.pos])
}

// scanNumber scans a numeric literal including any type suffix (1u8),
// fraction (0.5), or signed exponent (1e-9).
func (s *scanner) scanNumber() string {
	start := s.pos
	hex := s.peekN(2) == "0x" || s.peekN(2) == "0X"

	for !s.eof() {
		ch := s.peek()

		switch {
		case isIdentifierContinue(ch):
			s.advance()

			if !hex && (ch == 'e' || ch == 'E') &&
				(s.peek() == '+' || s.peek() == '-') {
				s.advance()
			}

		case ch == '.' && s.pos+1 < len(s.input) &&
			s.input[s.pos+1] >= '0' && s.input[s.pos+1] <= '9':
			s.advance()

		default:
			return string(s.input[start:s.pos])
		}
	}

	return string(s.input[start:s.pos])
}

// scanQuoted scans a string delimited by quote. Backslash escapes are
// honored except in backquoted (raw) strings.
func (s *scanner) scanQuoted(quote rune) (string, error) {
	start, open := s.pos, s.position()

	s.advance() // skip opening quote

	for !s.eof() {
		ch := s.peek()
		if ch == '\\' && quote != '`' {
			s.advance() // skip backslash

			if !s.eof() {
				s.advance() // skip escaped char
			}

			continue
		}

		s.advance()

		if ch == quote {
			return string(s.input[start:s.pos]), nil
		}
	}

	return "", ErrParse.WithPosition(open).
		With(slog.String("unterminated", "string"))
}

// scanChar scans a character literal such as 'a' or '\n'. It reports false,
// consuming nothing, when the quote does not begin one.
func (s *scanner) scanChar() (string, bool) {
	save := *s

	s.advance() // skip opening quote

	if s.eof() || s.peek() == '\n' {
		*s = save

		return "", false
	}

	if s.peek() == '\\' {
		s.advance() // skip backslash
		s.advance() // skip escaped char

		for !s.eof() && s.peek() != '\'' && s.peek() != '\n' {
			s.advance()
		}
	} else {
		s.advance()
	}

	if s.peek() != '\'' {
		*s = save

		return "", false
	}

	s.advance()

	return string(s.input[save.pos:s.pos]), true
}

// scanPunct scans the longest operator at the current position, or a single
// rune.
func (s *scanner) scanPunct() string {
	for _, op := range operators {
		if s.peekN(len(op)) == op {
			for range op {
				s.advance()
			}

			return op
		}
	}

	start := s.pos

	s.advance()

	return string(s.input[start:s.pos])
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return string(s.input[s.pos:])
	}

	return string(s.input[s.pos : s.pos+n])
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() token.Position {
	return token.Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for {
		for !s.eof() && unicode.IsSpace(s.peek()) {
			s.advance()
		}

		switch s.peekN(2) {
		case "//":
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}

		case "/*":
			s.advance() // skip '/'
			s.advance() // skip '*'

			for !s.eof() && s.peekN(2) != "*/" {
				s.advance()
			}

			s.advance() // skip '*'
			s.advance() // skip '/'

		default:
			return
		}
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
