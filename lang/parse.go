package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/permute/lang/token"
)

// Keywords recognized at the top level of a script.
const (
	keywordLet    = "let"
	keywordFor    = "for"
	keywordIn     = "in"
	keywordStatic = "static"
)

// Parse builds a script from an already scanned token tree.
//
// Grammar (informal, over tokens):
//
//	Script   → Item*
//	Item     → Let | For | Static | Raw
//	Let      → 'let' Ident '=' Terms ';'
//	For      → ('for' Target 'in' Terms)+ Brace
//	Static   → 'static' Brace
//	Raw      → <tokens up to the next Let, For, or Static>
//	Target   → Ident | Paren(Ident (',' Ident)* ','?)
//	Terms    → Term (('+' | '-') Term)*
//	Term     → Ident | Brace(Entries) | Bracket(Entries)
//	Entries  → (Tokens (',' Tokens)* ','?)?
//
// A list entry that is exactly one group of the list's own bracket kind is
// unwrapped by one layer, so [[a, b], c] has the two entries "a, b" and "c".
// A top-level "let" or "for" is only recognized when followed by a target,
// "=" or "in", and the start of a term; otherwise it is kept as raw static
// tokens, so ordinary source such as "for i in 0..n { }" passes through.
func Parse(
	ctx context.Context,
	seq token.Sequence,
	opts ...Option,
) (*Script, error) {
	o := makeOptions(opts...)

	p := &parser{toks: seq}

	script, err := p.parseScript()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(seq)),
		slog.Int("item_count", len(script.Items)),
	)

	return script, nil
}

// parser holds the parser state.
type parser struct {
	toks token.Sequence
	pos  int
}

// parseScript parses the entire input as a list of items.
func (p *parser) parseScript() (*Script, error) {
	script := &Script{Items: make([]Item, 0)}

	for !p.eof() {
		var (
			item Item
			err  error
		)

		switch {
		case p.atLet():
			item, err = p.parseLet()

		case p.atFor():
			item, err = p.parseFor()

		case p.atStatic():
			kw := p.next()
			body := p.next()
			item = &Static{Body: body.Inner, Position: kw.Pos}

		default:
			item = p.parseRaw()
		}

		if err != nil {
			return nil, err
		}

		script.Items = append(script.Items, item)
	}

	return script, nil
}

// atLet reports whether the input continues with "let <ident> = <term>".
func (p *parser) atLet() bool {
	return p.peekAt(0).IsIdent(keywordLet) &&
		p.peekAt(1).Kind == token.Ident &&
		p.peekAt(2).IsPunct("=") &&
		isTermStart(p.peekAt(3))
}

// atFor reports whether the input continues with "for <target> in <term>".
func (p *parser) atFor() bool {
	if !p.peekAt(0).IsIdent(keywordFor) {
		return false
	}

	target := p.peekAt(1)

	return (target.Kind == token.Ident || target.IsGroup(token.Paren)) &&
		p.peekAt(2).IsIdent(keywordIn) &&
		isTermStart(p.peekAt(3))
}

func isTermStart(t token.Token) bool {
	return t.Kind == token.Ident ||
		t.IsGroup(token.Brace) ||
		t.IsGroup(token.Bracket)
}

// atStatic reports whether the input continues with "static { ... }".
func (p *parser) atStatic() bool {
	return p.peekAt(0).IsIdent(keywordStatic) &&
		p.peekAt(1).IsGroup(token.Brace)
}

// parseLet parses: 'let' Ident '=' Terms ';'.
func (p *parser) parseLet() (*Let, error) {
	kw := p.next()
	name := p.next()
	p.next() // '='

	first, rest, err := p.parseTerms()
	if err != nil {
		return nil, err
	}

	if !p.peek().IsPunct(";") {
		return nil, p.errorf("expected", ";").
			With(slog.String("let", name.Text))
	}

	p.next()

	return &Let{
		Name:     name,
		First:    first,
		Rest:     rest,
		Position: kw.Pos,
	}, nil
}

// parseFor parses: ('for' Target 'in' Terms)+ Brace.
func (p *parser) parseFor() (*For, error) {
	f := &For{Position: p.peek().Pos}

	for p.atFor() {
		p.next() // 'for'

		target, err := p.parseTarget()
		if err != nil {
			return nil, err
		}

		p.next() // 'in'

		first, rest, err := p.parseTerms()
		if err != nil {
			return nil, err
		}

		f.Bindings = append(f.Bindings, Binding{
			Target: target,
			First:  first,
			Rest:   rest,
		})
	}

	if !p.peek().IsGroup(token.Brace) {
		return nil, p.errorf("expected", "{")
	}

	f.Body = p.next().Inner

	return f, nil
}

// parseTarget parses: Ident | Paren(Ident (',' Ident)*).
func (p *parser) parseTarget() (Target, error) {
	t := p.next()

	if t.Kind == token.Ident {
		return Target{Names: []token.Token{t}, Position: t.Pos}, nil
	}

	target := Target{Tuple: true, Position: t.Pos}

	for _, part := range t.Inner.Split(",") {
		if len(part) != 1 || part[0].Kind != token.Ident {
			return Target{}, ErrParse.WithPosition(t.Pos).
				With(slog.String("invalid", "tuple target"))
		}

		target.Names = append(target.Names, part[0])
	}

	return target, nil
}

// parseTerms parses: Term (('+' | '-') Term)*.
func (p *parser) parseTerms() (Term, []SignedTerm, error) {
	first, err := p.parseTerm()
	if err != nil {
		return Term{}, nil, err
	}

	var rest []SignedTerm

	for {
		var op Op

		switch {
		case p.peek().IsPunct("+"):
			op = OpAdd
		case p.peek().IsPunct("-"):
			op = OpSub
		default:
			return first, rest, nil
		}

		p.next()

		term, err := p.parseTerm()
		if err != nil {
			return Term{}, nil, err
		}

		rest = append(rest, SignedTerm{Op: op, Term: term})
	}
}

// parseTerm parses: Ident | Brace(Entries) | Bracket(Entries).
func (p *parser) parseTerm() (Term, error) {
	t := p.peek()

	switch {
	case t.Kind == token.Ident:
		p.next()

		return Term{Kind: TermRef, Ref: t, Position: t.Pos}, nil

	case t.IsGroup(token.Brace) || t.IsGroup(token.Bracket):
		p.next()

		return Term{
			Kind:     TermList,
			Delim:    t.Delim,
			Entries:  listEntries(t),
			Position: t.Pos,
		}, nil

	default:
		return Term{}, p.errorf("expected", "binding term")
	}
}

// listEntries splits a list group into its entries, dropping empty ones and
// unwrapping entries enclosed in the list's own bracket kind.
func listEntries(list token.Token) []token.Sequence {
	var entries []token.Sequence

	for _, part := range list.Inner.Split(",") {
		if len(part) == 0 {
			continue
		}

		if len(part) == 1 && part[0].IsGroup(list.Delim) {
			part = part[0].Inner
		}

		entries = append(entries, part)
	}

	return entries
}

// parseRaw collects tokens up to the start of the next structured item.
func (p *parser) parseRaw() *Static {
	start := p.pos

	p.next()

	for !p.eof() && !p.atLet() && !p.atFor() && !p.atStatic() {
		p.next()
	}

	body := p.toks[start:p.pos:p.pos]

	return &Static{Body: body, Position: body[0].Pos}
}

// Helper methods

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token.Token { return p.peekAt(0) }

// peekAt returns the token n places ahead, or an empty punct past the end.
func (p *parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return token.Token{Kind: token.Punct}
	}

	return p.toks[p.pos+n]
}

func (p *parser) next() token.Token {
	t := p.peek()

	if !p.eof() {
		p.pos++
	}

	return t
}

// errorf returns a parse error at the current token.
func (p *parser) errorf(key, value string) *Error {
	pos := p.peek().Pos
	if p.eof() && len(p.toks) > 0 {
		pos = p.toks[len(p.toks)-1].Pos
	}

	return ErrParse.WithPosition(pos).With(slog.String(key, value))
}
