package itf

import (
	"strings"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// blockKeywords are the statement keywords that open a named block.
var blockKeywords = map[string]bool{
	"DIELECTRIC": true,
	"CONDUCTOR":  true,
	"VIA":        true,
}

func isBlockKeyword(s string) bool { return blockKeywords[strings.ToUpper(s)] }

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }

// Parse builds a [Document] from tokens. It does not stop at the first
// problem: every unknown token is reported as a LexError, every malformed
// statement as a SyntaxError, and parsing resumes at the next statement.
//
// Inside a block the parser resynchronises at the next "KEY =", table header
// or closing brace; at top level it resynchronises at the next "KEY =" or
// "KEYWORD NAME {". Blocks that needed recovery are marked Recovered.
func Parse(tokens []Token) (*Document, errors.List) {
	p := &parser{toks: tokens}
	doc := p.parseDocument()
	return doc, p.errs.List()
}

type parser struct {
	toks []Token
	i    int
	errs errors.Collector
}

func (p *parser) tok() Token { return p.peek(0) }

func (p *parser) peek(n int) Token {
	if j := p.i + n; j < len(p.toks) {
		return p.toks[j]
	}
	if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		return Token{Kind: TokenEOF, Pos: last.Pos}
	}
	return Token{Kind: TokenEOF, Pos: errors.Position{Line: 1, Column: 1}}
}

func (p *parser) next() Token {
	t := p.tok()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) lexError(t Token) {
	if strings.HasPrefix(t.Literal, `"`) || strings.HasPrefix(t.Literal, "'") {
		p.errs.Addf(errors.KindLex, t.Pos, "unterminated string %s", t.Literal)
		return
	}
	p.errs.Addf(errors.KindLex, t.Pos, "unrecognised character %q", t.Literal)
}

func (p *parser) syntaxError(t Token, format string, args ...any) {
	p.errs.Addf(errors.KindSyntax, t.Pos, format, args...)
}

// unexpected reports t as the wrong token: a LexError for an unknown token,
// a SyntaxError otherwise.
func (p *parser) unexpected(t Token, format string, args ...any) {
	if t.Kind == TokenUnknown {
		p.lexError(t)
		return
	}
	p.syntaxError(t, format, args...)
}

func isName(k TokenKind) bool {
	return k == TokenIdent || k == TokenString || k == TokenNumber
}

// blockHeaderAhead reports whether the tokens at the cursor read
// KEYWORD NAME {.
func (p *parser) blockHeaderAhead() bool {
	return p.tok().Kind == TokenIdent && isBlockKeyword(p.tok().Literal) &&
		isName(p.peek(1).Kind) && p.peek(2).Kind == TokenLBrace
}

// tableAhead reports whether the tokens at the cursor read
// NAME [MODIFIER...] {.
func (p *parser) tableAhead() bool {
	if p.tok().Kind != TokenIdent {
		return false
	}
	for n := 1; ; n++ {
		switch p.peek(n).Kind {
		case TokenIdent:
		case TokenLBrace:
			return true
		default:
			return false
		}
	}
}

func (p *parser) parseDocument() *Document {
	doc := &Document{}
	for {
		t := p.tok()
		switch {
		case t.Kind == TokenEOF:
			return doc
		case t.Kind == TokenUnknown:
			p.lexError(t)
			p.next()
		case t.Kind == TokenIdent && p.peek(1).Kind == TokenEquals:
			a, ok := p.parseAssignment()
			if a != nil {
				doc.Assignments = append(doc.Assignments, a)
			}
			if !ok {
				p.syncTop()
			}
		case t.Kind == TokenIdent && isBlockKeyword(t.Literal):
			p.parseBlock(doc)
		default:
			p.syntaxError(t, "expected KEY = VALUE or a DIELECTRIC, CONDUCTOR or VIA block, found %s", t)
			p.syncTop()
		}
	}
}

// parseAssignment reads KEY = VALUE. The cursor must be on KEY with '='
// following it. The assignment is nil when the value is missing or
// malformed; ok is false when the caller has to resynchronise.
func (p *parser) parseAssignment() (a *Assignment, ok bool) {
	key := p.next()
	eq := p.next()

	if p.statementEndAhead() {
		p.syntaxError(eq, "expected a value after %s =", key.Literal)
		return nil, true
	}

	v := p.tok()
	var kind ValueKind
	switch v.Kind {
	case TokenIdent:
		kind = ValueIdent
	case TokenNumber:
		kind = ValueNumber
	case TokenString:
		kind = ValueString
	default:
		p.unexpected(v, "expected a value after %s =, found %s", key.Literal, v)
		return nil, false
	}
	p.next()
	return &Assignment{
		Key:   key.Literal,
		Value: Value{Kind: kind, Text: v.Literal, Pos: v.Pos},
		Pos:   key.Pos,
	}, true
}

// statementEndAhead reports whether the cursor is on something that ends
// the current statement: the next KEY =, a block header, '}' or EOF.
func (p *parser) statementEndAhead() bool {
	switch t := p.tok(); {
	case t.Kind == TokenEOF, t.Kind == TokenRBrace:
		return true
	case t.Kind == TokenIdent && p.peek(1).Kind == TokenEquals:
		return true
	}
	return p.blockHeaderAhead()
}

func (p *parser) parseBlock(doc *Document) {
	kw := p.next()
	keyword := strings.ToUpper(kw.Literal)

	name := p.tok()
	if !isName(name.Kind) {
		p.unexpected(name, "expected a name after %s, found %s", keyword, name)
		p.syncTop()
		return
	}
	p.next()

	if open := p.tok(); open.Kind != TokenLBrace {
		p.unexpected(open, "expected '{' after %s %s, found %s", keyword, name.Literal, open)
		doc.Dropped = append(doc.Dropped, &Block{Keyword: keyword, Name: name.Literal, Pos: kw.Pos})
		p.syncTop()
		return
	}
	p.next()

	b := &Block{Keyword: keyword, Name: name.Literal, Pos: kw.Pos}
	p.parseBody(b)
	doc.Blocks = append(doc.Blocks, b)
}

func (p *parser) parseBody(b *Block) {
	for {
		t := p.tok()
		switch {
		case t.Kind == TokenRBrace:
			p.next()
			return
		case t.Kind == TokenEOF:
			p.syntaxError(t, "missing '}' to close %s %s opened at %s", b.Keyword, b.Name, b.Pos)
			b.Recovered = true
			return
		case t.Kind == TokenUnknown:
			p.lexError(t)
			p.next()
		case t.Kind == TokenIdent && p.peek(1).Kind == TokenEquals:
			a, ok := p.parseAssignment()
			if a != nil {
				b.Assignments = append(b.Assignments, a)
			} else {
				b.Recovered = true
			}
			if !ok {
				p.syncBlock()
			}
		case p.blockHeaderAhead():
			p.syntaxError(t, "missing '}' to close %s %s opened at %s", b.Keyword, b.Name, b.Pos)
			b.Recovered = true
			return
		case p.tableAhead():
			tbl, ok := p.parseTable()
			b.Tables = append(b.Tables, tbl)
			if !ok {
				b.Recovered = true
			}
		case t.Kind == TokenIdent:
			p.next()
			p.unexpected(p.tok(), "expected '=' or '{' after %s in %s %s, found %s",
				t.Literal, b.Keyword, b.Name, p.tok())
			b.Recovered = true
			p.syncBlock()
		default:
			p.syntaxError(t, "expected KEY = VALUE or a table in %s %s, found %s", b.Keyword, b.Name, t)
			b.Recovered = true
			p.syncBlock()
		}
	}
}

// parseTable reads NAME [MODIFIER...] { sections }. It returns false when
// part of the table had to be skipped.
func (p *parser) parseTable() (*Table, bool) {
	name := p.next()
	t := &Table{Name: name.Literal, Pos: name.Pos}
	for p.tok().Kind == TokenIdent {
		t.Modifiers = append(t.Modifiers, p.next().Literal)
	}
	p.next()

	ok := true
	for {
		tok := p.tok()
		switch {
		case tok.Kind == TokenRBrace:
			p.next()
			return t, ok
		case tok.Kind == TokenEOF:
			p.syntaxError(tok, "missing '}' to close table %s opened at %s", t.Name, t.Pos)
			return t, false
		case tok.Kind == TokenUnknown:
			p.lexError(tok)
			p.next()
		case tok.Kind == TokenIdent && p.peek(1).Kind == TokenLBrace:
			sec := &Section{Name: tok.Literal, Pos: tok.Pos}
			p.next()
			p.next()
			rows, done := p.parseRows()
			sec.Rows = rows
			t.Sections = append(t.Sections, sec)
			if !done {
				ok = false
				p.skipToClose()
			}
		case tok.Kind == TokenNumber, tok.Kind == TokenLParen, tok.Kind == TokenLBrace,
			tok.Kind == TokenString:
			// Rows directly inside the table braces, as in CRT_VS_SI_WIDTH.
			sec := &Section{Pos: tok.Pos}
			rows, done := p.parseRows()
			sec.Rows = rows
			t.Sections = append(t.Sections, sec)
			if !done {
				p.skipToClose()
				return t, false
			}
			return t, ok
		default:
			p.syntaxError(tok, "expected a section such as WIDTHS { ... } in table %s, found %s", t.Name, tok)
			p.skipToClose()
			return t, false
		}
	}
}

// parseRows reads the rows of a section up to and including its closing
// brace. It returns false, leaving the cursor on the offending token, when it
// meets something that cannot be part of a row.
func (p *parser) parseRows() ([][]Value, bool) {
	var (
		rows [][]Value
		cur  []Value
		line int
	)
	flush := func() {
		if len(cur) > 0 {
			rows = append(rows, cur)
			cur = nil
		}
	}

	for {
		t := p.tok()
		switch t.Kind {
		case TokenRBrace:
			flush()
			p.next()
			return rows, true
		case TokenEOF:
			flush()
			p.syntaxError(t, "missing '}' to close section")
			return rows, false
		case TokenNumber, TokenIdent, TokenString:
			if len(cur) > 0 && t.Pos.Line != line {
				flush()
			}
			cur = append(cur, tokenValue(t))
			line = t.Pos.Line
			p.next()
		case TokenComma:
			p.next()
		case TokenLParen:
			flush()
			row, ok := p.parseGroup(TokenRParen)
			if !ok {
				return rows, false
			}
			rows = append(rows, row)
		case TokenLBrace:
			flush()
			row, ok := p.parseGroup(TokenRBrace)
			if !ok {
				return rows, false
			}
			rows = append(rows, row)
		case TokenUnknown:
			p.lexError(t)
			p.next()
		default:
			flush()
			p.syntaxError(t, "unexpected %s in table data", t)
			return rows, false
		}
	}
}

// parseGroup reads a parenthesised tuple or nested brace group as a single
// row. The cursor must be on the opening token.
func (p *parser) parseGroup(closer TokenKind) ([]Value, bool) {
	open := p.next()
	var row []Value
	for {
		t := p.tok()
		switch t.Kind {
		case closer:
			p.next()
			return row, true
		case TokenNumber, TokenIdent, TokenString:
			row = append(row, tokenValue(t))
			p.next()
		case TokenComma:
			p.next()
		case TokenUnknown:
			p.lexError(t)
			p.next()
		case TokenEOF:
			p.syntaxError(t, "missing %s to close %s opened at %s", closer, open.Kind, open.Pos)
			return row, false
		default:
			p.syntaxError(t, "expected %s to close %s opened at %s, found %s", closer, open.Kind, open.Pos, t)
			return row, false
		}
	}
}

func tokenValue(t Token) Value {
	kind := ValueIdent
	switch t.Kind {
	case TokenNumber:
		kind = ValueNumber
	case TokenString:
		kind = ValueString
	}
	return Value{Kind: kind, Text: t.Literal, Pos: t.Pos}
}

// skipBraced skips a balanced {...} group starting at the cursor.
func (p *parser) skipBraced() {
	p.next()
	p.skipToClose()
}

// skipToClose skips tokens up to and including the '}' that closes the
// current nesting level.
func (p *parser) skipToClose() {
	depth := 0
	for {
		t := p.tok()
		switch t.Kind {
		case TokenEOF:
			return
		case TokenLBrace:
			depth++
		case TokenRBrace:
			if depth == 0 {
				p.next()
				return
			}
			depth--
		case TokenUnknown:
			p.lexError(t)
		}
		p.next()
	}
}

// syncBlock skips to the next entry of the current block. The token at the
// cursor has already been reported and is never treated as a sync point.
func (p *parser) syncBlock() {
	first := true
	for {
		t := p.tok()
		switch {
		case t.Kind == TokenEOF, t.Kind == TokenRBrace:
			return
		case t.Kind == TokenLBrace:
			p.skipBraced()
			first = false
			continue
		case !first && t.Kind == TokenIdent && (p.peek(1).Kind == TokenEquals || p.tableAhead()):
			return
		case !first && t.Kind == TokenUnknown:
			p.lexError(t)
		}
		p.next()
		first = false
	}
}

// syncTop skips to the next top-level statement. The token at the cursor
// has already been reported and is never treated as a sync point.
func (p *parser) syncTop() {
	first := true
	for {
		t := p.tok()
		switch {
		case t.Kind == TokenEOF:
			return
		case t.Kind == TokenLBrace:
			p.skipBraced()
			first = false
			continue
		case !first && t.Kind == TokenIdent && (p.peek(1).Kind == TokenEquals || p.blockHeaderAhead()):
			return
		case !first && t.Kind == TokenUnknown:
			p.lexError(t)
		}
		p.next()
		first = false
	}
}
