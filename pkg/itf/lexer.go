package itf

import (
	"unicode"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// Lexer splits ITF text into tokens. It never fails: characters it cannot
// classify are returned as [TokenUnknown] and left for the parser to report.
//
// Comments start with '$' (which also covers "$$") and run to the end of
// the line. Comments, whitespace and newlines produce no tokens.
type Lexer struct {
	src  []rune
	off  int
	line int
	col  int
}

// NewLexer returns a lexer positioned at the start of text.
func NewLexer(text string) *Lexer {
	return &Lexer{src: []rune(text), line: 1, col: 1}
}

// Tokenize returns every token of text, ending with a single [TokenEOF].
func Tokenize(text string) []Token {
	lx := NewLexer(text)
	var toks []Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == TokenEOF {
			return toks
		}
	}
}

// Next returns the next token. After the end of input it keeps returning
// [TokenEOF].
func (lx *Lexer) Next() Token {
	lx.skipSpaceAndComments()

	pos := lx.pos()
	if lx.off >= len(lx.src) {
		return Token{Kind: TokenEOF, Pos: pos}
	}

	r := lx.src[lx.off]
	switch r {
	case '=':
		return lx.single(TokenEquals, pos)
	case '{':
		return lx.single(TokenLBrace, pos)
	case '}':
		return lx.single(TokenRBrace, pos)
	case ',':
		return lx.single(TokenComma, pos)
	case '(':
		return lx.single(TokenLParen, pos)
	case ')':
		return lx.single(TokenRParen, pos)
	case '"', '\'':
		return lx.quoted(r, pos)
	}

	if n := lx.numberLen(); n > 0 {
		end := lx.off + n
		if end < len(lx.src) && isIdentRune(lx.src[end]) {
			// A number glued to identifier characters is a name such as "3DMETAL".
			return lx.word(pos)
		}
		lit := string(lx.src[lx.off:end])
		lx.advance(n)
		return Token{Kind: TokenNumber, Literal: lit, Pos: pos}
	}

	if isIdentRune(r) {
		return lx.word(pos)
	}

	return lx.single(TokenUnknown, pos)
}

func (lx *Lexer) pos() errors.Position {
	return errors.Position{Line: lx.line, Column: lx.col}
}

func (lx *Lexer) advance(n int) {
	for i := 0; i < n && lx.off < len(lx.src); i++ {
		if lx.src[lx.off] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.off++
	}
}

func (lx *Lexer) skipSpaceAndComments() {
	for lx.off < len(lx.src) {
		r := lx.src[lx.off]
		switch {
		case unicode.IsSpace(r):
			lx.advance(1)
		case r == '$':
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance(1)
			}
		default:
			return
		}
	}
}

func (lx *Lexer) single(kind TokenKind, pos errors.Position) Token {
	lit := string(lx.src[lx.off])
	lx.advance(1)
	return Token{Kind: kind, Literal: lit, Pos: pos}
}

func (lx *Lexer) word(pos errors.Position) Token {
	start := lx.off
	end := start
	for end < len(lx.src) && (isIdentRune(lx.src[end]) || lx.src[end] == '.') {
		end++
	}
	lx.advance(end - start)
	return Token{Kind: TokenIdent, Literal: string(lx.src[start:end]), Pos: pos}
}

// quoted reads a string closed by q on the same line. An unterminated
// string becomes a TokenUnknown holding the text up to the end of the line.
func (lx *Lexer) quoted(q rune, pos errors.Position) Token {
	start := lx.off
	end := start + 1
	for end < len(lx.src) && lx.src[end] != q && lx.src[end] != '\n' {
		end++
	}
	if end >= len(lx.src) || lx.src[end] != q {
		lx.advance(end - start)
		return Token{Kind: TokenUnknown, Literal: string(lx.src[start:end]), Pos: pos}
	}
	lit := string(lx.src[start+1 : end])
	lx.advance(end + 1 - start)
	return Token{Kind: TokenString, Literal: lit, Pos: pos}
}

// numberLen returns the length of the numeric literal at the current
// offset, or 0 if there is none:
//
//	[+-]? ( digits ( '.' digits? )? | '.' digits ) ( [eE] [+-]? digits )?
func (lx *Lexer) numberLen() int {
	s, i := lx.src[lx.off:], 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if d := countDigits(s[j:]); d > 0 {
			i = j + d
		}
	}
	return i
}

func countDigits(s []rune) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '-'
}
