package itf

import (
	"fmt"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// TokenKind classifies a [Token].
type TokenKind int

const (
	TokenEOF     TokenKind = iota
	TokenIdent             // Identifier or keyword; keywords are matched case-insensitively by the parser
	TokenNumber            // Integer, decimal or scientific literal with optional sign
	TokenString            // Quoted string; Literal excludes the quotes
	TokenEquals            // =
	TokenLBrace            // {
	TokenRBrace            // }
	TokenComma             // ,
	TokenLParen            // (
	TokenRParen            // )
	TokenUnknown           // Unrecognised character or unterminated string
)

var tokenNames = [...]string{
	TokenEOF:     "end of input",
	TokenIdent:   "identifier",
	TokenNumber:  "number",
	TokenString:  "string",
	TokenEquals:  "'='",
	TokenLBrace:  "'{'",
	TokenRBrace:  "'}'",
	TokenComma:   "','",
	TokenLParen:  "'('",
	TokenRParen:  "')'",
	TokenUnknown: "unknown token",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexeme with its 1-based source position.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     errors.Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenIdent, TokenNumber, TokenUnknown:
		return fmt.Sprintf("%q", t.Literal)
	case TokenString:
		return fmt.Sprintf("string %q", t.Literal)
	}
	return t.Kind.String()
}
