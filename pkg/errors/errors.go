// Package errors provides the structured error type shared by every stage
// of the ITF pipeline and by the tools built around it.
//
// Every error carries a [Kind], an optional source [Position] and a
// human-readable message. Stages never stop at the first problem: they
// append to a [Collector] and hand back a [List], so callers can show
// every problem in one pass.
//
// # Kinds
//
// Source kinds describe problems in ITF text:
//   - LexError: unrecognised character or unterminated string
//   - SyntaxError: malformed statement shape
//   - MissingField: a key required by a block kind is absent
//   - TypeMismatch: a value does not convert to the field's type
//   - DuplicateLayer: two layers share a name
//   - DanglingViaReference: a via endpoint names no layer
//   - TableShape: lookup table matrix does not match its breakpoints
//   - InvalidValue: a value violates a structural constraint
//
// Application kinds (InvalidInput, NotFound, IO, Internal) are used by the
// CLI, the pipeline and the HTTP server.
//
// # Usage
//
//	var c errors.Collector
//	c.Add(errors.At(errors.KindSyntax, tok.Pos, "expected '=' after %s", key))
//	return doc, c.List()
//
//	if list, ok := errors.AsList(err); ok {
//	    for _, e := range list { ... }
//	}
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

// Source error kinds. The first six are reported by the lexer, parser,
// builder and the first two validator checks. TableShape and InvalidValue
// come from the validator's structural pass: TableShape when a lookup
// table's rows and columns do not match its breakpoints or the breakpoints
// are not increasing, InvalidValue for out-of-range scalars such as a
// negative thickness.
const (
	KindLex                  Kind = "LexError"
	KindSyntax               Kind = "SyntaxError"
	KindMissingField         Kind = "MissingField"
	KindTypeMismatch         Kind = "TypeMismatch"
	KindDuplicateLayer       Kind = "DuplicateLayer"
	KindDanglingViaReference Kind = "DanglingViaReference"
	KindTableShape           Kind = "TableShape"
	KindInvalidValue         Kind = "InvalidValue"
)

// Application error kinds.
const (
	KindInvalidInput Kind = "InvalidInput"
	KindNotFound     Kind = "NotFound"
	KindIO           Kind = "IO"
	KindInternal     Kind = "Internal"
)

// Position is a 1-based line/column location in source text.
// The zero value means "no position".
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String formats p as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is a structured error with a kind, an optional location and cause.
type Error struct {
	Kind    Kind       // Machine-readable classification
	Pos     Position   // Source location (zero for application errors)
	Message string     // Human-readable message
	Related []Position // Other locations involved, e.g. the first declaration of a duplicate
	Cause   error      // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Pos.IsValid() {
		msg = e.Pos.String() + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Line returns the 1-based line of the error, or 0.
func (e *Error) Line() int { return e.Pos.Line }

// Column returns the 1-based column of the error, or 0.
func (e *Error) Column() int { return e.Pos.Column }

// New creates an Error without a source position.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// At creates an Error located at pos.
func At(kind Kind, pos Position, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err is, or contains, an *Error of the given kind.
// For a List, any member with that kind matches.
func Is(err error, kind Kind) bool {
	if list, ok := AsList(err); ok {
		for _, e := range list {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// As is errors.As from the standard library, so callers importing this
// package under the name errors keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// KindOf extracts the kind from an error, if available.
// Returns empty string if the error is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns the message without the kind prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
