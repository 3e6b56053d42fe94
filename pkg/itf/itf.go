package itf

import (
	"bytes"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFromText runs the whole pipeline over text: lexing, parsing,
// building and validation. Every stage runs even when an earlier one
// reported problems, so the returned error lists everything wrong with the
// document in stage order. The error, when non-nil, is an [errors.List].
//
// A Stack is returned only when no stage reported anything.
func ParseFromText(text string) (*stack.Stack, error) {
	s, errs := Check(text)
	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// ParseFromSource is [ParseFromText] for raw file contents. A leading UTF-8
// byte order mark is ignored.
func ParseFromSource(src []byte) (*stack.Stack, error) {
	s, errs := CheckSource(src)
	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// Check is like [ParseFromText] but returns the error list with its
// concrete type.
func Check(text string) (*stack.Stack, errors.List) {
	var c errors.Collector

	doc, perrs := Parse(Tokenize(text))
	c.Merge(perrs)

	draft, berrs := Build(doc)
	c.Merge(berrs)

	s, verrs := stack.Validate(draft)
	c.Merge(verrs)

	if c.Len() > 0 {
		return nil, c.List()
	}
	return s, nil
}

// CheckSource is [Check] for raw file contents.
func CheckSource(src []byte) (*stack.Stack, errors.List) {
	return Check(string(bytes.TrimPrefix(src, utf8BOM)))
}
