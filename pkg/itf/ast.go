package itf

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

// Document is the generic parse tree of an ITF file. It carries no domain
// meaning: keys are kept as written and values are untyped.
type Document struct {
	Assignments []*Assignment // Top-level KEY = VALUE statements
	Blocks      []*Block      // KEYWORD NAME { ... } statements

	// Dropped lists blocks whose header was read but whose body could not
	// be parsed at all. Only Keyword, Name and Pos are set.
	Dropped []*Block
}

// ValueKind is the lexical class of a [Value].
type ValueKind int

const (
	ValueIdent ValueKind = iota
	ValueNumber
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	}
	return "identifier"
}

// Value is a single untyped scalar from the source.
type Value struct {
	Kind ValueKind
	Text string
	Pos  errors.Position
}

// Assignment is a KEY = VALUE pair.
type Assignment struct {
	Key   string
	Value Value
	Pos   errors.Position
}

// Block is a named DIELECTRIC, CONDUCTOR or VIA block.
type Block struct {
	Keyword     string // Upper-cased keyword
	Name        string
	Pos         errors.Position
	Assignments []*Assignment
	Tables      []*Table

	// Recovered is set when the parser skipped malformed input inside the
	// block. Fields may be missing as a consequence.
	Recovered bool
}

// Table is a sub-block of a layer: NAME [MODIFIER...] { sections }.
type Table struct {
	Name      string
	Modifiers []string
	Sections  []*Section
	Pos       errors.Position
}

// Section returns the last section named name (case-insensitive), or nil.
// Rows written directly inside the table braces form a section with an
// empty name.
func (t *Table) Section(name string) *Section {
	for i := len(t.Sections) - 1; i >= 0; i-- {
		if equalFold(t.Sections[i].Name, name) {
			return t.Sections[i]
		}
	}
	return nil
}

// Section is a named group of rows inside a table, e.g. WIDTHS { ... }.
// Rows follow the source layout: values on one line form a row, and every
// parenthesised tuple or nested brace group is a row of its own.
type Section struct {
	Name string
	Pos  errors.Position
	Rows [][]Value
}

// Values returns every value of s in row order.
func (s *Section) Values() []Value {
	var out []Value
	for _, r := range s.Rows {
		out = append(out, r...)
	}
	return out
}
