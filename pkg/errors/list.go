package errors

import (
	"errors"
	"fmt"
	"strings"
)

// List is an ordered collection of errors reported by one or more stages.
// A non-empty List is itself an error.
type List []*Error

// Error joins the first error with a count of the remaining ones.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

// Unwrap exposes the members to errors.Is and errors.As.
func (l List) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Err returns l as an error, or nil when l is empty.
// Use it instead of returning l directly to avoid a non-nil error
// interface holding an empty list.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Filter returns the members of l with the given kind.
func (l List) Filter(kind Kind) List {
	var out List
	for _, e := range l {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many members of l have the given kind.
func (l List) Count(kind Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Detail renders every member on its own line.
func (l List) Detail() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// AsList extracts a List from err. A single *Error is returned as a
// one-element list.
func AsList(err error) (List, bool) {
	if err == nil {
		return nil, false
	}
	var l List
	if errors.As(err, &l) {
		return l, true
	}
	var e *Error
	if errors.As(err, &e) {
		return List{e}, true
	}
	return nil, false
}

// Collector accumulates errors in the order they are reported.
// The zero value is ready to use. A Collector is not safe for concurrent use;
// every pipeline stage owns its own.
type Collector struct {
	errs List
}

// Add appends e. Nil errors are ignored.
func (c *Collector) Add(e *Error) {
	if e != nil {
		c.errs = append(c.errs, e)
	}
}

// Addf appends a positioned error built from format and args.
func (c *Collector) Addf(kind Kind, pos Position, format string, args ...any) {
	c.Add(At(kind, pos, format, args...))
}

// Merge appends every member of l.
func (c *Collector) Merge(l List) {
	c.errs = append(c.errs, l...)
}

// Len returns the number of collected errors.
func (c *Collector) Len() int { return len(c.errs) }

// List returns the collected errors. The result must not be modified.
func (c *Collector) List() List { return c.errs }
