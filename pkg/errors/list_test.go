package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestListErr(t *testing.T) {
	var empty List
	if empty.Err() != nil {
		t.Error("empty List.Err() should be nil")
	}

	l := List{At(KindLex, Position{Line: 1, Column: 2}, "bad")}
	if l.Err() == nil {
		t.Fatal("non-empty List.Err() should not be nil")
	}
}

func TestListError(t *testing.T) {
	tests := []struct {
		name string
		list List
		want string
	}{
		{"empty", nil, "no errors"},
		{"single", List{New(KindSyntax, "x")}, "SyntaxError: x"},
		{"many", List{New(KindSyntax, "x"), New(KindLex, "y"), New(KindLex, "z")}, "SyntaxError: x (and 2 more errors)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListFilterAndCount(t *testing.T) {
	l := List{
		New(KindSyntax, "a"),
		New(KindMissingField, "b"),
		New(KindSyntax, "c"),
	}

	if got := l.Count(KindSyntax); got != 2 {
		t.Errorf("Count(Syntax) = %d, want 2", got)
	}
	if got := len(l.Filter(KindMissingField)); got != 1 {
		t.Errorf("len(Filter(MissingField)) = %d, want 1", got)
	}
	if got := l.Filter(KindLex); got != nil {
		t.Errorf("Filter(Lex) = %v, want nil", got)
	}
}

func TestListDetail(t *testing.T) {
	l := List{
		At(KindSyntax, Position{Line: 1, Column: 1}, "a"),
		At(KindLex, Position{Line: 2, Column: 5}, "b"),
	}
	lines := strings.Split(l.Detail(), "\n")
	if len(lines) != 2 {
		t.Fatalf("Detail() has %d lines, want 2", len(lines))
	}
	if lines[1] != "2:5: LexError: b" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestAsList(t *testing.T) {
	list := List{New(KindSyntax, "a"), New(KindLex, "b")}

	got, ok := AsList(fmt.Errorf("parse file: %w", list))
	if !ok || len(got) != 2 {
		t.Errorf("AsList(wrapped list) = %v, %v; want 2 errors", got, ok)
	}

	got, ok = AsList(New(KindIO, "single"))
	if !ok || len(got) != 1 {
		t.Errorf("AsList(*Error) = %v, %v; want 1 error", got, ok)
	}

	if _, ok := AsList(errors.New("plain")); ok {
		t.Error("AsList(plain) should fail")
	}
	if _, ok := AsList(nil); ok {
		t.Error("AsList(nil) should fail")
	}
}

func TestListErrorsAs(t *testing.T) {
	var err error = List{New(KindSyntax, "a"), New(KindDanglingViaReference, "b")}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As should find a member")
	}
	if e.Kind != KindSyntax {
		t.Errorf("first member kind = %v, want %v", e.Kind, KindSyntax)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	if c.Len() != 0 || c.List() != nil {
		t.Fatal("zero Collector should be empty")
	}

	c.Add(nil)
	c.Addf(KindSyntax, Position{Line: 4, Column: 1}, "expected %s", "value")
	c.Merge(List{New(KindMissingField, "THICKNESS"), New(KindTypeMismatch, "ER")})

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	kinds := []Kind{KindSyntax, KindMissingField, KindTypeMismatch}
	for i, e := range c.List() {
		if e.Kind != kinds[i] {
			t.Errorf("List()[%d].Kind = %v, want %v", i, e.Kind, kinds[i])
		}
	}
}
