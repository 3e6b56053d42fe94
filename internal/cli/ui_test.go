package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/itfstack/pkg/errors"
)

func TestProblemCounts(t *testing.T) {
	pos := errors.Position{Line: 1, Column: 1}
	tests := []struct {
		name string
		list errors.List
		want string
	}{
		{
			name: "single",
			list: errors.List{errors.At(errors.KindSyntax, pos, "x")},
			want: "1 problem (1 SyntaxError)",
		},
		{
			name: "kinds in first-seen order",
			list: errors.List{
				errors.At(errors.KindTypeMismatch, pos, "a"),
				errors.At(errors.KindSyntax, pos, "b"),
				errors.At(errors.KindTypeMismatch, pos, "c"),
			},
			want: "3 problems (2 TypeMismatch, 1 SyntaxError)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := problemCounts(tt.list); got != tt.want {
				t.Errorf("problemCounts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintDiagnostics(t *testing.T) {
	dup := errors.At(errors.KindDuplicateLayer, errors.Position{Line: 7, Column: 1}, "layer %q declared twice", "M1")
	dup.Related = []errors.Position{{Line: 3, Column: 1}}
	list := errors.List{
		dup,
		errors.Wrap(errors.KindIO, bytes.ErrTooLarge, "read tech.itf"),
	}

	var buf bytes.Buffer
	printDiagnostics(&buf, "tech.itf", list)
	out := buf.String()

	for _, want := range []string{
		`tech.itf:7:1: DuplicateLayer: layer "M1" declared twice`,
		"see tech.itf:3:1",
		"tech.itf: IO: read tech.itf",
		bytes.ErrTooLarge.Error(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLayerTableOrder(t *testing.T) {
	table := layerTable(demoStack(t))
	fox := strings.Index(table, "fox")
	pad := strings.Index(table, "pad")
	if fox < 0 || pad < 0 || fox > pad {
		t.Errorf("layer table should list the bottom layer first:\n%s", table)
	}
}
