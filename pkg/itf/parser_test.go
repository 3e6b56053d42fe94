package itf

import (
	"testing"

	"github.com/matzehuels/itfstack/pkg/errors"
)

func parseText(t *testing.T, text string) (*Document, errors.List) {
	t.Helper()
	return Parse(Tokenize(text))
}

func TestParseStatements(t *testing.T) {
	doc, errs := parseText(t, `
TECHNOLOGY = demo
global_temperature = 25.0
DIELECTRIC ild1 {THICKNESS=1.0 ER=4.2 CUSTOM_KEY=foo}
conductor m1 { THICKNESS = 0.5
    RPSQ = 0.1 }
VIA v1 {FROM=ild1 TO=m1 AREA=0.01 RPV=1.0}
`)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors:\n%s", errs.Detail())
	}

	if len(doc.Assignments) != 2 {
		t.Fatalf("len(Assignments) = %d, want 2", len(doc.Assignments))
	}
	if a := doc.Assignments[1]; a.Key != "global_temperature" || a.Value.Kind != ValueNumber || a.Value.Text != "25.0" {
		t.Errorf("Assignments[1] = %+v", a)
	}

	wantBlocks := []struct {
		keyword, name string
		keys          int
	}{
		{"DIELECTRIC", "ild1", 3},
		{"CONDUCTOR", "m1", 2},
		{"VIA", "v1", 4},
	}
	if len(doc.Blocks) != len(wantBlocks) {
		t.Fatalf("len(Blocks) = %d, want %d", len(doc.Blocks), len(wantBlocks))
	}
	for i, w := range wantBlocks {
		b := doc.Blocks[i]
		if b.Keyword != w.keyword || b.Name != w.name || len(b.Assignments) != w.keys {
			t.Errorf("Blocks[%d] = %s %s with %d keys, want %s %s with %d",
				i, b.Keyword, b.Name, len(b.Assignments), w.keyword, w.name, w.keys)
		}
		if b.Recovered {
			t.Errorf("Blocks[%d].Recovered = true", i)
		}
	}
}

func TestParseTables(t *testing.T) {
	doc, errs := parseText(t, `
CONDUCTOR m1 {
    THICKNESS = 0.5
    ETCH_VS_WIDTH_AND_SPACING ETCH_FROM_TOP CAPACITIVE_ONLY {
        WIDTHS { 0.1 0.2 0.3 }
        SPACINGS { 0.1, 0.2 }
        VALUES {
            1 2 3
            4 5 6
        }
    }
    CRT_VS_SI_WIDTH {
        (0.39, 3.6490e-03, -8.5347e-07)
        (0.45, 3.6830e-03, -8.5320e-07) (0.55, 3.7120e-03, -8.2470e-07)
    }
    POLYNOMIAL_BASED_THICKNESS_VARIATION {
        DENSITY_POLYNOMIAL_ORDERS { 0 1 }
        WIDTH_POLYNOMIAL_ORDERS { 0 1 }
        WIDTH_RANGES { 1.0 2.0 }
        POLYNOMIAL_COEFFICIENTS { {1 2 3 4} {5 6
            7 8} }
    }
}
`)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors:\n%s", errs.Detail())
	}
	b := doc.Blocks[0]
	if len(b.Tables) != 3 {
		t.Fatalf("len(Tables) = %d, want 3", len(b.Tables))
	}

	etch := b.Tables[0]
	if etch.Name != "ETCH_VS_WIDTH_AND_SPACING" || len(etch.Modifiers) != 2 || etch.Modifiers[1] != "CAPACITIVE_ONLY" {
		t.Errorf("etch table = %s %v", etch.Name, etch.Modifiers)
	}
	if got := len(etch.Section("widths").Values()); got != 3 {
		t.Errorf("WIDTHS values = %d, want 3", got)
	}
	if got := len(etch.Section("SPACINGS").Values()); got != 2 {
		t.Errorf("SPACINGS values = %d, want 2", got)
	}
	vals := etch.Section("VALUES")
	if len(vals.Rows) != 2 || len(vals.Rows[0]) != 3 || vals.Rows[1][2].Text != "6" {
		t.Errorf("VALUES rows = %v", vals.Rows)
	}

	crt := b.Tables[1]
	if len(crt.Sections) != 1 || crt.Sections[0].Name != "" {
		t.Fatalf("CRT sections = %+v", crt.Sections)
	}
	if rows := crt.Sections[0].Rows; len(rows) != 3 || len(rows[2]) != 3 {
		t.Errorf("CRT rows = %v, want 3 tuples", rows)
	}

	coeffs := b.Tables[2].Section("POLYNOMIAL_COEFFICIENTS")
	if len(coeffs.Rows) != 2 || len(coeffs.Rows[1]) != 4 {
		t.Errorf("POLYNOMIAL_COEFFICIENTS rows = %v, want 2 rows of 4", coeffs.Rows)
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kinds     []errors.Kind
		blocks    []string
		recovered []bool
	}{
		{
			name:      "unknown character in block",
			input:     "DIELECTRIC d { THICKNESS = 1 # ER = 4 }\nCONDUCTOR m { THICKNESS=1 RPSQ=1 }",
			kinds:     []errors.Kind{errors.KindLex},
			blocks:    []string{"d", "m"},
			recovered: []bool{false, false},
		},
		{
			name:      "missing value",
			input:     "DIELECTRIC d { THICKNESS = ER = 4 }\nCONDUCTOR m { THICKNESS=1 RPSQ=1 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"d", "m"},
			recovered: []bool{true, false},
		},
		{
			name:      "missing equals",
			input:     "DIELECTRIC d { THICKNESS 1 ER = 4 }\nCONDUCTOR m { THICKNESS=1 RPSQ=1 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"d", "m"},
			recovered: []bool{true, false},
		},
		{
			name:      "missing closing brace",
			input:     "DIELECTRIC d { THICKNESS = 1 ER = 4\nCONDUCTOR m { THICKNESS=1 RPSQ=1 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"d", "m"},
			recovered: []bool{true, false},
		},
		{
			name:      "stray top-level token",
			input:     "TECHNOLOGY = x\n42\nGLOBAL_TEMPERATURE = 25\nVIA v { FROM=a TO=b AREA=1 RPV=1 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"v"},
			recovered: []bool{false},
		},
		{
			name:      "missing block name",
			input:     "CONDUCTOR { THICKNESS = 1 }\nDIELECTRIC d { THICKNESS=1 ER=4 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"d"},
			recovered: []bool{false},
		},
		{
			name:      "bad table data",
			input:     "CONDUCTOR m { THICKNESS=1 RPSQ=1 RHO_VS_WIDTH_AND_SPACING { WIDTHS { 1 = 2 } SPACINGS { 1 } } ER = 2 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"m"},
			recovered: []bool{true},
		},
		{
			name:      "errors in several blocks",
			input:     "DIELECTRIC a { THICKNESS = }\nDIELECTRIC b { ER 4 }\nDIELECTRIC c { THICKNESS=1 ER=4 @ }",
			kinds:     []errors.Kind{errors.KindSyntax, errors.KindSyntax, errors.KindLex},
			blocks:    []string{"a", "b", "c"},
			recovered: []bool{true, true, false},
		},
		{
			name:      "top-level key without value",
			input:     "TECHNOLOGY =\nDIELECTRIC ild1 {THICKNESS=1 ER=4}\nCONDUCTOR m1 {THICKNESS=0.5 RPSQ=0.1}",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"ild1", "m1"},
			recovered: []bool{false, false},
		},
		{
			name:      "block key without value before next key",
			input:     "DIELECTRIC d { THICKNESS =\n ER = 4 }\nCONDUCTOR m { THICKNESS=1 RPSQ=1 }",
			kinds:     []errors.Kind{errors.KindSyntax},
			blocks:    []string{"d", "m"},
			recovered: []bool{true, false},
		},
		{
			name:      "unterminated string",
			input:     "TECHNOLOGY = \"demo\nDIELECTRIC d { THICKNESS=1 ER=4 }",
			kinds:     []errors.Kind{errors.KindLex},
			blocks:    []string{"d"},
			recovered: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, errs := parseText(t, tt.input)
			if len(errs) != len(tt.kinds) {
				t.Fatalf("errors = %d, want %d:\n%s", len(errs), len(tt.kinds), errs.Detail())
			}
			for i, e := range errs {
				if e.Kind != tt.kinds[i] {
					t.Errorf("errs[%d].Kind = %s, want %s (%s)", i, e.Kind, tt.kinds[i], e)
				}
				if !e.Pos.IsValid() {
					t.Errorf("errs[%d] has no position", i)
				}
			}
			if len(doc.Blocks) != len(tt.blocks) {
				t.Fatalf("blocks = %d, want %d", len(doc.Blocks), len(tt.blocks))
			}
			for i, b := range doc.Blocks {
				if b.Name != tt.blocks[i] {
					t.Errorf("Blocks[%d].Name = %s, want %s", i, b.Name, tt.blocks[i])
				}
				if b.Recovered != tt.recovered[i] {
					t.Errorf("Blocks[%d].Recovered = %v, want %v", i, b.Recovered, tt.recovered[i])
				}
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, errs := parseText(t, "TECHNOLOGY = demo\nDIELECTRIC d {\n  THICKNESS = 1\n  ER = ?\n}")
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if errs[0].Line() != 4 || errs[0].Column() != 8 {
		t.Errorf("error at %s, want 4:8", errs[0].Pos)
	}
}

func TestParseMissingValueReportedAtEquals(t *testing.T) {
	doc, errs := parseText(t, "TECHNOLOGY =\nDIELECTRIC ild1 {THICKNESS=1 ER=4}\nGLOBAL_TEMPERATURE = 25")
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1:\n%s", len(errs), errs.Detail())
	}
	if errs[0].Line() != 1 || errs[0].Column() != 12 {
		t.Errorf("error at %s, want 1:12", errs[0].Pos)
	}
	if len(doc.Assignments) != 1 || doc.Assignments[0].Key != "GLOBAL_TEMPERATURE" {
		t.Errorf("Assignments = %v, want only GLOBAL_TEMPERATURE", doc.Assignments)
	}
	if len(doc.Blocks) != 1 || len(doc.Blocks[0].Assignments) != 2 {
		t.Errorf("ild1 block not kept intact: %v", doc.Blocks)
	}
}

func TestParseDroppedHeader(t *testing.T) {
	doc, errs := parseText(t, "CONDUCTOR m1 THICKNESS\nDIELECTRIC d { THICKNESS=1 ER=4 }")
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1:\n%s", len(errs), errs.Detail())
	}
	if len(doc.Dropped) != 1 || doc.Dropped[0].Keyword != "CONDUCTOR" || doc.Dropped[0].Name != "m1" {
		t.Errorf("Dropped = %v, want CONDUCTOR m1", doc.Dropped)
	}
}

func TestParseEmpty(t *testing.T) {
	doc, errs := Parse(nil)
	if len(errs) != 0 || len(doc.Blocks) != 0 || len(doc.Assignments) != 0 {
		t.Errorf("Parse(nil) = %+v, %v", doc, errs)
	}
}
