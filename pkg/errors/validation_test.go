package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "metal1", false},
		{"valid with dash", "top-metal", false},
		{"valid with plus", "poly+", false},
		{"valid upper", "M8", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "metal 1", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"brace", "m{1}", true},
		{"equals", "m=1", true},
		{"comment", "$m1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindInvalidInput {
				t.Errorf("KindOf = %v, want %v", KindOf(err), KindInvalidInput)
			}
		})
	}
}

func TestValidateSourcePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"itf", "stack.itf", false},
		{"upper ITF", "STACK.ITF", false},
		{"txt", "dir/stack.txt", false},
		{"no extension", "stack", false},

		{"empty", "", true},
		{"dot", ".", true},
		{"null byte", "a\x00.itf", true},
		{"json", "stack.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourcePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourcePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
