package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a user-supplied name (layer or via) used in a
// query. It rejects names that can never appear in ITF source.
//
// The rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(KindInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(KindInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(KindInvalidInput, "name contains invalid characters: %q", name)
		}
	}

	if strings.ContainsAny(name, "{}=$") {
		return New(KindInvalidInput, "name contains ITF syntax characters: %q", name)
	}

	return nil
}

// sourceExtRegex matches the extensions ITF files are commonly saved with.
var sourceExtRegex = regexp.MustCompile(`(?i)^\.(itf|txt)$`)

// ValidateSourcePath validates a path handed to the CLI as ITF input.
// Only the file name is checked; whether the file exists is left to the reader.
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(KindInvalidInput, "source path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return New(KindInvalidInput, "source path contains invalid characters")
	}

	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return New(KindInvalidInput, "source path %q is not a file", path)
	}

	if ext := filepath.Ext(base); ext != "" && !sourceExtRegex.MatchString(ext) {
		return New(KindInvalidInput, "unsupported source extension %q (want .itf or .txt)", ext)
	}

	return nil
}
