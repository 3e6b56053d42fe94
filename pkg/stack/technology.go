package stack

import (
	"strings"
)

// DefaultTechnologyName is used when a document has no TECHNOLOGY assignment.
const DefaultTechnologyName = "unknown_technology"

// ReferenceDirection is the technology-wide orientation convention.
type ReferenceDirection string

const (
	ReferenceVertical   ReferenceDirection = "VERTICAL"
	ReferenceHorizontal ReferenceDirection = "HORIZONTAL"
)

// ParseReferenceDirection converts s (case-insensitive) to a ReferenceDirection.
func ParseReferenceDirection(s string) (ReferenceDirection, bool) {
	switch ReferenceDirection(strings.ToUpper(s)) {
	case ReferenceVertical:
		return ReferenceVertical, true
	case ReferenceHorizontal:
		return ReferenceHorizontal, true
	}
	return "", false
}

// Technology holds the top-level parameters of a document.
// Optional values are nil when the document does not set them.
type Technology struct {
	Name                     string
	GlobalTemperature        *float64
	ReferenceDirection       ReferenceDirection // Empty when unset
	BackgroundER             *float64
	HalfNodeScaleFactor      *float64
	UseSiDensity             *bool
	DropFactorLateralSpacing *float64

	// Extra keeps unrecognised top-level assignments verbatim.
	Extra map[string]string
}
