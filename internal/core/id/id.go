// Package id provides UUIDv7 generation for all entities.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// Nil is the zero ID.
var Nil = uuid.Nil

// CustomLinePrefix marks ad-hoc sale lines that reference no real product.
// Such lines never resolve to a recipe and never consume inventory.
const CustomLinePrefix = "custom-"

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// Parse converts a string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil reports whether the ID is the zero value.
func IsNil(i ID) bool {
	return i == uuid.Nil
}

// IsCustomLine reports whether a raw product reference is a synthetic
// custom-line marker rather than a real product id.
func IsCustomLine(ref string) bool {
	return strings.HasPrefix(ref, CustomLinePrefix)
}
