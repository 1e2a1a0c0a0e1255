// Package idgen produces entity identifiers.
package idgen

import (
	"regexp"

	"github.com/google/uuid"
)

const maxIDLength = 64

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// New returns a fresh identifier. Identifiers are version 7 UUIDs, so they
// sort in creation order and are safe to use as directory names.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether id can serve as an entity identifier.
// Identifiers from other generators are accepted as long as they are
// filename-safe.
func Valid(id string) bool {
	return len(id) > 0 && len(id) <= maxIDLength && idPattern.MatchString(id)
}
