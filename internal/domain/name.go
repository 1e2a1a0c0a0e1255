package domain

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Name is a human-readable, filename-safe entity name.
// Names may be used as path segments so the charset is restricted.
type Name string

const maxNameLength = 120

var namePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// NewName creates a new Name value object with validation
func NewName(value string) (Name, error) {
	n := Name(value)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

// Validate checks if the name is valid
func (n Name) Validate() error {
	s := string(n)

	if s == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if utf8.RuneCountInString(s) > maxNameLength {
		return fmt.Errorf("name %q exceeds maximum length of %d characters", s, maxNameLength)
	}

	if !namePattern.MatchString(s) {
		return fmt.Errorf("name %q may only contain letters, numbers, spaces, underscores, and hyphens", s)
	}

	return nil
}

// String returns the string representation
func (n Name) String() string {
	return string(n)
}
