package domain

import "fmt"

// Priority is the urgency of a task or requirement.
// This is a value object: 0 is the most urgent, 3 the least.
type Priority int

// Valid priority levels
const (
	PriorityP0 Priority = iota // Critical - must have
	PriorityP1                 // Important - should have
	PriorityP2                 // Nice to have - could have
	PriorityP3                 // Backlog
)

// DefaultPriority is assigned when no priority is given.
const DefaultPriority = PriorityP2

// NewPriority creates a new Priority value object with validation
func NewPriority(value int) (Priority, error) {
	p := Priority(value)
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

// ParsePriority accepts "P0".."P3" (any case) or "0".."3".
func ParsePriority(s string) (Priority, error) {
	var n int
	switch {
	case len(s) == 2 && (s[0] == 'P' || s[0] == 'p'):
		n = int(s[1] - '0')
	case len(s) == 1:
		n = int(s[0] - '0')
	default:
		return 0, fmt.Errorf("invalid priority %q: must be P0, P1, P2, or P3", s)
	}
	p, err := NewPriority(n)
	if err != nil {
		return 0, fmt.Errorf("invalid priority %q: must be P0, P1, P2, or P3", s)
	}
	return p, nil
}

// Validate checks if the priority is valid
func (p Priority) Validate() error {
	if p < PriorityP0 || p > PriorityP3 {
		return fmt.Errorf("invalid priority %d: must be between 0 (P0) and 3 (P3)", int(p))
	}
	return nil
}

// String returns the P-notation of the priority
func (p Priority) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// IsHigherThan checks if this priority is more urgent than another
func (p Priority) IsHigherThan(other Priority) bool {
	return p < other
}
