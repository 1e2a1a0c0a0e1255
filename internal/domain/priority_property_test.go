package domain

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPriority_ValidRangeAlwaysValidates checks every value in 0..3 is accepted
func TestPriority_ValidRangeAlwaysValidates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 3).Draw(t, "priority")

		p, err := NewPriority(n)
		if err != nil {
			t.Fatalf("priority %d should be valid: %v", n, err)
		}

		parsed, err := ParsePriority(p.String())
		if err != nil {
			t.Fatalf("String() output %q should parse: %v", p.String(), err)
		}
		if parsed != p {
			t.Fatalf("round trip mismatch: %v != %v", parsed, p)
		}
	})
}

// TestPriority_OutOfRangeAlwaysFails checks values outside 0..3 are rejected
func TestPriority_OutOfRangeAlwaysFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.OneOf(rapid.IntRange(-1000, -1), rapid.IntRange(4, 1000)).Draw(t, "priority")

		if _, err := NewPriority(n); err == nil {
			t.Fatalf("priority %d should be rejected", n)
		}
	})
}

// TestPriority_OrderingIsStrict checks IsHigherThan is a strict order matching the integer values
func TestPriority_OrderingIsStrict(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Priority(rapid.IntRange(0, 3).Draw(t, "a"))
		b := Priority(rapid.IntRange(0, 3).Draw(t, "b"))

		if a.IsHigherThan(b) != (int(a) < int(b)) {
			t.Fatalf("IsHigherThan(%v, %v) disagrees with the ordinal order", a, b)
		}
		if a.IsHigherThan(b) && b.IsHigherThan(a) {
			t.Fatalf("ordering is not antisymmetric for %v and %v", a, b)
		}
	})
}
