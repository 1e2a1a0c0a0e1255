package domain

import "fmt"

// TaskDeterminism describes how strictly task outputs are expected to match.
type TaskDeterminism string

const (
	// DeterminismDeterministic expects an exact match.
	DeterminismDeterministic TaskDeterminism = "deterministic"
	// DeterminismSemanticMatch expects the same meaning, expressed freely.
	DeterminismSemanticMatch TaskDeterminism = "semantic_match"
	// DeterminismFlexible is evaluated by custom requirement parsing.
	DeterminismFlexible TaskDeterminism = "flexible"
)

// Validate checks if the determinism is one of the known values
func (d TaskDeterminism) Validate() error {
	switch d {
	case DeterminismDeterministic, DeterminismSemanticMatch, DeterminismFlexible:
		return nil
	default:
		return fmt.Errorf("invalid determinism %q: must be deterministic, semantic_match, or flexible", string(d))
	}
}

// DataSourceType is where a piece of data came from.
type DataSourceType string

const (
	SourceHuman     DataSourceType = "human"
	SourceSynthetic DataSourceType = "synthetic"
)

// DataSourceTypes lists every source type in declaration order.
var DataSourceTypes = []DataSourceType{SourceHuman, SourceSynthetic}

// Validate checks if the source type is known
func (s DataSourceType) Validate() error {
	switch s {
	case SourceHuman, SourceSynthetic:
		return nil
	default:
		return fmt.Errorf("invalid source type %q: must be human or synthetic", string(s))
	}
}

// RatingType selects the rule set applied to rating values.
type RatingType string

const (
	RatingFiveStar RatingType = "five_star"
	RatingCustom   RatingType = "custom"
)

// Validate checks if the rating type is known
func (r RatingType) Validate() error {
	switch r {
	case RatingFiveStar, RatingCustom:
		return nil
	default:
		return fmt.Errorf("invalid rating type %q: must be five_star or custom", string(r))
	}
}
