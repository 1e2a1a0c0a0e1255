package datamodel

import (
	"fmt"
	"math"
	"sort"

	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
)

// TaskOutputRating is a judgement of one output: an overall value plus
// optional per-requirement values keyed by TaskRequirement ID.
type TaskOutputRating struct {
	Type               domain.RatingType  `json:"type"`
	Value              float64            `json:"rating"`
	RequirementRatings map[string]float64 `json:"requirement_ratings"`
}

// NewFiveStarRating builds a five-star rating.
func NewFiveStarRating(value float64, requirements map[string]float64) (*TaskOutputRating, error) {
	if requirements == nil {
		requirements = map[string]float64{}
	}
	r := &TaskOutputRating{Type: domain.RatingFiveStar, Value: value, RequirementRatings: requirements}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks every value against the rules of the rating type.
// Requirement keys are checked separately because they need the task.
func (r *TaskOutputRating) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "rating type is invalid", err)
	}
	if err := r.checkValue("Overall rating", r.Value); err != nil {
		return err
	}
	for _, key := range r.requirementKeys() {
		if err := r.checkValue(fmt.Sprintf("Requirement rating for %s", key), r.RequirementRatings[key]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TaskOutputRating) checkValue(label string, v float64) error {
	switch r.Type {
	case domain.RatingFiveStar:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return errors.NewConstraintError(fmt.Sprintf(
				"%s of type five_star must be an integer value (1.0, 2.0, 3.0, 4.0, or 5.0)", label))
		}
		if v < 1 || v > 5 {
			return errors.NewConstraintError(fmt.Sprintf(
				"%s of type five_star must be between 1 and 5 stars", label))
		}
	case domain.RatingCustom:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewConstraintError(fmt.Sprintf("%s of type custom must be a finite number", label))
		}
	}
	return nil
}

// requirementKeys returns the requirement IDs in sorted order.
func (r *TaskOutputRating) requirementKeys() []string {
	keys := make([]string, 0, len(r.RequirementRatings))
	for k := range r.RequirementRatings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
