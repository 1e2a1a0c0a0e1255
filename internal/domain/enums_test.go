package domain

import "testing"

func TestEnumsValidate(t *testing.T) {
	valid := []interface{ Validate() error }{
		DeterminismDeterministic, DeterminismSemanticMatch, DeterminismFlexible,
		SourceHuman, SourceSynthetic,
		RatingFiveStar, RatingCustom,
	}
	for _, v := range valid {
		if err := v.Validate(); err != nil {
			t.Errorf("%v should be valid: %v", v, err)
		}
	}

	invalid := []interface{ Validate() error }{
		TaskDeterminism("exact"),
		DataSourceType("invalid_source"),
		DataSourceType(""),
		RatingType("ten_star"),
	}
	for _, v := range invalid {
		if err := v.Validate(); err == nil {
			t.Errorf("%v should be rejected", v)
		}
	}
}

func TestDataSourceTypesIsExhaustive(t *testing.T) {
	if len(DataSourceTypes) != 2 {
		t.Fatalf("expected 2 source types, got %d", len(DataSourceTypes))
	}
	for _, s := range DataSourceTypes {
		if err := s.Validate(); err != nil {
			t.Errorf("listed source type %q should validate", s)
		}
	}
}
