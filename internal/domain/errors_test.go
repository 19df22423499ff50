package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	validation := &ValidationError{Field: "enabled_types", Msg: "unknown enrichment type"}
	strategy := &StrategyError{Strategy: "seo_optimization", Err: errors.New("boom")}
	scoring := &ScoringError{Msg: "product has no id"}

	if !IsValidationError(validation) || IsValidationError(strategy) || IsValidationError(scoring) {
		t.Error("IsValidationError misclassifies")
	}
	if !IsStrategyError(strategy) || IsStrategyError(validation) {
		t.Error("IsStrategyError misclassifies")
	}
	if !IsScoringError(scoring) || IsScoringError(strategy) {
		t.Error("IsScoringError misclassifies")
	}
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("pipeline: %w", &StrategyError{Strategy: "categorization", Err: errors.New("boom")})
	if !IsStrategyError(wrapped) {
		t.Error("wrapped StrategyError not detected")
	}
}

func TestStrategyErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("remote generator unavailable")
	err := &StrategyError{Strategy: "content_generation", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("StrategyError should unwrap to its cause")
	}
	if got := err.Error(); got != "strategy content_generation: remote generator unavailable" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Field: "languages", Msg: "must not be empty"}
	if got := err.Error(); got != "languages: must not be empty" {
		t.Errorf("Error() = %q", got)
	}
	bare := &ValidationError{Msg: "bad input"}
	if got := bare.Error(); got != "bad input" {
		t.Errorf("Error() = %q", got)
	}
}
