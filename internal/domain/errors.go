package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed configuration or input. It fails the
// whole call before any product is processed.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// StrategyError wraps a failure inside one strategy's Apply. It is scoped to
// a single product and never aborts sibling work in a batch.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }

func IsStrategyError(err error) bool {
	var target *StrategyError
	return errors.As(err, &target)
}

// ScoringError indicates the scorer was handed a product violating the
// normalizer contract (missing ID). Not recoverable per item.
type ScoringError struct {
	Msg string
}

func (e *ScoringError) Error() string { return e.Msg }

func IsScoringError(err error) bool {
	var target *ScoringError
	return errors.As(err, &target)
}
