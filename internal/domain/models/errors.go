package models

import (
	"errors"
	"fmt"
)

// Dataset invariants reported by MalformedDatasetError.
const (
	InvariantSeriesNames     = "series_names"
	InvariantMonotonicDates  = "monotonic_dates"
	InvariantMonthlySequence = "monthly_sequence"
	InvariantCompleteValues  = "complete_values"
	InvariantNonNegative     = "non_negative_values"
)

// MalformedDatasetError reports input that violates a dataset invariant.
// Not retryable; the caller must fix the input.
type MalformedDatasetError struct {
	Invariant string
	RowIndex  int
	Series    string
	Detail    string
}

func (e *MalformedDatasetError) Error() string {
	msg := fmt.Sprintf("malformed dataset: %s violated", e.Invariant)
	if e.Series != "" {
		msg += fmt.Sprintf(" (series %q, row %d)", e.Series, e.RowIndex)
	} else if e.Invariant != InvariantSeriesNames {
		msg += fmt.Sprintf(" (row %d)", e.RowIndex)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ErrEmptySeriesSet is returned when a computation requires at least one
// declared series. Not retryable.
var ErrEmptySeriesSet = errors.New("no series declared")
