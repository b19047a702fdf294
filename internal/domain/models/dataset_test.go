package models

import (
	"errors"
	"testing"
	"time"
)

func rawRows(dates []time.Time, values []float64) []Row {
	rows := make([]Row, len(dates))
	for i := range dates {
		rows[i] = Row{Date: dates[i], Values: map[string]float64{"A": values[i]}}
	}
	return rows
}

func monthDates(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, i, 0)
	}
	return out
}

func TestNewSeriesDatasetNormalizesAndDerives(t *testing.T) {
	ds, err := NewSeriesDataset([]string{"A"}, rawRows(
		[]time.Time{
			time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 2, 14, 0, 0, 0, 0, time.UTC),
		},
		[]float64{10, 20},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := ds.Rows()
	if !rows[0].Date.Equal(time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end-of-month normalization, got %v", rows[0].Date)
	}
	if rows[1].Month != 2 || rows[1].Quarter != 1 || rows[1].Year != 2022 {
		t.Fatalf("unexpected calendar fields: %+v", rows[1])
	}
}

func TestRowsReturnsIndependentCopies(t *testing.T) {
	ds, err := NewSeriesDataset([]string{"A"}, rawRows(
		monthDates(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 3),
		[]float64{10, 20, 30},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds.Rows()[0].Values["A"] = -999
	ds.RowsInRange(time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))[1].Values["A"] = -999

	if v := ds.Rows()[0].Values["A"]; v != 10 {
		t.Fatalf("dataset mutated through Rows: got %v", v)
	}
	if v := ds.Rows()[1].Values["A"]; v != 20 {
		t.Fatalf("dataset mutated through RowsInRange: got %v", v)
	}
}

func TestNewSeriesDatasetRejectsDuplicateMonth(t *testing.T) {
	_, err := NewSeriesDataset([]string{"A"}, rawRows(
		[]time.Time{
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		[]float64{1, 2},
	))
	var mde *MalformedDatasetError
	if !errors.As(err, &mde) {
		t.Fatalf("expected MalformedDatasetError, got %v", err)
	}
	if mde.Invariant != InvariantMonotonicDates {
		t.Fatalf("expected %s, got %s", InvariantMonotonicDates, mde.Invariant)
	}
}

func TestNewSeriesDatasetRejectsGap(t *testing.T) {
	_, err := NewSeriesDataset([]string{"A"}, rawRows(
		[]time.Time{
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		[]float64{1, 2},
	))
	var mde *MalformedDatasetError
	if !errors.As(err, &mde) || mde.Invariant != InvariantMonthlySequence {
		t.Fatalf("expected monthly_sequence violation, got %v", err)
	}
	if mde.RowIndex != 1 {
		t.Fatalf("expected row 1, got %d", mde.RowIndex)
	}
}

func TestNewSeriesDatasetRejectsMissingValue(t *testing.T) {
	rows := []Row{{
		Date:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Values: map[string]float64{"A": 1},
	}}
	_, err := NewSeriesDataset([]string{"A", "B"}, rows)
	var mde *MalformedDatasetError
	if !errors.As(err, &mde) || mde.Invariant != InvariantCompleteValues {
		t.Fatalf("expected complete_values violation, got %v", err)
	}
	if mde.Series != "B" {
		t.Fatalf("expected series B, got %q", mde.Series)
	}
}

func TestNewSeriesDatasetRejectsNegativeValue(t *testing.T) {
	_, err := NewSeriesDataset([]string{"A"}, rawRows(
		[]time.Time{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]float64{-5},
	))
	var mde *MalformedDatasetError
	if !errors.As(err, &mde) || mde.Invariant != InvariantNonNegative {
		t.Fatalf("expected non_negative violation, got %v", err)
	}
}

func TestNewSeriesDatasetRejectsDuplicateName(t *testing.T) {
	_, err := NewSeriesDataset([]string{"A", "A"}, nil)
	var mde *MalformedDatasetError
	if !errors.As(err, &mde) || mde.Invariant != InvariantSeriesNames {
		t.Fatalf("expected series_names violation, got %v", err)
	}
}

func TestRowsInRangeOrdered(t *testing.T) {
	n := 18
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	ds, err := NewSeriesDataset([]string{"A"}, rawRows(
		monthDates(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), n),
		values,
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ds.RowsInRange(
		time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC),
	)
	if len(got) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Date.After(got[i-1].Date) {
			t.Fatalf("rows out of order at %d", i)
		}
	}
}

func TestValuesForYieldsInRowOrder(t *testing.T) {
	ds, err := NewSeriesDataset([]string{"A"}, rawRows(
		monthDates(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 3),
		[]float64{5, 6, 7},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{5, 6, 7}
	i := 0
	var last time.Time
	for d, v := range ds.ValuesFor("A") {
		if v != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], v)
		}
		if i > 0 && !d.After(last) {
			t.Fatalf("dates out of order")
		}
		last = d
		i++
	}
	if i != 3 {
		t.Fatalf("expected 3 values, got %d", i)
	}
}

func TestYearsPresentSorted(t *testing.T) {
	n := 30
	values := make([]float64, n)
	ds, err := NewSeriesDataset([]string{"A"}, rawRows(
		monthDates(time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC), n),
		values,
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	years := ds.YearsPresent()
	want := []int{2021, 2022, 2023, 2024}
	if len(years) != len(want) {
		t.Fatalf("expected %v, got %v", want, years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, years)
		}
	}
}
