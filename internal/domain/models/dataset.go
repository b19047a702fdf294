package models

import (
	"iter"
	"sort"
	"time"

	"SalesPulse/pkg/util"
)

// Row is one calendar month of sales, one value per series.
type Row struct {
	Date    time.Time
	Month   int
	Quarter int
	Year    int
	Values  map[string]float64
}

// SeriesDataset is an immutable table of monthly sales rows.
// Construct via NewSeriesDataset; invariants are validated once there and
// hold for the dataset's lifetime (no mutation methods are exposed).
type SeriesDataset struct {
	names []string
	rows  []Row
}

// NewSeriesDataset validates raw rows and builds a dataset. Input rows only
// need Date and Values; dates are normalized to end-of-month and calendar
// fields (month, quarter, year) are derived here. Returns a
// *MalformedDatasetError naming the violated invariant on bad input.
func NewSeriesDataset(names []string, rows []Row) (*SeriesDataset, error) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return nil, &MalformedDatasetError{Invariant: InvariantSeriesNames, Detail: "empty series name"}
		}
		if _, dup := seen[n]; dup {
			return nil, &MalformedDatasetError{Invariant: InvariantSeriesNames, Series: n, Detail: "duplicate series name"}
		}
		seen[n] = struct{}{}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		date := util.EndOfMonth(r.Date)
		if i > 0 {
			prev := out[i-1].Date
			if !date.After(prev) {
				return nil, &MalformedDatasetError{Invariant: InvariantMonotonicDates, RowIndex: i, Detail: "dates must be strictly increasing"}
			}
			if want := util.EndOfMonth(util.AddMonths(prev, 1)); !date.Equal(want) {
				return nil, &MalformedDatasetError{Invariant: InvariantMonthlySequence, RowIndex: i, Detail: "gap in monthly sequence"}
			}
		}

		values := make(map[string]float64, len(names))
		for _, n := range names {
			v, ok := r.Values[n]
			if !ok {
				return nil, &MalformedDatasetError{Invariant: InvariantCompleteValues, RowIndex: i, Series: n, Detail: "missing value"}
			}
			if v < 0 {
				return nil, &MalformedDatasetError{Invariant: InvariantNonNegative, RowIndex: i, Series: n, Detail: "negative value"}
			}
			values[n] = v
		}

		out[i] = Row{
			Date:    date,
			Month:   int(date.Month()),
			Quarter: util.QuarterOf(date),
			Year:    date.Year(),
			Values:  values,
		}
	}

	return &SeriesDataset{names: append([]string(nil), names...), rows: out}, nil
}

// Names returns the declared series names in their fixed order.
func (d *SeriesDataset) Names() []string {
	return append([]string(nil), d.names...)
}

// Len returns the number of monthly rows.
func (d *SeriesDataset) Len() int { return len(d.rows) }

// Rows returns all rows in chronological order. Value maps are copied so
// callers cannot mutate the dataset through them.
func (d *SeriesDataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	for i, r := range d.rows {
		r.Values = cloneValues(r.Values)
		out[i] = r
	}
	return out
}

// RowsInRange returns rows with start <= date <= end, in chronological order.
// Value maps are copied, as in Rows.
func (d *SeriesDataset) RowsInRange(start, end time.Time) []Row {
	out := make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		r.Values = cloneValues(r.Values)
		out = append(out, r)
	}
	return out
}

func cloneValues(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// ValuesFor yields (date, value) pairs for one series in row order.
// Unknown names yield nothing.
func (d *SeriesDataset) ValuesFor(name string) iter.Seq2[time.Time, float64] {
	return func(yield func(time.Time, float64) bool) {
		for _, r := range d.rows {
			v, ok := r.Values[name]
			if !ok {
				return
			}
			if !yield(r.Date, v) {
				return
			}
		}
	}
}

// YearsPresent returns the distinct calendar years in the dataset, ascending.
func (d *SeriesDataset) YearsPresent() []int {
	set := make(map[int]struct{})
	for _, r := range d.rows {
		set[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
