package generator

import (
	"testing"
	"time"
)

func start2022() time.Time {
	return time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{
		Start:   start2022(),
		Periods: 36,
		Seed:    42,
		Series: []SeriesParams{
			{Name: "Lipitor", Base: 850, Trend: 0.5, SeasonalAmplitude: 50, Volatility: 25},
			{Name: "Humira", Base: 1200, Trend: 2.0, SeasonalAmplitude: 80, Volatility: 40},
		},
	}

	a, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	ra, rb := a.Rows(), b.Rows()
	if len(ra) != len(rb) {
		t.Fatalf("row counts differ: %d vs %d", len(ra), len(rb))
	}
	for i := range ra {
		if !ra[i].Date.Equal(rb[i].Date) {
			t.Fatalf("row %d: dates differ", i)
		}
		for _, name := range a.Names() {
			if ra[i].Values[name] != rb[i].Values[name] {
				t.Fatalf("row %d series %s: %v vs %v", i, name, ra[i].Values[name], rb[i].Values[name])
			}
		}
	}
}

func TestGenerateConstantSeries(t *testing.T) {
	cfg := Config{
		Start:   start2022(),
		Periods: 36,
		Seed:    7,
		Series:  []SeriesParams{{Name: "A", Base: 100}},
	}

	ds, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ds.Len() != 36 {
		t.Fatalf("expected 36 rows, got %d", ds.Len())
	}
	for i, r := range ds.Rows() {
		if r.Values["A"] != 100 {
			t.Fatalf("row %d: expected 100, got %v", i, r.Values["A"])
		}
	}
}

func TestGenerateMonthEndDates(t *testing.T) {
	cfg := Config{
		Start:   time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC),
		Periods: 4,
		Seed:    1,
		Series:  []SeriesParams{{Name: "X", Base: 50}},
	}

	ds, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []time.Time{
		time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	rows := ds.Rows()
	for i := range want {
		if !rows[i].Date.Equal(want[i]) {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], rows[i].Date)
		}
	}
}

func TestGenerateFloorClampsNoise(t *testing.T) {
	// A violent downward trend would push values negative without the floor.
	cfg := Config{
		Start:   start2022(),
		Periods: 24,
		Seed:    3,
		Series:  []SeriesParams{{Name: "Declining", Base: 100, Trend: -50, Volatility: 10}},
	}

	ds, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, r := range ds.Rows() {
		if r.Values["Declining"] < 30 {
			t.Fatalf("row %d: value %v below 30%% floor", i, r.Values["Declining"])
		}
	}
}

func TestGenerateCalendarFields(t *testing.T) {
	cfg := Config{
		Start:   start2022(),
		Periods: 12,
		Seed:    9,
		Series:  []SeriesParams{{Name: "A", Base: 10}},
	}

	ds, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, r := range ds.Rows() {
		if r.Month != i+1 || r.Year != 2022 {
			t.Fatalf("row %d: month=%d year=%d", i, r.Month, r.Year)
		}
		if want := (r.Month-1)/3 + 1; r.Quarter != want {
			t.Fatalf("row %d: quarter=%d want %d", i, r.Quarter, want)
		}
	}
}

func TestGenerateRejectsZeroPeriods(t *testing.T) {
	_, err := New(Config{Start: start2022(), Series: []SeriesParams{{Name: "A", Base: 1}}}).Generate()
	if err == nil {
		t.Fatalf("expected error for zero periods")
	}
}
