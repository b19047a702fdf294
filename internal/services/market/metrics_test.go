package market

import (
	"math"
	"testing"
	"time"

	"SalesPulse/internal/domain/models"
)

func monthlyDataset(t *testing.T, names []string, values [][]float64) *models.SeriesDataset {
	t.Helper()
	rows := make([]models.Row, len(values))
	for i, vs := range values {
		m := make(map[string]float64, len(names))
		for j, n := range names {
			m[n] = vs[j]
		}
		rows[i] = models.Row{
			Date:   time.Date(2022, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC),
			Values: m,
		}
	}
	ds, err := models.NewSeriesDataset(names, rows)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func TestComputeTotals(t *testing.T) {
	ds := monthlyDataset(t, []string{"A", "B"}, [][]float64{{10, 30}, {20, 20}})
	md, err := ComputeTotals(ds)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if md.Rows[0].TotalMarket != 40 || md.Rows[1].TotalMarket != 40 {
		t.Fatalf("unexpected totals: %v %v", md.Rows[0].TotalMarket, md.Rows[1].TotalMarket)
	}
}

func TestEnrichDoesNotShareStateWithSource(t *testing.T) {
	ds := monthlyDataset(t, []string{"A"}, [][]float64{{10}, {20}})
	md, err := Enrich(ds)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}

	md.Rows[0].Values["A"] = -999
	md.Rows[0].Shares["A"] = -999

	if v := ds.Rows()[0].Values["A"]; v != 10 {
		t.Fatalf("source dataset mutated through view: got %v", v)
	}
	fresh, err := Enrich(ds)
	if err != nil {
		t.Fatalf("enrich again: %v", err)
	}
	if fresh.Rows[0].Shares["A"] != 100 {
		t.Fatalf("recomputed share = %v, want 100", fresh.Rows[0].Shares["A"])
	}
}

func TestComputeTotalsEmptySeriesSet(t *testing.T) {
	ds, err := models.NewSeriesDataset(nil, []models.Row{
		{Date: time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC), Values: map[string]float64{}},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if _, err := ComputeTotals(ds); err != models.ErrEmptySeriesSet {
		t.Fatalf("expected ErrEmptySeriesSet, got %v", err)
	}
}

func TestSharesSumToHundred(t *testing.T) {
	ds := monthlyDataset(t, []string{"A", "B", "C"}, [][]float64{
		{333, 333, 334},
		{1, 2, 4},
		{100, 0, 0},
	})
	md, err := ComputeTotals(ds)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	md = ComputeShares(md)
	for i, r := range md.Rows {
		if r.TotalMarket == 0 {
			continue
		}
		sum := 0.0
		for _, s := range r.Shares {
			sum += s
		}
		if math.Abs(sum-100) > 0.1 {
			t.Fatalf("row %d: shares sum %v, want 100 +/- 0.1", i, sum)
		}
	}
}

func TestSharesZeroMarket(t *testing.T) {
	ds := monthlyDataset(t, []string{"A", "B"}, [][]float64{{0, 0}})
	md, err := ComputeTotals(ds)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	md = ComputeShares(md)
	for n, s := range md.Rows[0].Shares {
		if s != 0 {
			t.Fatalf("series %s: expected 0 share for zero market, got %v", n, s)
		}
	}
}

func TestYoYGrowthAbsentBelowTwelvePeriods(t *testing.T) {
	values := make([][]float64, 11)
	for i := range values {
		values[i] = []float64{float64(100 + i)}
	}
	ds := monthlyDataset(t, []string{"A"}, values)
	md, err := Enrich(ds)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	for i, r := range md.Rows {
		if r.YoYGrowth != nil {
			t.Fatalf("row %d: expected absent yoy growth, got %v", i, r.YoYGrowth)
		}
	}
}

func TestYoYGrowthRolling(t *testing.T) {
	values := make([][]float64, 13)
	for i := range values {
		values[i] = []float64{100}
	}
	values[12] = []float64{150}
	ds := monthlyDataset(t, []string{"A"}, values)
	md, err := Enrich(ds)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	g, ok := md.Rows[12].YoYGrowth["A"]
	if !ok {
		t.Fatalf("expected yoy growth at row 12")
	}
	if g != 50 {
		t.Fatalf("expected 50%% growth, got %v", g)
	}
}

func TestYoYGrowthUndefinedOnZeroReference(t *testing.T) {
	values := make([][]float64, 13)
	for i := range values {
		values[i] = []float64{0}
	}
	values[12] = []float64{10}
	ds := monthlyDataset(t, []string{"A"}, values)
	md, err := Enrich(ds)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if _, ok := md.Rows[12].YoYGrowth["A"]; ok {
		t.Fatalf("growth against zero reference must be absent, not %v", md.Rows[12].YoYGrowth["A"])
	}
}

func TestEnrichDoesNotMutateSource(t *testing.T) {
	ds := monthlyDataset(t, []string{"A"}, [][]float64{{10}, {20}})
	before := ds.Rows()[0].Values["A"]
	if _, err := Enrich(ds); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if after := ds.Rows()[0].Values["A"]; after != before {
		t.Fatalf("source dataset mutated: %v -> %v", before, after)
	}
}
