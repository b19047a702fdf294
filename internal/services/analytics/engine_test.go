package analytics

import (
	"testing"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/generator"
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

func TestSummarizeConstantScenario(t *testing.T) {
	cfg := generator.Config{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    42,
		Series:  []generator.SeriesParams{{Name: "A", Base: 100}},
	}
	ds, err := generator.New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	stats, err := NewEngine().Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if stats.TotalSales != 3600 {
		t.Fatalf("expected total 3600, got %v", stats.TotalSales)
	}
	if stats.LeadingSeries != "A" {
		t.Fatalf("expected leader A, got %q", stats.LeadingSeries)
	}
	if stats.AvgPeriodTotal != 100 {
		t.Fatalf("expected avg 100, got %v", stats.AvgPeriodTotal)
	}
}

func TestSummarizeLeaderTieBreak(t *testing.T) {
	// B and A tie; the first declared name must win.
	ds := monthlyDataset(t, []string{"B", "A"}, [][]float64{{50, 50}, {50, 50}})
	stats, err := NewEngine().Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if stats.LeadingSeries != "B" {
		t.Fatalf("expected tie-break to first declared name B, got %q", stats.LeadingSeries)
	}
	if stats.LeaderSharePct != 50 {
		t.Fatalf("expected 50%% leader share, got %v", stats.LeaderSharePct)
	}
}

func TestSummarizeYearlyTotals(t *testing.T) {
	values := make([][]float64, 24)
	for i := range values {
		values[i] = []float64{10}
	}
	ds := monthlyDataset(t, []string{"A"}, values)
	stats, err := NewEngine().Summarize(ds)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if stats.YearlyTotals[2022]["A"] != 120 || stats.YearlyTotals[2023]["A"] != 120 {
		t.Fatalf("unexpected yearly totals: %v", stats.YearlyTotals)
	}
	if stats.QuarterlyTotals[2022][1]["A"] != 30 || stats.QuarterlyTotals[2023][4]["A"] != 30 {
		t.Fatalf("unexpected quarterly totals: %v", stats.QuarterlyTotals)
	}
}

func TestYearOverYearGrowthDoubling(t *testing.T) {
	// 24 monthly rows, two series; X doubles in year two.
	values := make([][]float64, 24)
	for i := range values {
		x := 100.0
		if i >= 12 {
			x = 200
		}
		values[i] = []float64{x, 50}
	}
	ds := monthlyDataset(t, []string{"X", "Y"}, values)

	growth := NewEngine().YearOverYearGrowth(ds)
	if growth["X"] != 100.0 {
		t.Fatalf("expected 100.0 growth for X, got %v", growth["X"])
	}
	if growth["Y"] != 0 {
		t.Fatalf("expected 0 growth for Y, got %v", growth["Y"])
	}
}

func TestYearOverYearGrowthSingleYear(t *testing.T) {
	values := make([][]float64, 6)
	for i := range values {
		values[i] = []float64{10}
	}
	ds := monthlyDataset(t, []string{"A"}, values)
	if growth := NewEngine().YearOverYearGrowth(ds); len(growth) != 0 {
		t.Fatalf("expected empty growth for single-year dataset, got %v", growth)
	}
}

func TestDetectAnomaliesFlagsSpike(t *testing.T) {
	values := make([][]float64, 24)
	for i := range values {
		values[i] = []float64{100}
	}
	values[7] = []float64{100000}
	ds := monthlyDataset(t, []string{"A"}, values)

	report := NewEngine().DetectAnomalies(ds, DefaultZThreshold)
	anomalies := report["A"]
	if len(anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(anomalies))
	}
	a := anomalies[0]
	if a.Value != 100000 || a.Year != 2022 || a.Quarter != 3 {
		t.Fatalf("unexpected anomaly: %+v", a)
	}
}

func TestDetectAnomaliesThresholdMonotonicity(t *testing.T) {
	cfg := generator.Config{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    42,
		Series:  []generator.SeriesParams{{Name: "A", Base: 500, Trend: 1, SeasonalAmplitude: 40, Volatility: 60}},
	}
	ds, err := generator.New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	e := NewEngine()
	loose := len(e.DetectAnomalies(ds, 1.0)["A"])
	strict := len(e.DetectAnomalies(ds, 3.0)["A"])
	if loose < strict {
		t.Fatalf("threshold 1.0 flagged %d, threshold 3.0 flagged %d", loose, strict)
	}
}

func TestDetectAnomaliesZeroVariance(t *testing.T) {
	values := make([][]float64, 24)
	for i := range values {
		values[i] = []float64{42}
	}
	ds := monthlyDataset(t, []string{"A"}, values)
	if report := NewEngine().DetectAnomalies(ds, 0.5); len(report) != 0 {
		t.Fatalf("flat series must never flag, got %v", report)
	}
}

func TestDetectAnomaliesChronologicalOrder(t *testing.T) {
	values := make([][]float64, 30)
	for i := range values {
		values[i] = []float64{100}
	}
	values[5] = []float64{100000}
	values[20] = []float64{90000}
	ds := monthlyDataset(t, []string{"A"}, values)

	anomalies := NewEngine().DetectAnomalies(ds, 1.0)["A"]
	for i := 1; i < len(anomalies); i++ {
		if !anomalies[i].Date.After(anomalies[i-1].Date) {
			t.Fatalf("anomalies out of order at %d: %v then %v", i, anomalies[i-1].Date, anomalies[i].Date)
		}
	}
}

func TestQuarterlyTotals(t *testing.T) {
	values := make([][]float64, 12)
	for i := range values {
		values[i] = []float64{10}
	}
	ds := monthlyDataset(t, []string{"A"}, values)
	qt := NewEngine().QuarterlyTotals(ds)
	for q := 1; q <= 4; q++ {
		if qt[2022][q]["A"] != 30 {
			t.Fatalf("quarter %d: expected 30, got %v", q, qt[2022][q]["A"])
		}
	}
}
