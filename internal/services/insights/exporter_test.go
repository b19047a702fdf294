package insights

import (
	"testing"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/analytics"
)

func buildDataset(t *testing.T, names []string, values [][]float64) *models.SeriesDataset {
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

func TestExportFields(t *testing.T) {
	values := make([][]float64, 24)
	for i := range values {
		values[i] = []float64{300, 100}
	}
	values[10] = []float64{300000, 100}
	ds := buildDataset(t, []string{"Lead", "Tail"}, values)

	sum, err := NewExporter(analytics.NewEngine()).Export(ds, 2.5)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if sum.LeadingSeries != "Lead" {
		t.Fatalf("expected leader Lead, got %q", sum.LeadingSeries)
	}
	wantTotal := int64(23*300 + 300000 + 24*100)
	if sum.TotalSales != wantTotal {
		t.Fatalf("expected total %d, got %d", wantTotal, sum.TotalSales)
	}
	if sum.AnomalyCount != 1 || len(sum.Anomalies["Lead"]) != 1 {
		t.Fatalf("expected one Lead anomaly, got %+v", sum.Anomalies)
	}
	if sum.YearlyTotals[2022]["Tail"] != 1200 {
		t.Fatalf("unexpected yearly totals: %v", sum.YearlyTotals)
	}
	if len(sum.YoYGrowth) == 0 {
		t.Fatalf("expected yoy growth for two-year dataset")
	}
}

func TestExportLeaderShareRounding(t *testing.T) {
	ds := buildDataset(t, []string{"A", "B", "C"}, [][]float64{{1, 1, 1}})
	sum, err := NewExporter(analytics.NewEngine()).Export(ds, 2.5)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if sum.LeaderSharePct != 33.33 {
		t.Fatalf("expected 33.33, got %v", sum.LeaderSharePct)
	}
}

func TestExportEmptyGrowthSingleYear(t *testing.T) {
	values := make([][]float64, 6)
	for i := range values {
		values[i] = []float64{10}
	}
	ds := buildDataset(t, []string{"A"}, values)

	sum, err := NewExporter(analytics.NewEngine()).Export(ds, 2.5)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if sum.YoYGrowth == nil || len(sum.YoYGrowth) != 0 {
		t.Fatalf("expected empty (not nil) growth map, got %v", sum.YoYGrowth)
	}
	if sum.AnomalyCount != 0 {
		t.Fatalf("expected no anomalies, got %d", sum.AnomalyCount)
	}
}
