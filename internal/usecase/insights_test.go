package usecase

import (
	"context"
	"testing"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/analytics"
	"SalesPulse/internal/services/generator"
	"SalesPulse/internal/services/insights"
	"SalesPulse/pkg/cache"
)

func testSeries() []generator.SeriesParams {
	return []generator.SeriesParams{
		{Name: "Alpha", Base: 100, Trend: 20, SeasonalAmplitude: 10, Volatility: 5},
		{Name: "Beta", Base: 80, Trend: 10, SeasonalAmplitude: 8, Volatility: 4},
	}
}

func newTestUseCase(opts ...InsightUseCaseOption) *InsightUseCase {
	engine := analytics.NewEngine()
	return NewInsightUseCase(testSeries(), engine, insights.NewExporter(engine), opts...)
}

func TestGenerateMakesDatasetCurrent(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	res, err := uc.Generate(ctx, GenerateParams{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    42,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Periods != 36 {
		t.Fatalf("periods = %d, want 36", res.Periods)
	}
	if len(res.Series) != 2 || res.Series[0] != "Alpha" {
		t.Fatalf("series = %v", res.Series)
	}

	ds, err := uc.Dataset(ctx)
	if err != nil {
		t.Fatalf("dataset after generate: %v", err)
	}
	if ds.Len() != 36 {
		t.Fatalf("dataset len = %d", ds.Len())
	}
}

func TestDatasetWithoutGenerateOrStoreFails(t *testing.T) {
	uc := newTestUseCase()
	if _, err := uc.Dataset(context.Background()); err == nil {
		t.Fatal("expected error with no dataset and no store")
	}
}

func TestSummaryRespectsWindow(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	if _, err := uc.Generate(ctx, GenerateParams{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 24,
		Seed:    7,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	full, err := uc.Summary(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("full summary: %v", err)
	}

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	windowed, err := uc.Summary(ctx, from, time.Time{})
	if err != nil {
		t.Fatalf("windowed summary: %v", err)
	}
	if windowed.TotalSales >= full.TotalSales {
		t.Fatalf("windowed total %v should be below full total %v", windowed.TotalSales, full.TotalSales)
	}

	farFuture := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := uc.Summary(ctx, farFuture, time.Time{}); err == nil {
		t.Fatal("expected error for empty window")
	}
}

// spikeDataset holds one series at a constant 100 with a single spike whose
// z-score is 10/sqrt(11), roughly 3.02.
func spikeDataset(t *testing.T) *models.SeriesDataset {
	t.Helper()
	rows := make([]models.Row, 11)
	for i := range rows {
		v := 100.0
		if i == 5 {
			v = 150
		}
		rows[i] = models.Row{
			Date:   time.Date(2022, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Values: map[string]float64{"Alpha": v},
		}
	}
	ds, err := models.NewSeriesDataset([]string{"Alpha"}, rows)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}

func TestAnomaliesUseConfiguredThresholdWhenUnset(t *testing.T) {
	uc := newTestUseCase(WithZThreshold(3.1))
	uc.current = spikeDataset(t)
	ctx := context.Background()

	report, err := uc.Anomalies(ctx, 0)
	if err != nil {
		t.Fatalf("anomalies: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("spike below configured threshold should not flag, got %v", report)
	}

	report, err = uc.Anomalies(ctx, 2.5)
	if err != nil {
		t.Fatalf("anomalies with explicit threshold: %v", err)
	}
	if len(report["Alpha"]) != 1 {
		t.Fatalf("explicit threshold 2.5 should flag the spike, got %v", report)
	}
}

func TestInsightsServedFromCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	uc := newTestUseCase(WithCache(mem, time.Minute))
	ctx := context.Background()

	if _, err := uc.Generate(ctx, GenerateParams{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    42,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	first, err := uc.Insights(ctx, analytics.DefaultZThreshold)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}

	key := cache.GenerateKeyWithParams("insights", analytics.DefaultZThreshold)
	var cached models.InsightSummary
	if err := mem.Get(ctx, key, &cached); err != nil {
		t.Fatalf("summary not cached: %v", err)
	}
	if cached.TotalSales != first.TotalSales {
		t.Fatalf("cached total %d != computed total %d", cached.TotalSales, first.TotalSales)
	}

	second, err := uc.Insights(ctx, analytics.DefaultZThreshold)
	if err != nil {
		t.Fatalf("insights from cache: %v", err)
	}
	if second.TotalSales != first.TotalSales {
		t.Fatalf("cache hit changed totals: %d vs %d", second.TotalSales, first.TotalSales)
	}
}

func TestGenerateInvalidatesInsightCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	uc := newTestUseCase(WithCache(mem, time.Minute))
	ctx := context.Background()

	if _, err := uc.Generate(ctx, GenerateParams{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    42,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := uc.Insights(ctx, analytics.DefaultZThreshold); err != nil {
		t.Fatalf("insights: %v", err)
	}

	if _, err := uc.Generate(ctx, GenerateParams{
		Start:   time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC),
		Periods: 36,
		Seed:    99,
	}); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	key := cache.GenerateKeyWithParams("insights", analytics.DefaultZThreshold)
	var stale models.InsightSummary
	if err := mem.Get(ctx, key, &stale); err == nil {
		t.Fatal("cache should be invalidated after regeneration")
	}
}
