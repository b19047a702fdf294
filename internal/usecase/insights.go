package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SalesPulse/internal/domain/models"
	domrepo "SalesPulse/internal/domain/repository"
	"SalesPulse/internal/services/analytics"
	"SalesPulse/internal/services/generator"
	"SalesPulse/internal/services/insights"
	"SalesPulse/internal/services/market"
	"SalesPulse/pkg/cache"
	applogger "SalesPulse/pkg/logger"
)

// InsightUseCase orchestrates dataset generation, persistence, analytics and
// downstream delivery. The store, cache, publisher and reporter are optional;
// a nil collaborator disables that step.
type InsightUseCase struct {
	mu      sync.RWMutex
	current *models.SeriesDataset

	series    []generator.SeriesParams
	engine    *analytics.Engine
	exporter  *insights.Exporter
	store     domrepo.DatasetStore
	cacheSvc  cache.Service
	publisher domrepo.InsightPublisher
	reporter  *insights.HTTPReporter
	metrics   domrepo.Metrics
	l         *applogger.Logger
	cacheTTL  time.Duration

	// zThreshold is the configured anomaly threshold, applied whenever a
	// caller does not supply one explicitly.
	zThreshold float64
}

type InsightUseCaseOption func(*InsightUseCase)

func WithStore(store domrepo.DatasetStore) InsightUseCaseOption {
	return func(uc *InsightUseCase) { uc.store = store }
}

func WithCache(svc cache.Service, ttl time.Duration) InsightUseCaseOption {
	return func(uc *InsightUseCase) {
		uc.cacheSvc = svc
		uc.cacheTTL = ttl
	}
}

func WithPublisher(p domrepo.InsightPublisher) InsightUseCaseOption {
	return func(uc *InsightUseCase) { uc.publisher = p }
}

func WithReporter(r *insights.HTTPReporter) InsightUseCaseOption {
	return func(uc *InsightUseCase) { uc.reporter = r }
}

func WithMetrics(m domrepo.Metrics) InsightUseCaseOption {
	return func(uc *InsightUseCase) { uc.metrics = m }
}

func WithLogger(l *applogger.Logger) InsightUseCaseOption {
	return func(uc *InsightUseCase) { uc.l = l }
}

// WithZThreshold overrides the default anomaly threshold. Non-positive
// values are ignored and the default stays in effect.
func WithZThreshold(z float64) InsightUseCaseOption {
	return func(uc *InsightUseCase) {
		if z > 0 {
			uc.zThreshold = z
		}
	}
}

func NewInsightUseCase(series []generator.SeriesParams, engine *analytics.Engine, exporter *insights.Exporter, opts ...InsightUseCaseOption) *InsightUseCase {
	uc := &InsightUseCase{
		series:     series,
		engine:     engine,
		exporter:   exporter,
		cacheTTL:   5 * time.Minute,
		zThreshold: analytics.DefaultZThreshold,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GenerateParams controls synthetic dataset generation.
type GenerateParams struct {
	Start   time.Time
	Periods int
	Seed    int64
}

// GenerateResult reports what was generated.
type GenerateResult struct {
	Series  []string  `json:"series"`
	Periods int       `json:"periods"`
	Seed    int64     `json:"seed"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// Generate builds a synthetic dataset, makes it current, persists it when a
// store is configured, and invalidates cached insights.
func (uc *InsightUseCase) Generate(ctx context.Context, p GenerateParams) (*GenerateResult, error) {
	start := time.Now()

	gen := generator.New(generator.Config{
		Start:   p.Start,
		Periods: p.Periods,
		Seed:    p.Seed,
		Series:  uc.series,
	})
	ds, err := gen.Generate()
	if err != nil {
		uc.recordError("generate")
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	uc.mu.Lock()
	uc.current = ds
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.RecordDatasetBuilt("generator")
		uc.metrics.RecordLatency("generate", time.Since(start).Seconds())
	}

	if uc.store != nil {
		if err := uc.store.SaveDataset(ctx, ds); err != nil {
			uc.recordError("save_dataset")
			if uc.l != nil {
				uc.l.Error("save generated dataset failed", applogger.Error(err))
			}
		} else if uc.metrics != nil {
			uc.metrics.RecordRowsStored("clickhouse", ds.Len()*len(ds.Names()))
		}
	}

	if uc.cacheSvc != nil {
		_ = uc.cacheSvc.DeleteByPattern(ctx, cache.BuildPattern("insights"))
	}

	rows := ds.Rows()
	return &GenerateResult{
		Series:  ds.Names(),
		Periods: ds.Len(),
		Seed:    p.Seed,
		From:    rows[0].Date,
		To:      rows[len(rows)-1].Date,
	}, nil
}

// Dataset returns the current dataset, lazily loading from the store.
func (uc *InsightUseCase) Dataset(ctx context.Context) (*models.SeriesDataset, error) {
	uc.mu.RLock()
	ds := uc.current
	uc.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	if uc.store == nil {
		return nil, errors.New("no dataset loaded")
	}

	loaded, err := uc.store.LoadDataset(ctx, time.Time{}, time.Now().AddDate(10, 0, 0))
	if err != nil {
		uc.recordError("load_dataset")
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	uc.mu.Lock()
	uc.current = loaded
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.RecordDatasetBuilt("clickhouse")
	}
	return loaded, nil
}

// Summary computes aggregate statistics over the optional [from, to] window.
func (uc *InsightUseCase) Summary(ctx context.Context, from, to time.Time) (*models.SummaryStats, error) {
	ds, err := uc.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = time.Now().AddDate(10, 0, 0)
		}
		window, err := uc.windowed(ds, from, to)
		if err != nil {
			return nil, err
		}
		ds = window
	}
	return uc.engine.Summarize(ds)
}

// MarketView returns the dataset enriched with totals, shares and rolling
// twelve month growth.
func (uc *InsightUseCase) MarketView(ctx context.Context) (*models.MarketDataset, error) {
	ds, err := uc.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return market.Enrich(ds)
}

// Anomalies runs z-score detection. A non-positive zThreshold selects the
// configured default.
func (uc *InsightUseCase) Anomalies(ctx context.Context, zThreshold float64) (models.AnomalyReport, error) {
	ds, err := uc.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	report := uc.engine.DetectAnomalies(ds, uc.effectiveThreshold(zThreshold))

	if uc.metrics != nil {
		for series, anomalies := range report {
			uc.metrics.RecordAnomalies(series, len(anomalies))
		}
	}
	return report, nil
}

// Insights builds the full exportable summary, serving from cache when
// possible and fanning out to the publisher and reporter on misses. A
// non-positive zThreshold selects the configured default.
func (uc *InsightUseCase) Insights(ctx context.Context, zThreshold float64) (*models.InsightSummary, error) {
	zThreshold = uc.effectiveThreshold(zThreshold)
	key := cache.GenerateKeyWithParams("insights", zThreshold)

	if uc.cacheSvc != nil {
		var cached models.InsightSummary
		if err := uc.cacheSvc.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) && uc.l != nil {
			uc.l.Warn("insights cache read failed", applogger.Error(err))
		}
	}

	ds, err := uc.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary, err := uc.exporter.Export(ds, zThreshold)
	if err != nil {
		uc.recordError("export_insights")
		return nil, fmt.Errorf("export insights: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.RecordLatency("export_insights", time.Since(start).Seconds())
	}

	if uc.cacheSvc != nil {
		if err := uc.cacheSvc.Set(ctx, key, summary, uc.cacheTTL); err != nil && uc.l != nil {
			uc.l.Warn("insights cache write failed", applogger.Error(err))
		}
	}

	uc.deliver(ctx, summary)
	return summary, nil
}

// deliver fans the summary out to Kafka and the reporting service. Delivery
// failures are logged, not returned; the computed summary is still valid.
func (uc *InsightUseCase) deliver(ctx context.Context, summary *models.InsightSummary) {
	if uc.publisher != nil {
		if err := uc.publisher.PublishSummary(ctx, summary); err != nil {
			uc.recordError("publish_summary")
			if uc.l != nil {
				uc.l.Error("publish insight summary failed", applogger.Error(err))
			}
		}
		if err := uc.publisher.PublishAnomalies(ctx, summary.Anomalies); err != nil {
			uc.recordError("publish_anomalies")
			if uc.l != nil {
				uc.l.Error("publish anomaly report failed", applogger.Error(err))
			}
		}
	}

	if uc.reporter != nil {
		reportID, err := uc.reporter.Report(ctx, summary)
		if err != nil {
			uc.recordError("report_insights")
			if uc.l != nil {
				uc.l.Error("insight report delivery failed", applogger.Error(err))
			}
		} else if uc.l != nil {
			uc.l.Info("insight report delivered", applogger.String("report_id", reportID))
		}
	}
}

func (uc *InsightUseCase) windowed(ds *models.SeriesDataset, from, to time.Time) (*models.SeriesDataset, error) {
	rows := ds.RowsInRange(from, to)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data between %s and %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return models.NewSeriesDataset(ds.Names(), rows)
}

func (uc *InsightUseCase) effectiveThreshold(z float64) float64 {
	if z > 0 {
		return z
	}
	return uc.zThreshold
}

func (uc *InsightUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}
