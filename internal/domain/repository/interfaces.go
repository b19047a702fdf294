package repository

import (
	"context"
	"time"

	"SalesPulse/internal/domain/models"
)

// DatasetStore persists and loads monthly sales rows. Loaded rows go back
// through the SeriesDataset constructor, so a store that hands back invariant-
// violating data surfaces a MalformedDatasetError instead of being repaired.
type DatasetStore interface {
	Init(ctx context.Context) error
	SaveDataset(ctx context.Context, ds *models.SeriesDataset) error
	LoadDataset(ctx context.Context, from, to time.Time) (*models.SeriesDataset, error)
	Health(ctx context.Context) error
	Close() error
}

// InsightPublisher emits insight summaries and anomaly events toward
// downstream reporting consumers.
type InsightPublisher interface {
	PublishSummary(ctx context.Context, summary *models.InsightSummary) error
	PublishAnomalies(ctx context.Context, report models.AnomalyReport) error
	Close() error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordDatasetBuilt(source string)
	RecordRowsStored(backend string, n int)
	RecordAnomalies(series string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
