// Package insights flattens engine output into the InsightSummary contract
// consumed by external reporting collaborators. Pure projection: no
// formatting, no I/O.
package insights

import (
	"math"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/analytics"
)

type Exporter struct {
	engine *analytics.Engine
}

func NewExporter(engine *analytics.Engine) *Exporter {
	return &Exporter{engine: engine}
}

// Export combines summary statistics and anomaly detection into one
// structured value. zThreshold feeds straight into anomaly detection.
func (x *Exporter) Export(ds *models.SeriesDataset, zThreshold float64) (*models.InsightSummary, error) {
	stats, err := x.engine.Summarize(ds)
	if err != nil {
		return nil, err
	}
	report := x.engine.DetectAnomalies(ds, zThreshold)

	count := 0
	for _, as := range report {
		count += len(as)
	}

	return &models.InsightSummary{
		TotalSales:     int64(math.Round(stats.TotalSales)),
		LeadingSeries:  stats.LeadingSeries,
		LeaderSharePct: math.Round(stats.LeaderSharePct*100) / 100,
		YearlyTotals:   stats.YearlyTotals,
		YoYGrowth:      stats.YoYGrowth,
		AnomalyCount:   count,
		Anomalies:      report,
	}, nil
}
