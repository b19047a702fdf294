// Package analytics computes summary statistics and z-score anomaly
// detection over validated sales datasets. All computations are pure and
// read-only over the input dataset.
package analytics

import (
	"fmt"
	"math"
	"sync"

	"SalesPulse/internal/domain/models"
)

// DefaultZThreshold flags rows more than 2.5 standard deviations from the
// series mean. Raising it yields fewer, more extreme anomalies; lowering it
// makes detection more sensitive.
const DefaultZThreshold = 2.5

type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Summarize computes aggregate statistics over the full dataset.
func (e *Engine) Summarize(ds *models.SeriesDataset) (*models.SummaryStats, error) {
	names := ds.Names()
	if len(names) == 0 {
		return nil, models.ErrEmptySeriesSet
	}
	rows := ds.Rows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("summarize: dataset has no rows")
	}

	seriesTotals := make(map[string]float64, len(names))
	yearly := make(map[int]map[string]float64)
	totalSales := 0.0
	for _, r := range rows {
		if yearly[r.Year] == nil {
			yearly[r.Year] = make(map[string]float64, len(names))
		}
		for _, n := range names {
			v := r.Values[n]
			seriesTotals[n] += v
			yearly[r.Year][n] += v
			totalSales += v
		}
	}

	// Highest all-time total wins; ties resolve to the first name in
	// declared order, so the result is deterministic.
	leader := names[0]
	for _, n := range names[1:] {
		if seriesTotals[n] > seriesTotals[leader] {
			leader = n
		}
	}
	leaderShare := 0.0
	if totalSales > 0 {
		leaderShare = seriesTotals[leader] / totalSales * 100
	}

	return &models.SummaryStats{
		TotalSales:      totalSales,
		AvgPeriodTotal:  totalSales / float64(len(rows)),
		LeadingSeries:   leader,
		LeaderSharePct:  leaderShare,
		YearlyTotals:    yearly,
		QuarterlyTotals: e.QuarterlyTotals(ds),
		YoYGrowth:       e.YearOverYearGrowth(ds),
	}, nil
}

// YearOverYearGrowth compares calendar-year sums of the latest year in the
// dataset against the year before it. Returns an empty map when the dataset
// spans fewer than two years or when a series' prior-year sum is zero (the
// metric is then undefined, and omitted rather than fabricated).
//
// This is the year-bucket growth used for reporting; the rolling 12-period
// growth lives in the market package and must not be merged with this one.
func (e *Engine) YearOverYearGrowth(ds *models.SeriesDataset) map[string]float64 {
	growth := make(map[string]float64)
	years := ds.YearsPresent()
	if len(years) < 2 {
		return growth
	}
	latest, prior := years[len(years)-1], years[len(years)-2]
	if prior != latest-1 {
		return growth
	}

	latestSums := make(map[string]float64)
	priorSums := make(map[string]float64)
	for _, r := range ds.Rows() {
		for n, v := range r.Values {
			switch r.Year {
			case latest:
				latestSums[n] += v
			case prior:
				priorSums[n] += v
			}
		}
	}
	for _, n := range ds.Names() {
		if priorSums[n] == 0 {
			continue
		}
		growth[n] = (latestSums[n] - priorSums[n]) / priorSums[n] * 100
	}
	return growth
}

// QuarterlyTotals groups per-series sums by (year, quarter) for breakdown
// views.
func (e *Engine) QuarterlyTotals(ds *models.SeriesDataset) map[int]map[int]map[string]float64 {
	out := make(map[int]map[int]map[string]float64)
	for _, r := range ds.Rows() {
		if out[r.Year] == nil {
			out[r.Year] = make(map[int]map[string]float64)
		}
		if out[r.Year][r.Quarter] == nil {
			out[r.Year][r.Quarter] = make(map[string]float64)
		}
		for n, v := range r.Values {
			out[r.Year][r.Quarter][n] += v
		}
	}
	return out
}

// DetectAnomalies flags rows whose value deviates from the series mean by
// more than zThreshold sample standard deviations. Series are scanned
// concurrently (each scan is read-only over the shared dataset) and merged in
// declared name order; anomalies within a series stay in chronological order.
// Zero-variance series never flag.
func (e *Engine) DetectAnomalies(ds *models.SeriesDataset, zThreshold float64) models.AnomalyReport {
	names := ds.Names()
	results := make([][]models.Anomaly, len(names))

	var wg sync.WaitGroup
	for i, n := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = detectSeries(ds, name, zThreshold)
		}(i, n)
	}
	wg.Wait()

	report := make(models.AnomalyReport)
	for i, n := range names {
		if len(results[i]) > 0 {
			report[n] = results[i]
		}
	}
	return report
}

func detectSeries(ds *models.SeriesDataset, name string, zThreshold float64) []models.Anomaly {
	mean, stddev := seriesStats(ds, name)
	if stddev == 0 {
		// A flat series has no meaningful z-scores; treat every score as 0
		// instead of dividing by zero.
		return nil
	}

	var out []models.Anomaly
	for _, r := range ds.Rows() {
		v := r.Values[name]
		if math.Abs(v-mean)/stddev > zThreshold {
			out = append(out, models.Anomaly{Date: r.Date, Value: v, Year: r.Year, Quarter: r.Quarter})
		}
	}
	return out
}

// seriesStats returns the sample mean and sample standard deviation of one
// series over the full dataset.
func seriesStats(ds *models.SeriesDataset, name string) (mean, stddev float64) {
	var sum, sum2 float64
	n := 0
	for _, v := range ds.ValuesFor(name) {
		sum += v
		sum2 += v * v
		n++
	}
	if n < 2 {
		return sum, 0
	}
	fn := float64(n)
	mean = sum / fn
	variance := (sum2 - fn*mean*mean) / (fn - 1)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
