package models

import "time"

// SummaryStats is the analytics engine's aggregate view of a dataset.
type SummaryStats struct {
	TotalSales     float64
	AvgPeriodTotal float64
	LeadingSeries  string
	LeaderSharePct float64
	YearlyTotals   map[int]map[string]float64
	// QuarterlyTotals nests per-series sums under year then quarter (1..4).
	QuarterlyTotals map[int]map[int]map[string]float64
	// YoYGrowth compares calendar-year sums of the latest complete year
	// against the prior year. Empty when the dataset spans a single year.
	// Distinct from MarketRow.YoYGrowth, which rolls over 12 periods.
	YoYGrowth map[string]float64
}

// Anomaly is one flagged row of a series.
type Anomaly struct {
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
	Year    int       `json:"year"`
	Quarter int       `json:"quarter"`
}

// AnomalyReport maps series name to its anomalies in chronological order.
// Series without anomalies are absent.
type AnomalyReport map[string][]Anomaly

// InsightSummary is the flattened export consumed by external reporting
// collaborators. Field names are a stable contract; downstream formatters
// (report templates, prompt builders) depend on them.
type InsightSummary struct {
	TotalSales     int64                      `json:"total_sales"`
	LeadingSeries  string                     `json:"leading_series"`
	LeaderSharePct float64                    `json:"leader_share_pct"`
	YearlyTotals   map[int]map[string]float64 `json:"yearly_totals"`
	YoYGrowth      map[string]float64         `json:"yoy_growth"`
	AnomalyCount   int                        `json:"anomalies_detected"`
	Anomalies      AnomalyReport              `json:"anomaly_details"`
}
