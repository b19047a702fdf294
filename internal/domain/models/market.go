package models

// MarketRow extends a dataset row with cross-series market fields.
//
// Shares maps series name to its percentage of TotalMarket (2-decimal
// rounding). YoYGrowth maps series name to the percent change versus the row
// 12 periods earlier; a series is absent from the map when the metric is
// undefined (first 12 rows, or a zero reference value). Absence is the only
// representation of "undefined", never 0 or NaN.
type MarketRow struct {
	Row
	TotalMarket float64
	Shares      map[string]float64
	YoYGrowth   map[string]float64
}

// MarketDataset is a SeriesDataset enriched with market metrics. It is a new
// value; the source dataset is never mutated.
type MarketDataset struct {
	Names []string
	Rows  []MarketRow
}
