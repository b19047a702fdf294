// Package market derives cross-series fields (market totals, shares, rolling
// year-over-year growth) from a validated sales dataset. Every function
// returns a new value; source datasets are never mutated.
package market

import (
	"math"

	"SalesPulse/internal/domain/models"
)

// ComputeTotals returns a market view with per-row totals over all declared
// series. Fails with ErrEmptySeriesSet when no series are declared, since
// every downstream share computation would divide by a zero-width sum.
func ComputeTotals(ds *models.SeriesDataset) (*models.MarketDataset, error) {
	names := ds.Names()
	if len(names) == 0 {
		return nil, models.ErrEmptySeriesSet
	}

	rows := ds.Rows()
	out := make([]models.MarketRow, len(rows))
	for i, r := range rows {
		total := 0.0
		for _, n := range names {
			total += r.Values[n]
		}
		out[i] = models.MarketRow{Row: r, TotalMarket: total}
	}
	return &models.MarketDataset{Names: names, Rows: out}, nil
}

// ComputeShares returns a copy of md with each row's per-series share of the
// market total, rounded to 2 decimals. A genuine zero-sales period (total 0)
// yields a 0 share for every series rather than an error.
func ComputeShares(md *models.MarketDataset) *models.MarketDataset {
	out := copyView(md)
	for i := range out.Rows {
		r := &out.Rows[i]
		r.Shares = make(map[string]float64, len(out.Names))
		for _, n := range out.Names {
			if r.TotalMarket == 0 {
				r.Shares[n] = 0
				continue
			}
			r.Shares[n] = round2(r.Values[n] / r.TotalMarket * 100)
		}
	}
	return out
}

// ComputeYoYGrowth returns a copy of md with rolling 12-period growth per
// series. The metric is absent (key omitted, map nil) for the first 12 rows
// and wherever the reference value is zero; it is never reported as 0 or NaN.
func ComputeYoYGrowth(md *models.MarketDataset) *models.MarketDataset {
	out := copyView(md)
	for i := range out.Rows {
		if i < 12 {
			continue
		}
		r := &out.Rows[i]
		ref := out.Rows[i-12]
		growth := make(map[string]float64, len(out.Names))
		for _, n := range out.Names {
			base := ref.Values[n]
			if base == 0 {
				continue
			}
			growth[n] = (r.Values[n] - base) / base * 100
		}
		if len(growth) > 0 {
			r.YoYGrowth = growth
		}
	}
	return out
}

// Enrich runs totals, shares, and rolling growth in one pass.
func Enrich(ds *models.SeriesDataset) (*models.MarketDataset, error) {
	md, err := ComputeTotals(ds)
	if err != nil {
		return nil, err
	}
	return ComputeYoYGrowth(ComputeShares(md)), nil
}

// copyView deep-copies the view, maps included, so derived views never share
// mutable state with their source.
func copyView(md *models.MarketDataset) *models.MarketDataset {
	rows := make([]models.MarketRow, len(md.Rows))
	for i, r := range md.Rows {
		r.Values = cloneFloats(r.Values)
		r.Shares = cloneFloats(r.Shares)
		r.YoYGrowth = cloneFloats(r.YoYGrowth)
		rows[i] = r
	}
	return &models.MarketDataset{
		Names: append([]string(nil), md.Names...),
		Rows:  rows,
	}
}

func cloneFloats(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
