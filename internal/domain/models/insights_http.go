package models

// Requests for insight HTTP endpoints. Defined in domain for consistency and reuse.

type SummaryRequest struct {
	From string `query:"from" json:"from"`
	To   string `query:"to" json:"to"`
}

// AnomalyQueryRequest carries the optional z-score threshold. Zero means the
// caller omitted it; the configured default applies downstream.
type AnomalyQueryRequest struct {
	Threshold float64 `query:"z" json:"z" validate:"omitempty,gt=0,lte=10"`
}

type GenerateRequest struct {
	Start   string `query:"start" json:"start" default:"2022-01-31"`
	Periods int    `query:"periods" json:"periods" default:"36" validate:"gte=1,lte=600"`
	Seed    int64  `query:"seed" json:"seed" default:"42"`
}
