package insights

import (
	"context"
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
	xhttp "SalesPulse/pkg/http"
)

// HTTPReporter delivers insight summaries to an external reporting service
// over JSON. Narrative generation happens downstream; this side only ships
// the payload.
type HTTPReporter struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPReporter builds a reporter with timeout and base URL.
func NewHTTPReporter(baseURL string, timeout time.Duration) *HTTPReporter {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPReporter{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithClientTimeout(timeout)),
	}
}

type reportAck struct {
	Accepted bool   `json:"accepted"`
	ReportID string `json:"report_id,omitempty"`
}

// Report posts the summary to /insights/report and returns the remote report id.
func (r *HTTPReporter) Report(ctx context.Context, summary *models.InsightSummary) (string, error) {
	if r.client == nil || r.baseURL == "" {
		return "", fmt.Errorf("reporting client not initialized")
	}

	var ack reportAck
	err := r.postJSONWithRetry(ctx, "/insights/report", summary, &ack, 3)
	if err != nil {
		return "", fmt.Errorf("post insights report: %w", err)
	}
	if !ack.Accepted {
		return "", fmt.Errorf("reporting service rejected summary")
	}
	return ack.ReportID, nil
}

func (r *HTTPReporter) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	return r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    r.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
}

func (r *HTTPReporter) postJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return r.postJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = r.postJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		// simple backoff
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
