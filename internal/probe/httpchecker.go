package probe

import (
	"context"
	"net/http"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues an unauthenticated GET. Any response below 500 counts as
// reachable since the domain API answers 401 without a token.
func (h *HTTPChecker) Check(ctx context.Context, target string) Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return Result{Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	return Result{
		Reachable:  resp.StatusCode < 500,
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		LatencyMS:  latency,
	}
}
