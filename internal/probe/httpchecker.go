package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
)

// bodyPreviewLimit caps how much of the response body is captured for
// diagnostic logging. The body never affects the health decision.
const bodyPreviewLimit = 500

type HTTPChecker struct {
	Client *http.Client
	Logger *zap.Logger
}

// NewHTTPChecker builds a checker sharing one transport across all probes.
// Timeouts are per target, applied through the request context.
func NewHTTPChecker(logger *zap.Logger) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{},
		Logger: logger,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, t domain.Target) domain.CheckResult {
	cr := domain.CheckResult{
		TargetName: t.Name,
		URL:        t.URL,
		CheckedAt:  time.Now().UTC(),
	}

	cctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, t.URL, nil)
	if err != nil {
		cr.Error = err.Error()
		h.logResult(cr, "")
		return cr
	}

	resp, err := h.Client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			// Report the configured ceiling, not the measured time.
			cr.Error = "Timeout"
			cr.ResponseTimeMS = float64(t.Timeout) / float64(time.Millisecond)
		} else {
			cr.Error = err.Error()
			cr.ResponseTimeMS = float64(elapsed) / float64(time.Millisecond)
		}
		h.logResult(cr, "")
		return cr
	}
	defer resp.Body.Close()

	cr.StatusCode = resp.StatusCode
	cr.ResponseTimeMS = float64(elapsed) / float64(time.Millisecond)
	cr.Healthy = resp.StatusCode == t.ExpectedStatus
	if !cr.Healthy {
		cr.Error = "unexpected status " + resp.Status
	}

	preview, _ := io.ReadAll(io.LimitReader(resp.Body, bodyPreviewLimit))
	h.logResult(cr, string(preview))
	return cr
}

func (h *HTTPChecker) logResult(cr domain.CheckResult, preview string) {
	if h.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("target", cr.TargetName),
		zap.String("url", cr.URL),
		zap.Int("status", cr.StatusCode),
		zap.Float64("response_time_ms", cr.ResponseTimeMS),
	}
	if cr.Healthy {
		h.Logger.Info("check_ok", fields...)
		return
	}
	fields = append(fields, zap.String("error", cr.Error))
	if preview != "" {
		fields = append(fields, zap.String("body_preview", preview))
	}
	h.Logger.Warn("check_failed", fields...)
}
