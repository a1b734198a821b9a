package scheduler

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/metrics"
	"github.com/minisource/httpcron/internal/models"
)

// Outcome is the structured result of one HTTP Dispatcher call, matching
// spec.md section 4.4 field for field.
type Outcome struct {
	StatusCode        *int
	LatencyMs         float64
	ResponseSizeBytes int
	ErrorType         *models.ErrorType
	ErrorMessage      *string
	StartedAt         time.Time
	CompletedAt       time.Time
}

// Dispatcher performs a single outbound HTTP request with a timeout and
// classifies the outcome deterministically, grounded on the teacher's
// Executor.Execute/buildRequest but generalized from a single
// "err != nil => failure" branch into the spec's six-way error taxonomy.
type Dispatcher struct {
	client           *http.Client
	maxResponseBytes int64
	clock            clock.Clock
}

// NewDispatcher creates a Dispatcher. maxResponseBytes bounds how much of a
// response body is read before treating the attempt as "response too large"
// (spec.md section 4.4), defaulting to 10 MiB when zero.
func NewDispatcher(maxResponseBytes int64, c clock.Clock) *Dispatcher {
	if maxResponseBytes <= 0 {
		maxResponseBytes = 10 * 1024 * 1024
	}
	if c == nil {
		c = clock.Real{}
	}
	return &Dispatcher{
		client:           &http.Client{},
		maxResponseBytes: maxResponseBytes,
		clock:            c,
	}
}

// Dispatch performs one outbound request against a Target, with the given
// per-attempt timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, target *models.Target, timeout time.Duration) Outcome {
	started := d.clock.Now()
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := d.buildRequest(reqCtx, target)
	if err != nil {
		return d.classify(started, nil, err, nil)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return d.classify(started, nil, err, reqCtx)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, d.maxResponseBytes+1))
	completed := d.clock.Now()
	if readErr != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(readErr, context.DeadlineExceeded) {
			return d.outcome(started, completed, nil, models.ErrorTypeTimeout, "request timed out", 0)
		}
		return d.outcome(started, completed, nil, models.ErrorTypeUnknown, readErr.Error(), 0)
	}
	if int64(len(body)) > d.maxResponseBytes {
		return d.outcome(started, completed, nil, models.ErrorTypeUnknown, "response too large", int(d.maxResponseBytes))
	}

	code := resp.StatusCode
	return d.classifyStatus(started, completed, code, len(body))
}

func (d *Dispatcher) buildRequest(ctx context.Context, target *models.Target) (*http.Request, error) {
	var body io.Reader
	if len(target.Body) > 0 {
		body = bytes.NewReader(target.Body)
	}

	req, err := http.NewRequestWithContext(ctx, target.Method, target.URL, body)
	if err != nil {
		return nil, err
	}

	if len(target.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(target.Headers) > 0 {
		var headers map[string]string
		if err := json.Unmarshal(target.Headers, &headers); err == nil {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		}
	}

	return req, nil
}

// classify maps a transport-level error (no response received) onto the
// timeout / dns / connection / unknown buckets of spec.md section 4.4.
func (d *Dispatcher) classify(started time.Time, _ *http.Response, err error, reqCtx context.Context) Outcome {
	completed := d.clock.Now()

	if reqCtx != nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return d.outcome(started, completed, nil, models.ErrorTypeTimeout, "request timed out", 0)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return d.outcome(started, completed, nil, models.ErrorTypeTimeout, "request timed out", 0)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return d.outcome(started, completed, nil, models.ErrorTypeDNS, dnsErr.Error(), 0)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return d.outcome(started, completed, nil, models.ErrorTypeConnection, opErr.Error(), 0)
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return d.outcome(started, completed, nil, models.ErrorTypeConnection, certErr.Error(), 0)
	}

	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	return d.outcome(started, completed, nil, models.ErrorTypeUnknown, msg, 0)
}

// classifyStatus maps a received HTTP status code onto success / 4xx / 5xx /
// unknown per spec.md section 4.4's table.
func (d *Dispatcher) classifyStatus(started, completed time.Time, code, size int) Outcome {
	switch {
	case code >= 200 && code < 400:
		return d.outcome(started, completed, &code, "", "", size)
	case code >= 400 && code < 500:
		msg := fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
		return d.outcome(started, completed, &code, models.ErrorTypeHTTP4xx, msg, size)
	case code >= 500 && code < 600:
		msg := fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
		return d.outcome(started, completed, &code, models.ErrorTypeHTTP5xx, msg, size)
	default:
		msg := fmt.Sprintf("unexpected HTTP status %d", code)
		return d.outcome(started, completed, nil, models.ErrorTypeUnknown, msg, size)
	}
}

func (d *Dispatcher) outcome(started, completed time.Time, code *int, errType models.ErrorType, errMsg string, size int) Outcome {
	o := Outcome{
		StatusCode:        code,
		LatencyMs:         float64(completed.Sub(started).Microseconds()) / 1000.0,
		ResponseSizeBytes: size,
		StartedAt:         started,
		CompletedAt:       completed,
	}
	label := "none"
	if errType != "" {
		et := errType
		o.ErrorType = &et
		em := errMsg
		o.ErrorMessage = &em
		label = string(errType)
	}
	metrics.AttemptDuration.WithLabelValues(label).Observe(o.LatencyMs / 1000.0)
	return o
}
