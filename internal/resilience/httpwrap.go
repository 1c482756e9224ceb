package resilience

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/noah-isme/backend-paygate/internal/obs"
)

// HTTPClient wraps an http.Client with retry, timeout and circuit-breaker
// logic for calls to the payment provider. Server errors and 429 responses
// are retried with exponential backoff; only server errors count against the
// breaker, since a rate limit means the provider is up.
type HTTPClient struct {
	Client      *http.Client
	Breaker     *Breaker
	Target      string
	BaseBackoff time.Duration
	MaxAttempts int
	Jitter      float64
	Timeout     time.Duration
	Fallback    func(context.Context, *http.Request, error) (*http.Response, error)
}

// Do executes the request applying retry semantics. The request body is
// buffered once so every attempt replays the same bytes. When retries are
// exhausted on an HTTP error status the final response is returned so the
// caller can decode the provider's error payload; when the breaker is open
// ErrOpenCircuit is returned unless a fallback is configured.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	breaker := cl.Breaker
	if breaker == nil {
		// default to closed breaker that never trips
		breaker = NewBreaker(1, 1, time.Second)
	}
	maxAttempts := cl.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	baseBackoff := cl.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if !breaker.Allow() {
			obs.ObserveOutboundCall(cl.targetLabel(), "open_circuit", 0)
			lastErr = ErrOpenCircuit
			break
		}

		start := time.Now()
		resp, err := cl.doOnce(ctx, attemptRequest(ctx, req, body))
		elapsed := time.Since(start)

		if err != nil {
			breaker.Report(false)
			obs.ObserveOutboundCall(cl.targetLabel(), "error", elapsed)
			lastErr = err
		} else {
			serverError := resp.StatusCode >= 500
			rateLimited := resp.StatusCode == http.StatusTooManyRequests
			breaker.Report(!serverError)
			obs.ObserveOutboundCall(cl.targetLabel(), attemptOutcome(serverError, rateLimited), elapsed)
			if !serverError && !rateLimited {
				return resp, nil
			}
			if attempt == maxAttempts {
				// hand the provider's error body to the caller instead of a
				// bare status string
				return resp, nil
			}
			drainAndClose(resp)
			lastErr = errors.New(resp.Status)
		}

		if attempt == maxAttempts {
			break
		}
		if err := sleepBackoff(ctx, baseBackoff, attempt, cl.Jitter); err != nil {
			return nil, err
		}
	}

	if cl.Fallback != nil {
		return cl.Fallback(ctx, req, lastErr)
	}
	return nil, lastErr
}

func (cl HTTPClient) doOnce(ctx context.Context, req *http.Request) (*http.Response, error) {
	timeout := cl.Timeout
	if timeout <= 0 {
		timeout = cl.Client.Timeout
	}
	var callCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	return cl.Client.Do(req.WithContext(callCtx))
}

func (cl HTTPClient) targetLabel() string {
	if cl.Target == "" {
		return "default"
	}
	return cl.Target
}

func attemptOutcome(serverError, rateLimited bool) string {
	switch {
	case serverError:
		return "http_5xx"
	case rateLimited:
		return "http_429"
	default:
		return "ok"
	}
}

func sleepBackoff(ctx context.Context, base time.Duration, attempt int, jitter float64) error {
	timer := time.NewTimer(Backoff(base, attempt, jitter))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// bufferBody reads the request body into memory so retries can replay it.
func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	reader := req.Body
	if req.GetBody != nil {
		fresh, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		reader = fresh
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return data, nil
}

func attemptRequest(ctx context.Context, req *http.Request, body []byte) *http.Request {
	clone := req.Clone(ctx)
	if body != nil {
		clone.Body = io.NopCloser(bytes.NewReader(body))
		clone.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	return clone
}

// drainAndClose releases a response that is about to be retried so the
// underlying connection can be reused.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
