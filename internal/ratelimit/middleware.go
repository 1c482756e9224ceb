package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-paygate/internal/auth"
	"github.com/noah-isme/backend-paygate/internal/common"
)

// New builds a limiter with the given window and request ceiling over the
// provided store.
func New(store limiter.Store, window time.Duration, max int) *limiter.Limiter {
	return limiter.New(store, limiter.Rate{Period: window, Limit: int64(max)})
}

// KeyFunc derives the rate limit key for a request.
type KeyFunc func(*http.Request) string

// MerchantOrIP keys authenticated requests by merchant and everything else by
// client address, so one noisy merchant cannot consume a shared bucket.
func MerchantOrIP(r *http.Request) string {
	if merchantID, ok := auth.MerchantID(r.Context()); ok && merchantID != "" {
		return "merchant:" + merchantID
	}
	return "ip:" + common.ClientIP(r)
}

// Handler enforces rate limits before delegating to the next handler.
type Handler struct {
	Limiter *limiter.Limiter
	Key     KeyFunc
	OnError func(error)
}

// Middleware implements the http.Handler middleware interface. Limiter store
// failures fail open.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter == nil || h.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		lctx, err := h.Limiter.Get(r.Context(), h.Key(r))
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		headers.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			retryAfter := lctx.Reset - time.Now().Unix()
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
