package health

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-paygate/internal/common"
)

// Handler exposes liveness and readiness probes over the gateway's two hard
// dependencies.
type Handler struct {
	DB           *pgxpool.Pool
	Redis        *redis.Client
	ProbeTimeout time.Duration
}

// Live reports process liveness.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on database and Redis probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"db":    h.probe(r.Context(), h.pingDB),
		"redis": h.probe(r.Context(), h.pingRedis),
	}
	code := http.StatusOK
	for _, v := range status {
		if v != "ok" {
			code = http.StatusServiceUnavailable
			break
		}
	}
	common.JSON(w, code, status)
}

func (h Handler) probe(ctx context.Context, ping func(context.Context) error) string {
	if ping == nil {
		return "unconfigured"
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()
	if err := ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h Handler) pingDB(ctx context.Context) error {
	if h.DB == nil {
		return errUnconfigured("database")
	}
	return h.DB.Ping(ctx)
}

func (h Handler) pingRedis(ctx context.Context) error {
	if h.Redis == nil {
		return errUnconfigured("redis")
	}
	return h.Redis.Ping(ctx).Err()
}

func (h Handler) timeout() time.Duration {
	if h.ProbeTimeout > 0 {
		return h.ProbeTimeout
	}
	return 500 * time.Millisecond
}

type errUnconfigured string

func (e errUnconfigured) Error() string { return string(e) + " not configured" }
