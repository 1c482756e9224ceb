package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-paygate/internal/config"
	"github.com/noah-isme/backend-paygate/internal/obs"
	"github.com/noah-isme/backend-paygate/internal/orders"
	"github.com/noah-isme/backend-paygate/internal/resilience"
	"github.com/noah-isme/backend-paygate/internal/store"
	"github.com/noah-isme/backend-paygate/internal/subscription"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "paygate")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := store.Connect(initCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(initCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	st := store.New(pool)

	outboundClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.OutboundTimeout,
	}
	orderClient := &orders.Client{
		BaseURL: cfg.ProviderBaseURL,
		Tokens: &orders.TokenSource{
			BaseURL:      cfg.ProviderBaseURL,
			ClientID:     cfg.ProviderClientID,
			ClientSecret: cfg.ProviderClientSecret,
			HTTP:         outboundClient,
			Redis:        redisClient,
			Log:          &logger,
		},
		HTTP: resilience.HTTPClient{
			Client:      outboundClient,
			Breaker: resilience.NewBreaker(cfg.CircuitMinRequests, cfg.CircuitFailureRate, cfg.CircuitOpenFor).
				WithTarget("provider-api").
				WithLogger(logger),
			Target:      "provider-api",
			BaseBackoff: cfg.RetryBase,
			MaxAttempts: cfg.RetryMaxAttempts,
			Jitter:      cfg.RetryJitterPercent,
			Timeout:     cfg.OutboundTimeout,
		},
		Log: &logger,
	}

	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}

	taskClient := asynq.NewClient(redisConn)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	scheduler := &subscription.Scheduler{
		Store:     st,
		Tasks:     taskClient,
		LeadTime:  cfg.RenewalLeadTime,
		BatchSize: 100,
		Log:       &logger,
	}
	go scheduler.Run(ctx, time.Minute)

	renewalWorker := &subscription.Worker{
		Store:  st,
		Orders: orderClient,
		Log:    &logger,
	}

	srv := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.RenewalConcurrency,
		Queues:      map[string]int{subscription.QueueRenewals: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(subscription.TypeRenewal, renewalWorker.HandleRenewal)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("worker shutting down")
		srv.Shutdown()
	}()

	logger.Info().Int("concurrency", cfg.RenewalConcurrency).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker exited unexpectedly")
	}
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
