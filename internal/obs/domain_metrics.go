package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SanitizerCorrectionTotal counts corrective decisions the purchase-unit
	// sanitizer applied before transmission, labelled by kind
	// (items_ditched, breakdown_ditched, tax_stripped, rounding_line, floored).
	SanitizerCorrectionTotal *prometheus.CounterVec
	// OrderCreateTotal counts provider order creation outcomes.
	OrderCreateTotal *prometheus.CounterVec
	// ProviderWebhookTotal counts inbound provider webhook processing outcomes.
	ProviderWebhookTotal *prometheus.CounterVec
	// RenewalTotal counts subscription renewal processing outcomes.
	RenewalTotal *prometheus.CounterVec
	// BreakerState exposes the current circuit breaker state per target.
	BreakerState *prometheus.GaugeVec
	// BreakerOpenedTotal counts circuit breaker open transitions per target.
	BreakerOpenedTotal *prometheus.CounterVec
	// OutboundCallDuration observes per-attempt latency of outbound provider
	// calls, labelled by target and outcome (ok, http_5xx, http_429, error,
	// open_circuit).
	OutboundCallDuration *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SanitizerCorrectionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitizer_correction_total",
			Help:      "Count of purchase-unit sanitizer corrections by kind.",
		}, []string{"kind"})
		OrderCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_create_total",
			Help:      "Count of provider order creation outcomes.",
		}, []string{"result"})
		ProviderWebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_webhook_total",
			Help:      "Count of processed provider webhooks by outcome.",
		}, []string{"result"})
		RenewalTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_renewal_total",
			Help:      "Count of subscription renewal outcomes.",
		}, []string{"result"})
		BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per target (0 closed, 1 open, 2 half-open).",
		}, []string{"target"})
		BreakerOpenedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_opened_total",
			Help:      "Number of times the circuit breaker opened per target.",
		}, []string{"target"})
		OutboundCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbound_call_duration_ms",
			Help:      "Per-attempt latency of outbound provider calls in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"target", "outcome"})

		mustRegisterCollector(reg, SanitizerCorrectionTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SanitizerCorrectionTotal = v
			}
		})
		mustRegisterCollector(reg, OrderCreateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderCreateTotal = v
			}
		})
		mustRegisterCollector(reg, ProviderWebhookTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProviderWebhookTotal = v
			}
		})
		mustRegisterCollector(reg, RenewalTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RenewalTotal = v
			}
		})
		mustRegisterCollector(reg, BreakerState, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.GaugeVec); ok {
				BreakerState = v
			}
		})
		mustRegisterCollector(reg, BreakerOpenedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BreakerOpenedTotal = v
			}
		})
		mustRegisterCollector(reg, OutboundCallDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				OutboundCallDuration = v
			}
		})
	})
}

// ObserveSanitizerCorrection increments the correction counter for a kind.
func ObserveSanitizerCorrection(kind string) {
	if SanitizerCorrectionTotal != nil {
		SanitizerCorrectionTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveOrderCreate records the outcome of a provider order creation.
func ObserveOrderCreate(result string) {
	if OrderCreateTotal != nil {
		OrderCreateTotal.WithLabelValues(result).Inc()
	}
}

// ObserveProviderWebhook records a processed webhook outcome.
func ObserveProviderWebhook(result string) {
	if ProviderWebhookTotal != nil {
		ProviderWebhookTotal.WithLabelValues(result).Inc()
	}
}

// ObserveRenewal records a subscription renewal outcome.
func ObserveRenewal(result string) {
	if RenewalTotal != nil {
		RenewalTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOutboundCall records one outbound call attempt.
func ObserveOutboundCall(target, outcome string, d time.Duration) {
	if OutboundCallDuration != nil {
		OutboundCallDuration.WithLabelValues(target, outcome).Observe(DurationMillis(d))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
