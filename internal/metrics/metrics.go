// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus metrics for explorations and HTTP traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/tangente/internal/explore"
	"github.com/pdiddy/tangente/internal/session"
	"github.com/pdiddy/tangente/pkg/types"
)

const namespace = "tangente"

// Outcome labels for explorations_total.
const (
	OutcomeSuccess   = "success"
	OutcomeRequest   = "request_error"
	OutcomeMalformed = "malformed_response"
	OutcomeRejected  = "rejected"
)

// Collector holds the application metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	Explorations        *prometheus.CounterVec
	ExplorationDuration *prometheus.HistogramVec
	HTTPRequests        *prometheus.CounterVec
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Explorations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "explorations_total",
				Help:      "Explorations by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ExplorationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "exploration_duration_seconds",
				Help:      "Duration of the model round trip.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"provider"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
	}
	c.registry.MustRegister(c.Explorations, c.ExplorationDuration, c.HTTPRequests)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

// Outcome classifies an exploration error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, explore.ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, explore.ErrEmptyTopic):
		return OutcomeRejected
	default:
		return OutcomeRequest
	}
}

// InstrumentedExplorer records count and duration of every exploration.
type InstrumentedExplorer struct {
	Next      session.Explorer
	Provider  string
	Collector *Collector
}

// Explore implements session.Explorer.
func (ie *InstrumentedExplorer) Explore(ctx context.Context, topic string) (*types.ExplorationResult, error) {
	start := time.Now()
	result, err := ie.Next.Explore(ctx, topic)

	outcome := Outcome(err)
	ie.Collector.Explorations.WithLabelValues(ie.Provider, outcome).Inc()
	if outcome != OutcomeRejected {
		ie.Collector.ExplorationDuration.WithLabelValues(ie.Provider).Observe(time.Since(start).Seconds())
	}
	return result, err
}
