package sitesearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// call names a Client method in logs and metrics.
type call string

const (
	callPing        call = "ping"
	callSearch      call = "search"
	callFieldCounts call = "field_counts"
	callCategories  call = "categories"
	callExport      call = "export"
)

// outcome classifies a call result by the sentinel its error wraps.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrMetadataUnavailable):
		return "metadata_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "engine_error"
	}
}

// Exports stream every match, so the upper buckets go well past a search.
var latencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15, 60}

type callMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newCallMetrics(reg prometheus.Registerer) (*callMetrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitesearch",
		Subsystem: "client",
		Name:      "calls_total",
		Help:      "Client calls by method and outcome.",
	}, []string{"call", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sitesearch",
		Subsystem: "client",
		Name:      "call_latency_seconds",
		Help:      "Client call latency by method.",
		Buckets:   latencyBuckets,
	}, []string{"call"})

	var (
		m   callMetrics
		err error
	)
	if m.calls, err = adopt(reg, calls); err != nil {
		return nil, err
	}
	if m.latency, err = adopt(reg, latency); err != nil {
		return nil, err
	}
	return &m, nil
}

// adopt registers c. When a Client on the same registerer got there first,
// the collector it registered is returned instead.
func adopt[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	var dup prometheus.AlreadyRegisteredError
	switch {
	case err == nil:
		return c, nil
	case errors.As(err, &dup):
		if prev, ok := dup.ExistingCollector.(T); ok {
			return prev, nil
		}
		return c, fmt.Errorf("sitesearch: collector %T registered with another type", dup.ExistingCollector)
	default:
		return c, fmt.Errorf("sitesearch: register collector: %w", err)
	}
}

// tracker times Client calls. Both the logger and the metrics are optional.
type tracker struct {
	log     *slog.Logger
	metrics *callMetrics
}

func newTracker(log *slog.Logger, reg prometheus.Registerer) (*tracker, error) {
	t := &tracker{log: log}
	if reg != nil {
		m, err := newCallMetrics(reg)
		if err != nil {
			return nil, err
		}
		t.metrics = m
	}
	return t, nil
}

// begin starts timing c. The returned func records the error left in *errp:
//
//	defer c.track.begin(callSearch)(&err)
func (t *tracker) begin(c call) func(errp *error) {
	if t == nil {
		return func(*error) {}
	}
	start := time.Now()
	return func(errp *error) {
		t.record(c, time.Since(start), *errp)
	}
}

func (t *tracker) record(c call, elapsed time.Duration, err error) {
	result := outcome(err)
	if t.metrics != nil {
		t.metrics.calls.WithLabelValues(string(c), result).Inc()
		t.metrics.latency.WithLabelValues(string(c)).Observe(elapsed.Seconds())
	}
	if t.log == nil {
		return
	}
	if err != nil {
		t.log.Warn("sitesearch call failed",
			slog.String("call", string(c)), slog.String("outcome", result),
			slog.Duration("elapsed", elapsed), slog.Any("error", err))
		return
	}
	t.log.Debug("sitesearch call done", slog.String("call", string(c)), slog.Duration("elapsed", elapsed))
}
