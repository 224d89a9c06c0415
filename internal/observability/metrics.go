package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type MetricsConfig struct {
	ServiceName string
	Environment string
}

// Metrics holds the collectors for the data layer. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	aggregateDuration  *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	benchmarkLookups   *prometheus.CounterVec
}

// NewMetrics builds the collectors on a private registry together with the
// go runtime and process collectors.
func NewMetrics(cfg MetricsConfig) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "carlo"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		aggregateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "carlo_aggregate_operation_duration_seconds",
				Help:        "Aggregate write duration by operation and result code.",
				Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
				ConstLabels: constLabels,
			},
			[]string{"operation", "status"},
		),
		aggregateConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "carlo_aggregate_conflicts_total",
				Help:        "Aggregate writes that ended in a conflict.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		aggregateRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "carlo_aggregate_retryable_total",
				Help:        "Aggregate writes that ended in a retryable failure.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "carlo_document_status_transitions_total",
				Help:        "Committed document processing status transitions.",
				ConstLabels: constLabels,
			},
			[]string{"from", "to"},
		),
		benchmarkLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "carlo_benchmark_lookups_total",
				Help:        "Market benchmark lookups by cache result.",
				ConstLabels: constLabels,
			},
			[]string{"result"}, // hit | miss | none
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.aggregateDuration,
		m.aggregateConflicts,
		m.aggregateRetries,
		m.statusTransitions,
		m.benchmarkLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateDuration.WithLabelValues(op, status).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncBenchmarkLookup(result string) {
	if m == nil {
		return
	}
	m.benchmarkLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr until ctx is done. An empty addr disables it.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
	if log != nil {
		log.Info("metrics server listening", "addr", addr)
	}
}
