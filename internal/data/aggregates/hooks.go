package aggregates

import (
	"strings"
	"time"

	"github.com/Goutham-Eda/Carlo/internal/observability"
)

// Hooks receives one event per aggregate write outcome.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
	// IncStatusTransition fires once per committed document status move.
	IncStatusTransition(from, to string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncStatusTransition(string, string)             {}

// metricsHooks forwards events to the prometheus collectors.
type metricsHooks struct {
	m *observability.Metrics
}

// NewObservabilityHooks returns noop hooks when metrics is nil.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(strings.TrimSpace(name)) }

func (h metricsHooks) IncRetry(name string) { h.m.IncAggregateRetry(strings.TrimSpace(name)) }

func (h metricsHooks) IncStatusTransition(from, to string) { h.m.IncStatusTransition(from, to) }
