package observability

import (
	"context"
	"time"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes counters and histograms for booking conversations.
type Metrics struct {
	turnsTotal       *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	turnDuration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "turns_total",
			Help:      "Total decided turns by resulting form status",
		}, []string{"status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "transitions_total",
			Help:      "Total form status transitions",
		}, []string{"from", "to"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "slot_rejections_total",
			Help:      "Total slot values refused by validation",
		}, []string{"slot", "reason"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfare",
			Name:      "bookings_total",
			Help:      "Total finished forms by outcome",
		}, []string{"outcome"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wayfare",
			Name:      "turn_duration_seconds",
			Help:      "Latency of deciding one turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.transitionsTotal, m.rejectionsTotal, m.bookingsTotal, m.turnDuration)
	return m
}

// ObserveTurn records one decided turn.
func (m *Metrics) ObserveTurn(status domain.FormStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(string(status)).Inc()
	m.turnDuration.Observe(elapsed.Seconds())
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	if m == nil {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitionsTotal.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnSlotRejected: func(_ context.Context, e *domain.RejectionEvent) {
			m.rejectionsTotal.WithLabelValues(string(e.Slot), string(e.Reason)).Inc()
		},
		OnFormCompleted: func(_ context.Context, e *domain.CompletionEvent) {
			m.bookingsTotal.WithLabelValues(string(e.Outcome)).Inc()
		},
	}
}
