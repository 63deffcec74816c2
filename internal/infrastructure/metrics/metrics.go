package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ShiftMetrics carries every metric the service exports.
type ShiftMetrics struct {
	// refresh cycles
	RefreshCyclesTotal    prometheus.CounterVec
	RefreshDuration       prometheus.HistogramVec
	PairsFetchedTotal     prometheus.CounterVec
	SnapshotPairsGauge    prometheus.Gauge
	SnapshotServedTotal   prometheus.CounterVec

	// broadcast fanout
	BroadcastsTotal       prometheus.Counter
	DeliveriesTotal       prometheus.CounterVec
	SubscribersGauge      prometheus.Gauge

	// shift orders
	ShiftsCreatedTotal    prometheus.CounterVec
	ShiftsRejectedTotal   prometheus.CounterVec
	ShiftCreationDuration prometheus.HistogramVec
}

func NewShiftMetrics() *ShiftMetrics {
	return &ShiftMetrics{
		RefreshCyclesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_refresh_cycles_total",
				Help: "Refresh cycles by outcome (ok, empty, error)",
			},
			[]string{"outcome", "trigger"},
		),

		RefreshDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "market_refresh_duration_seconds",
				Help:    "Wall time of one snapshot refresh cycle",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"trigger"},
		),

		PairsFetchedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_pairs_fetched_total",
				Help: "Per-pair fetch results inside refresh cycles",
			},
			[]string{"pair", "outcome"},
		),

		SnapshotPairsGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "market_snapshot_pairs",
				Help: "Pairs present in the currently published snapshot",
			},
		),

		SnapshotServedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_snapshot_served_total",
				Help: "Snapshot reads by source (cached, fresh)",
			},
			[]string{"source"},
		),

		BroadcastsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "broadcasts_total",
				Help: "Market update broadcasts started",
			},
		),

		DeliveriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_deliveries_total",
				Help: "Per-subscriber delivery results (ok, failed, blocked)",
			},
			[]string{"outcome"},
		),

		SubscribersGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subscribers_active",
				Help: "Currently registered subscribers",
			},
		),

		ShiftsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shifts_created_total",
				Help: "Shift orders created, by order type",
			},
			[]string{"order_type"},
		),

		ShiftsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shifts_rejected_total",
				Help: "Shift order requests that did not create an order",
			},
			[]string{"order_type", "reason"},
		),

		ShiftCreationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shift_creation_duration_seconds",
				Help:    "Validation plus provider delegation time",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"order_type"},
		),
	}
}

func (m *ShiftMetrics) RecordRefresh(trigger, outcome string, durationSeconds float64) {
	m.RefreshCyclesTotal.WithLabelValues(outcome, trigger).Inc()
	m.RefreshDuration.WithLabelValues(trigger).Observe(durationSeconds)
}

func (m *ShiftMetrics) RecordPairFetch(pair string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.PairsFetchedTotal.WithLabelValues(pair, outcome).Inc()
}

func (m *ShiftMetrics) RecordServe(cached bool) {
	source := "fresh"
	if cached {
		source = "cached"
	}
	m.SnapshotServedTotal.WithLabelValues(source).Inc()
}

func (m *ShiftMetrics) RecordDelivery(outcome string) {
	m.DeliveriesTotal.WithLabelValues(outcome).Inc()
}

func (m *ShiftMetrics) RecordShiftCreated(orderType string, durationSeconds float64) {
	m.ShiftsCreatedTotal.WithLabelValues(orderType).Inc()
	m.ShiftCreationDuration.WithLabelValues(orderType).Observe(durationSeconds)
}

func (m *ShiftMetrics) RecordShiftRejected(orderType, reason string) {
	m.ShiftsRejectedTotal.WithLabelValues(orderType, reason).Inc()
}
