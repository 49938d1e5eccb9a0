package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DisputeMetrics содержит все метрики конвейера эскалации.
// A nil *DisputeMetrics is valid and records nothing.
type DisputeMetrics struct {
	// Переходы состояний
	TransitionsTotal *prometheus.CounterVec

	// Ошибки операций по видам
	OperationErrorsTotal *prometheus.CounterVec

	// Выданные коды
	CodesIssuedTotal *prometheus.CounterVec

	// Повторы транзакций
	TxRetriesTotal prometheus.Counter

	// Sweeper
	SweepRunsTotal  *prometheus.CounterVec
	SweepItemsTotal *prometheus.CounterVec
	SweepDuration   prometheus.Histogram

	// Уведомления
	NotificationsSentTotal   *prometheus.CounterVec
	NotificationsFailedTotal *prometheus.CounterVec
}

// NewDisputeMetrics registers the collectors on reg. Pass
// prometheus.DefaultRegisterer in the service and a fresh registry in tests.
func NewDisputeMetrics(reg prometheus.Registerer) *DisputeMetrics {
	factory := promauto.With(reg)
	return &DisputeMetrics{
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_transitions_total",
				Help: "State transitions applied, by entity and transition",
			},
			[]string{"entity", "transition"},
		),

		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_operation_errors_total",
				Help: "Failed operations by operation and error kind",
			},
			[]string{"operation", "kind"},
		),

		CodesIssuedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_reference_codes_issued_total",
				Help: "Reference codes handed out, by kind",
			},
			[]string{"kind"},
		),

		TxRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispute_tx_retries_total",
				Help: "Transactions rerun after a retryable storage error",
			},
		),

		SweepRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_sweep_runs_total",
				Help: "Deadline sweeps by outcome",
			},
			[]string{"outcome"},
		),

		SweepItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_sweep_items_total",
				Help: "Entities touched by the sweeper, by entity and action",
			},
			[]string{"entity", "action"},
		),

		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dispute_sweep_duration_seconds",
				Help:    "Wall time of one sweep",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms, 20ms, 40ms...
			},
		),

		NotificationsSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_notifications_sent_total",
				Help: "Notifications handed to the notifier, by event kind",
			},
			[]string{"event_kind"},
		),

		NotificationsFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_notifications_failed_total",
				Help: "Notifications the notifier refused, by event kind",
			},
			[]string{"event_kind"},
		),
	}
}

// RecordTransition записывает переход состояния
func (m *DisputeMetrics) RecordTransition(entity, transition string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(entity, transition).Inc()
}

// RecordError записывает ошибку операции
func (m *DisputeMetrics) RecordError(operation, kind string) {
	if m == nil {
		return
	}
	m.OperationErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (m *DisputeMetrics) RecordCodeIssued(kind string) {
	if m == nil {
		return
	}
	m.CodesIssuedTotal.WithLabelValues(kind).Inc()
}

func (m *DisputeMetrics) RecordTxRetry() {
	if m == nil {
		return
	}
	m.TxRetriesTotal.Inc()
}

// RecordSweep записывает результат одного прохода sweeper
func (m *DisputeMetrics) RecordSweep(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SweepRunsTotal.WithLabelValues(outcome).Inc()
	m.SweepDuration.Observe(duration.Seconds())
}

func (m *DisputeMetrics) RecordSweepItems(entity, action string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SweepItemsTotal.WithLabelValues(entity, action).Add(float64(n))
}

func (m *DisputeMetrics) RecordNotification(eventKind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.NotificationsFailedTotal.WithLabelValues(eventKind).Inc()
		return
	}
	m.NotificationsSentTotal.WithLabelValues(eventKind).Inc()
}
