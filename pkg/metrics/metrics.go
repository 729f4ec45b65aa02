package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of trigger messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of trigger messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of trigger messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_published_total",
			Help: "Number of change events written to Kafka",
		},
		[]string{"type"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired|invalidated
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var (
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Spreadsheet sync passes by outcome",
		},
		[]string{"outcome"}, // synced|skipped|failed
	)
	SyncConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_conflicts_total",
			Help: "Table conflicts resolved by last-write-wins",
		},
	)
	SyncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of full sync passes",
			Buckets: prometheus.DefBuckets,
		},
	)
	TablesReleased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tables_released_total",
			Help: "Tables auto-released by the lifecycle scheduler",
		},
		[]string{"from"},
	)
	PendingSheetWrites = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_sheet_writes",
			Help: "Spreadsheet writes waiting in the outbox",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в default registry; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaEventsPublished,
			CacheOps, CacheSize,
			SyncRuns, SyncConflicts, SyncDuration, TablesReleased, PendingSheetWrites,
		)
	})
}
