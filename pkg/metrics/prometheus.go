// Package metrics provides Prometheus metrics for the chatmend pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingestion metrics
	filesParsed     prometheus.Counter
	filesUnparsable prometheus.Counter
	recordsTotal    prometheus.Counter
	recordsDropped  prometheus.Counter
	messagesIgnored prometheus.Counter

	// Repair metrics
	repairsApplied     prometheus.Counter
	repairsPassthrough prometheus.Counter

	// Reaction metrics
	reactionsCounted prometheus.Counter
	reactionsSkipped prometheus.Counter

	// Run state
	messagesInMemory prometheus.Gauge
	sendersTotal     prometheus.Gauge
	fileParseSeconds prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chatmend",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.filesParsed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_parsed_total",
		Help:      "Number of export files parsed successfully.",
	})
	m.filesUnparsable = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_unparsable_total",
		Help:      "Number of export files skipped because they were not valid exports.",
	})
	m.recordsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_total",
		Help:      "Number of raw records seen across all files.",
	})
	m.recordsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_dropped_total",
		Help:      "Number of records dropped for missing required fields.",
	})
	m.messagesIgnored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_ignored_total",
		Help:      "Number of messages excluded by sender or date filters.",
	})
	m.repairsApplied = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repairs_applied_total",
		Help:      "Number of text fields rewritten by the codec repair unit.",
	})
	m.repairsPassthrough = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repairs_passthrough_total",
		Help:      "Number of text fields returned unchanged by the codec repair unit.",
	})
	m.reactionsCounted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reactions_counted_total",
		Help:      "Number of reactions tallied.",
	})
	m.reactionsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reactions_skipped_total",
		Help:      "Number of reaction entries skipped as malformed.",
	})
	m.messagesInMemory = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_in_memory",
		Help:      "Number of normalized messages currently held for report assembly.",
	})
	m.sendersTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "senders_total",
		Help:      "Number of distinct senders observed.",
	})
	m.fileParseSeconds = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "file_parse_seconds",
		Help:      "Time spent parsing and normalizing a single export file.",
		Buckets:   m.histogramBuckets,
	})
}

// Registry returns the registry backing the global manager, for exposition.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordFileParsed increments the parsed-files counter.
func RecordFileParsed() {
	if globalManager.enabled {
		globalManager.filesParsed.Inc()
	}
}

// RecordFileUnparsable increments the unparsable-files counter.
func RecordFileUnparsable() {
	if globalManager.enabled {
		globalManager.filesUnparsable.Inc()
	}
}

// RecordRawRecords adds n to the raw-records counter.
func RecordRawRecords(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.recordsTotal.Add(float64(n))
	}
}

// RecordRecordDropped increments the dropped-records counter.
func RecordRecordDropped() {
	if globalManager.enabled {
		globalManager.recordsDropped.Inc()
	}
}

// RecordMessageIgnored increments the ignored-messages counter.
func RecordMessageIgnored() {
	if globalManager.enabled {
		globalManager.messagesIgnored.Inc()
	}
}

// RecordRepairApplied increments the applied-repairs counter.
func RecordRepairApplied() {
	if globalManager.enabled {
		globalManager.repairsApplied.Inc()
	}
}

// RecordRepairPassthrough increments the passthrough-repairs counter.
func RecordRepairPassthrough() {
	if globalManager.enabled {
		globalManager.repairsPassthrough.Inc()
	}
}

// RecordReactionCounted increments the tallied-reactions counter.
func RecordReactionCounted() {
	if globalManager.enabled {
		globalManager.reactionsCounted.Inc()
	}
}

// RecordReactionSkipped increments the skipped-reactions counter.
func RecordReactionSkipped() {
	if globalManager.enabled {
		globalManager.reactionsSkipped.Inc()
	}
}

// UpdateMessagesInMemory sets the in-memory message gauge.
func UpdateMessagesInMemory(n int) {
	if globalManager.enabled {
		globalManager.messagesInMemory.Set(float64(n))
	}
}

// UpdateSendersTotal sets the distinct-senders gauge.
func UpdateSendersTotal(n int) {
	if globalManager.enabled {
		globalManager.sendersTotal.Set(float64(n))
	}
}

// ObserveFileParse records the duration of one file's parse+normalize pass.
func ObserveFileParse(seconds float64) {
	if globalManager.enabled && seconds >= 0 {
		globalManager.fileParseSeconds.Observe(seconds)
	}
}
