// Package metrics provides Prometheus metrics for the frontline pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Ingestion metrics, labelled by event category.
	eventsFetched   *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	eventsDuplicate *prometheus.CounterVec
	pollErrors      *prometheus.CounterVec
	cursorTimestamp *prometheus.GaugeVec
	seenSetSize     *prometheus.GaugeVec

	// Reward metrics.
	rewardCycles        prometheus.Counter
	rewardCyclesSkipped prometheus.Counter
	rewardCyclesAborted prometheus.Counter
	grantsIssued        *prometheus.CounterVec
	grantFailures       *prometheus.CounterVec
	messagesSent        prometheus.Counter
	messageFailures     prometheus.Counter

	// Bus metrics.
	busPublishErrors prometheus.Counter
	busMessages      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "frontline",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "events_fetched_total",
		Help:      "Raw events returned by the administrative API, before dedup",
	}, []string{"category"})

	m.eventsPublished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "events_published_total",
		Help:      "Events published to the bus",
	}, []string{"category"})

	m.eventsDuplicate = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "events_duplicate_total",
		Help:      "Events dropped because their ID was already seen",
	}, []string{"category"})

	m.pollErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "poll_errors_total",
		Help:      "Failed poll cycles (fetch, parse, or publish error)",
	}, []string{"category"})

	m.cursorTimestamp = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "cursor_timestamp_seconds",
		Help:      "Current ingestion watermark as a unix timestamp",
	}, []string{"category"})

	m.seenSetSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "seen_set_size",
		Help:      "Number of IDs currently tracked by the dedup set",
	}, []string{"category"})

	m.rewardCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "cycles_total",
		Help:      "Reward cycles that ran to completion",
	})

	m.rewardCyclesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "cycles_skipped_total",
		Help:      "Reward cycles rejected by the cooldown gate",
	})

	m.rewardCyclesAborted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "cycles_aborted_total",
		Help:      "Reward cycles aborted before completion (fetch/parse failure)",
	})

	m.grantsIssued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "grants_issued_total",
		Help:      "Successful VIP grants",
	}, []string{"reason"})

	m.grantFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "grant_failures_total",
		Help:      "VIP grant calls that failed",
	}, []string{"reason"})

	m.messagesSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "messages_sent_total",
		Help:      "In-game messages delivered",
	})

	m.messageFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "reward",
		Name:      "message_failures_total",
		Help:      "In-game message calls that failed",
	})

	m.busPublishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bus",
		Name:      "publish_errors_total",
		Help:      "Failed bus publish calls",
	})

	m.busMessages = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bus",
		Name:      "messages_total",
		Help:      "Messages received by bus consumers",
	})
}

// Handler returns an HTTP handler exposing the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

func RecordEventFetched(category string, n int) {
	globalManager.eventsFetched.WithLabelValues(category).Add(float64(n))
}

func RecordEventPublished(category string) {
	globalManager.eventsPublished.WithLabelValues(category).Inc()
}

func RecordEventDuplicate(category string) {
	globalManager.eventsDuplicate.WithLabelValues(category).Inc()
}

func RecordPollError(category string) {
	globalManager.pollErrors.WithLabelValues(category).Inc()
}

func UpdateCursorTimestamp(category string, t time.Time) {
	globalManager.cursorTimestamp.WithLabelValues(category).Set(float64(t.Unix()))
}

func UpdateSeenSetSize(category string, size int) {
	globalManager.seenSetSize.WithLabelValues(category).Set(float64(size))
}

func RecordRewardCycle()        { globalManager.rewardCycles.Inc() }
func RecordRewardCycleSkipped() { globalManager.rewardCyclesSkipped.Inc() }
func RecordRewardCycleAborted() { globalManager.rewardCyclesAborted.Inc() }

func RecordGrantIssued(reason string) {
	globalManager.grantsIssued.WithLabelValues(reason).Inc()
}

func RecordGrantFailure(reason string) {
	globalManager.grantFailures.WithLabelValues(reason).Inc()
}

func RecordMessageSent()    { globalManager.messagesSent.Inc() }
func RecordMessageFailure() { globalManager.messageFailures.Inc() }

func RecordBusPublishError() { globalManager.busPublishErrors.Inc() }
func RecordBusMessage()      { globalManager.busMessages.Inc() }

// Handler returns the HTTP handler for the global manager's registry.
func Handler() http.Handler {
	return globalManager.Handler()
}
