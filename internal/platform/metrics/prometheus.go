package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var ErrPushURLRequired = errors.New("metrics push url is required")

var defaultRunBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Manager owns the refresh collectors. A nil *Manager records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	runs              *prometheus.CounterVec
	runDuration       prometheus.Histogram
	seasonsNormalized *prometheus.CounterVec
	seasonsFailed     *prometheus.CounterVec
	seasonsStored     prometheus.Gauge
	ownersAggregated  prometheus.Gauge
	cacheHits         prometheus.Gauge
	cacheMisses       prometheus.Gauge
	lastSuccessUnix   prometheus.Gauge
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "league",
		subsystem:        "history",
		histogramBuckets: defaultRunBuckets,
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_runs_total",
		Help:        "Refresh runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_duration_seconds",
		Help:        "Wall time of a refresh run",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.seasonsNormalized = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "seasons_normalized_total",
		Help:        "Seasons normalized by source",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.seasonsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "seasons_failed_total",
		Help:        "Seasons skipped because they could not be loaded or normalized",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.seasonsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "seasons_stored",
		Help:        "Seasons in the canonical collection after the last run",
		ConstLabels: m.constLabels,
	})

	m.ownersAggregated = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "owners_aggregated",
		Help:        "Owners derived by the last run",
		ConstLabels: m.constLabels,
	})

	m.cacheHits = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stats_cache_hits",
		Help:        "Statistics cache hits since start",
		ConstLabels: m.constLabels,
	})

	m.cacheMisses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stats_cache_misses",
		Help:        "Statistics cache misses since start",
		ConstLabels: m.constLabels,
	})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful refresh",
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRun counts a finished run and observes its duration.
func (m *Manager) RecordRun(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailed
	} else {
		m.lastSuccessUnix.SetToCurrentTime()
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Manager) RecordSeasonNormalized(source string) {
	if m == nil {
		return
	}
	m.seasonsNormalized.WithLabelValues(source).Inc()
}

func (m *Manager) RecordSeasonFailed(source string) {
	if m == nil {
		return
	}
	m.seasonsFailed.WithLabelValues(source).Inc()
}

func (m *Manager) SetCollectionSizes(seasons, owners int) {
	if m == nil {
		return
	}
	m.seasonsStored.Set(float64(seasons))
	m.ownersAggregated.Set(float64(owners))
}

func (m *Manager) SetCacheStats(hits, misses int64) {
	if m == nil {
		return
	}
	m.cacheHits.Set(float64(hits))
	m.cacheMisses.Set(float64(misses))
}

// Push sends the registry to a Pushgateway.
func (m *Manager) Push(ctx context.Context, url, job string) error {
	if m == nil {
		return nil
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrPushURLRequired
	}
	if strings.TrimSpace(job) == "" {
		job = "league_history"
	}

	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
