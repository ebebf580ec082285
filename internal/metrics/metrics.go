package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "postsweeper"

// SweepMetrics holds the prometheus collectors updated by every sweep.
// A nil *SweepMetrics is valid and records nothing.
type SweepMetrics struct {
	sweeps             *prometheus.CounterVec
	postsDeleted       prometheus.Counter
	mediaDeleted       prometheus.Counter
	mediaDeleteFailed  prometheus.Counter
	mediaURLParseError prometheus.Counter
	duration           prometheus.Histogram
}

// NewSweepMetrics creates the sweep collectors and registers them with reg.
func NewSweepMetrics(reg prometheus.Registerer) (*SweepMetrics, error) {
	m := &SweepMetrics{
		sweeps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweeps_total",
				Help:      "Total number of retention sweeps by outcome.",
			},
			[]string{"status"},
		),
		postsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_deleted_total",
			Help:      "Expired posts submitted for deletion.",
		}),
		mediaDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_deleted_total",
			Help:      "Media objects deleted from the blob store.",
		}),
		mediaDeleteFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_delete_failures_total",
			Help:      "Media deletions rejected by the blob store.",
		}),
		mediaURLParseError: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_url_parse_failures_total",
			Help:      "Media references that could not be turned into an object path.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a retention sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.sweeps, m.postsDeleted, m.mediaDeleted, m.mediaDeleteFailed, m.mediaURLParseError, m.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register sweep metrics: %w", err)
		}
	}

	return m, nil
}

// ObserveSweep records the outcome of a finished sweep.
func (m *SweepMetrics) ObserveSweep(success bool, posts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.sweeps.WithLabelValues(status).Inc()
	m.postsDeleted.Add(float64(posts))
	m.duration.Observe(elapsed.Seconds())
}

// MediaDeleted counts one successful media deletion.
func (m *SweepMetrics) MediaDeleted() {
	if m == nil {
		return
	}
	m.mediaDeleted.Inc()
}

// MediaDeleteFailed counts one media deletion the blob store rejected.
func (m *SweepMetrics) MediaDeleteFailed() {
	if m == nil {
		return
	}
	m.mediaDeleteFailed.Inc()
}

// MediaURLInvalid counts one media reference that could not be parsed.
func (m *SweepMetrics) MediaURLInvalid() {
	if m == nil {
		return
	}
	m.mediaURLParseError.Inc()
}

// Pusher sends gathered metrics to a Prometheus Pushgateway.
// The sweeper has no HTTP surface to be scraped, so metrics are pushed after each run.
type Pusher struct {
	pusher *push.Pusher
}

// NewPusher returns a Pusher for the given gateway and job, or nil when url is empty.
func NewPusher(url, job string, g prometheus.Gatherer) *Pusher {
	if url == "" {
		return nil
	}
	return &Pusher{pusher: push.New(url, job).Gatherer(g)}
}

// Push replaces the job's metric group on the gateway. A nil Pusher is a no-op.
func (p *Pusher) Push() error {
	if p == nil {
		return nil
	}
	if err := p.pusher.Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
