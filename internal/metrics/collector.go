// Package metrics exposes Prometheus metrics for the synthesis worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcome labels.
const (
	StatusSuccess     = "success"
	StatusInvalid     = "invalid"
	StatusFailed      = "failed"
	StatusReplyFailed = "reply_failed"
)

const (
	defaultNamespace  = "aivoice"
	labelStatus       = "status"
	labelVoice        = "voice"
	unknownHostStatus = -1
)

// Collector records worker and host metrics.
type Collector struct {
	jobsTotal         *prometheus.CounterVec
	synthesisDuration *prometheus.HistogramVec
	audioBytes        prometheus.Counter
	hostStatus        prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewCollector registers the metrics with a fresh registry under namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		jobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Total number of synthesis jobs by outcome",
			},
			[]string{labelStatus},
		),
		synthesisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "synthesis_duration_seconds",
				Help:      "Time from job receipt to uploaded audio",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{labelVoice},
		),
		audioBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_total",
			Help:      "Total bytes of audio uploaded",
		}),
		hostStatus: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_status",
			Help:      "Last observed host status code (-1 when unknown)",
		}),
		gatherer: registry,
	}
}

// RecordJob counts a finished job.
func (c *Collector) RecordJob(status string) {
	c.jobsTotal.WithLabelValues(status).Inc()
}

// RecordSynthesis records a successful render.
func (c *Collector) RecordSynthesis(voice string, duration time.Duration, audioSize int) {
	c.synthesisDuration.WithLabelValues(voice).Observe(duration.Seconds())
	c.audioBytes.Add(float64(audioSize))
}

// SetHostStatus publishes the host status, or -1 when it could not be read.
func (c *Collector) SetHostStatus(status aivoice.HostStatus, err error) {
	if err != nil {
		c.hostStatus.Set(unknownHostStatus)

		return
	}

	c.hostStatus.Set(float64(status))
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the registry backing the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.gatherer
}
