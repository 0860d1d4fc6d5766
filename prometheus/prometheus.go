// Package prometheus implements [forge.Recorder] with Prometheus metrics.
package prometheus

import (
	"time"

	"github.com/fwojciec/forge"
	forgejson "github.com/fwojciec/forge/json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interface compliance check.
var _ forge.Recorder = (*Recorder)(nil)

// Recorder exports pipeline activity.
type Recorder struct {
	attempts       *prometheus.CounterVec
	attemptLatency *prometheus.HistogramVec
	recoveries     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// New registers the forge metrics with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forge_provider_attempts_total",
			Help: "Provider calls by provider, mode and outcome kind.",
		}, []string{"provider", "mode", "kind"}),
		attemptLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forge_provider_attempt_seconds",
			Help:    "Provider call latency in seconds.",
			Buckets: latencyBuckets,
		}, []string{"provider", "mode"}),
		recoveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forge_recovery_total",
			Help: "Parsed completions by the recovery stage that produced them. Empty stage means recovery failed.",
		}, []string{"stage"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forge_requests_total",
			Help: "Pipeline requests by operation and error code.",
		}, []string{"op", "code"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forge_request_seconds",
			Help:    "End-to-end pipeline latency in seconds.",
			Buckets: latencyBuckets,
		}, []string{"op"}),
	}
}

// ProviderAttempt implements forge.Recorder.
func (r *Recorder) ProviderAttempt(id forge.ProviderID, mode forge.Mode, err error, d time.Duration) {
	r.attempts.WithLabelValues(string(id), mode.String(), outcome(err)).Inc()
	r.attemptLatency.WithLabelValues(string(id), mode.String()).Observe(d.Seconds())
}

// Recovered implements forge.Recorder.
func (r *Recorder) Recovered(stage string) {
	if stage == "" {
		stage = "none"
	}
	r.recoveries.WithLabelValues(stage).Inc()
}

// RequestDone implements forge.Recorder.
func (r *Recorder) RequestDone(op string, err error, d time.Duration) {
	code := "OK"
	if err != nil {
		code = forgejson.ErrorCode(err)
	}
	r.requests.WithLabelValues(op, code).Inc()
	r.requestLatency.WithLabelValues(op).Observe(d.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(forge.ErrorKindOf(err))
}
