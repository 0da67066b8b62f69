// Package metrics exposes Prometheus instruments for the regularization
// pipeline. A nil *Recorder is valid and records nothing, so nodes can call
// it unconditionally.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldreg"

// Update outcomes used as the status label.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Recorder groups the pipeline instruments registered on one registry.
type Recorder struct {
	updates        *prometheus.CounterVec
	updateDuration prometheus.Histogram
	passDuration   *prometheus.HistogramVec
	kernelRadius   *prometheus.GaugeVec
	clamped        prometheus.Counter
	pixels         prometheus.Counter
}

// New registers the instruments on reg. Registering twice on the same
// registry panics, as promauto does.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "regularizer",
			Name:      "updates_total",
			Help:      "Regularizer recomputations by outcome",
		}, []string{"status"}),
		updateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "regularizer",
			Name:      "update_duration_seconds",
			Help:      "Wall time of one full smoothing chain",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		passDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "convolve",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of one directional pass",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"axis"}),
		kernelRadius: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "kernel",
			Name:      "radius",
			Help:      "Half-width of the last kernel built per axis",
		}, []string{"axis"}),
		clamped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kernel",
			Name:      "clamped_total",
			Help:      "Kernels cut at the maximum width before reaching the error bound",
		}),
		pixels: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "regularizer",
			Name:      "pixels_total",
			Help:      "Pixels smoothed by successful updates",
		}),
	}
}

// ObserveUpdate records one recomputation of pixels grid points.
func (r *Recorder) ObserveUpdate(status string, pixels int, d time.Duration) {
	if r == nil {
		return
	}
	r.updates.WithLabelValues(status).Inc()
	r.updateDuration.Observe(d.Seconds())
	if status == StatusSuccess {
		r.pixels.Add(float64(pixels))
	}
}

// ObserveKernel records the kernel built for axis.
func (r *Recorder) ObserveKernel(axis, radius int, clamped bool) {
	if r == nil {
		return
	}
	r.kernelRadius.WithLabelValues(strconv.Itoa(axis)).Set(float64(radius))
	if clamped {
		r.clamped.Inc()
	}
}

// ObservePass records one directional pass along axis.
func (r *Recorder) ObservePass(axis int, d time.Duration) {
	if r == nil {
		return
	}
	r.passDuration.WithLabelValues(strconv.Itoa(axis)).Observe(d.Seconds())
}
