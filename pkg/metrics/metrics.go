// Package metrics exports Prometheus counters and a latency histogram for
// form validations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/formkit/pkg/form"
)

const namespace = "formkit"

const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Recorder tracks validation outcomes per form name.
type Recorder struct {
	validations *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of validated forms by result.",
		}, []string{"form", "result"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_errors_total",
			Help:      "Total number of invalid top-level fields.",
		}, []string{"form", "field"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent declaring and validating a form.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"form"}),
	}

	for _, c := range []prometheus.Collector{r.validations, r.fieldErrors, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one finished validation of n.
func (r *Recorder) Observe(name string, n *form.Node, d time.Duration) {
	r.duration.WithLabelValues(name).Observe(d.Seconds())

	if n.Valid() {
		r.validations.WithLabelValues(name, ResultValid).Inc()
		return
	}
	r.validations.WithLabelValues(name, ResultInvalid).Inc()
	for _, field := range n.Errors().Fields() {
		r.fieldErrors.WithLabelValues(name, field).Inc()
	}
}

// Start returns a function that observes n with the time elapsed since Start.
//
//	done := rec.Start("signup")
//	n := buildSignup(input)
//	done(n)
func (r *Recorder) Start(name string) func(*form.Node) {
	start := time.Now()
	return func(n *form.Node) {
		r.Observe(name, n, time.Since(start))
	}
}
