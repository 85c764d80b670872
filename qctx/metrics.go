package qctx

import "github.com/prometheus/client_golang/prometheus"

// Recorder is an optional metrics sink a Context can carry through
// WithMetrics. It is deliberately narrow: a counter of kernel
// invocations by name, and a histogram of the group count each call was
// dispatched over. Nothing in kernel or dispatch requires a Recorder —
// it exists purely so the dispatch layer has somewhere real to report
// through, without kernels themselves doing any I/O or logging (they
// never do, per the library's error-handling policy).
type Recorder struct {
	calls  *prometheus.CounterVec
	groups prometheus.Histogram
}

// NewRecorder builds a Recorder and registers its collectors with reg.
// Passing prometheus.DefaultRegisterer is the common case; a nil
// registerer skips registration (useful in tests that build many
// short-lived Recorders).
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsquant",
			Subsystem: "kernel",
			Name:      "calls_total",
			Help:      "Number of kernel invocations by operator name.",
		}, []string{"kernel"}),
		groups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tsquant",
			Subsystem: "dispatch",
			Name:      "group_count",
			Help:      "Group count a dispatch call fanned out over.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(r.calls, r.groups)
	}
	return r
}

// ObserveCall records one invocation of the named kernel.
func (r *Recorder) ObserveCall(kernel string) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(kernel).Inc()
}

// ObserveGroups records the group count a dispatch call fanned out
// over.
func (r *Recorder) ObserveGroups(groups int) {
	if r == nil {
		return
	}
	r.groups.Observe(float64(groups))
}
