// Package metrics records pipeline activity in Prometheus collectors and
// scores alignments against references.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ontomatch"

// Recorder holds the pipeline collectors. A nil *Recorder records nothing.
type Recorder struct {
	stageRuns     *prometheus.CounterVec   // by stage
	stageSkips    *prometheus.CounterVec   // by stage and reason
	matcherRuns   *prometheus.CounterVec   // by matcher
	alignmentSize *prometheus.GaugeVec     // by stage
	stageDuration *prometheus.HistogramVec // by stage
}

// NewRecorder creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests and one-shot runs want.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Number of pipeline stages executed",
		}, []string{"stage"}),

		stageSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_skips_total",
			Help:      "Number of pipeline stages skipped by the size/language policy",
		}, []string{"stage", "reason"}),

		matcherRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matcher_runs_total",
			Help:      "Number of matcher invocations",
		}, []string{"matcher"}),

		alignmentSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "alignment_size",
			Help:      "Working alignment size after each stage",
		}, []string{"stage"}),

		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"stage"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{r.stageRuns, r.stageSkips, r.matcherRuns, r.alignmentSize, r.stageDuration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// StageRun records a completed stage and the working alignment size it left
func (r *Recorder) StageRun(stage string, d time.Duration, size int) {
	if r == nil {
		return
	}
	r.stageRuns.WithLabelValues(stage).Inc()
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	r.alignmentSize.WithLabelValues(stage).Set(float64(size))
}

// StageSkipped records a stage the policy did not run
func (r *Recorder) StageSkipped(stage, reason string) {
	if r == nil {
		return
	}
	r.stageSkips.WithLabelValues(stage, reason).Inc()
}

// MatcherRun records one matcher invocation
func (r *Recorder) MatcherRun(matcher string) {
	if r == nil {
		return
	}
	r.matcherRuns.WithLabelValues(matcher).Inc()
}
