// Package metrics exposes interval and intention activity as Prometheus
// metrics through a listener registered alongside the user interface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

const namespace = "pomodouroboros"

// StreakSource reports the current streak length. *nexus.Nexus satisfies it.
type StreakSource interface {
	StreakCount() int
}

// Recorder is a nexus.UIEventListener that updates its own registry.
// It is called on the goroutine driving the Nexus, so it reads the streak
// there instead of from the scrape goroutine.
type Recorder struct {
	reg    *prometheus.Registry
	source StreakSource

	starts     *prometheus.CounterVec
	progress   prometheus.Gauge
	points     prometheus.Counter
	streak     prometheus.Gauge
	intentions *prometheus.CounterVec
}

// New builds a Recorder with a fresh registry. source may be nil.
func New(source StreakSource) *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg:    reg,
		source: source,
		starts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interval_starts_total",
			Help:      "Intervals started, by kind",
		}, []string{"kind"}),
		progress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interval_progress",
			Help:      "Elapsed fraction of the current interval (0..1)",
		}),
		points: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_points_total",
			Help:      "Points earned from evaluated pomodoros",
		}),
		streak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak",
			Help:      "Pomodoros in the current streak",
		}),
		intentions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intentions_total",
			Help:      "Intention lifecycle events (added, completed, abandoned)",
		}, []string{"event"}),
	}
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Recorder) syncStreak() {
	if r.source != nil {
		r.streak.Set(float64(r.source.StreakCount()))
	}
}

func (r *Recorder) IntervalStart(iv interval.Interval) {
	r.starts.WithLabelValues(string(iv.Kind())).Inc()
	r.progress.Set(0)
	if g, ok := iv.(interval.GracePeriod); ok && g.Follows.Evaluation != nil {
		r.points.Add(g.Follows.Evaluation.Points())
	}
	r.syncStreak()
}

func (r *Recorder) IntervalProgress(fraction float64) { r.progress.Set(fraction) }

func (r *Recorder) IntervalEnd() { r.syncStreak() }

func (r *Recorder) IntentionAdded(intention.Intention) {
	r.intentions.WithLabelValues("added").Inc()
}

func (r *Recorder) IntentionAbandoned(intention.Intention) {
	r.intentions.WithLabelValues("abandoned").Inc()
}

func (r *Recorder) IntentionCompleted(intention.Intention) {
	r.intentions.WithLabelValues("completed").Inc()
}
