// Package metrics exports slice sync outcomes to Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hubble-exchange/web3-onboard/internal/state"
)

// Recorder implements state.Observer.
type Recorder struct {
	syncs    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	handles  prometheus.GaugeFunc
}

var _ state.Observer = (*Recorder)(nil)

// NewRecorder registers the sync collectors on reg. liveHandles, when not
// nil, backs the live-attachment gauge.
func NewRecorder(reg prometheus.Registerer, liveHandles func() int) (*Recorder, error) {
	r := &Recorder{
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletsync",
			Name:      "slice_syncs_total",
			Help:      "Values delivered by wallet syncers, by slice, source and outcome.",
		}, []string{"slice", "source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "walletsync",
			Name:      "slice_sync_duration_seconds",
			Help:      "Time from poll start (or callback entry) to outcome.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"slice", "source"}),
	}
	syncs, err := register(reg, r.syncs)
	if err != nil {
		return nil, err
	}
	r.syncs = syncs.(*prometheus.CounterVec)
	duration, err := register(reg, r.duration)
	if err != nil {
		return nil, err
	}
	r.duration = duration.(*prometheus.HistogramVec)

	if liveHandles != nil {
		r.handles = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "walletsync",
			Name:      "live_attachments",
			Help:      "Syncer attachments (schedules and push subscriptions) currently active.",
		}, func() float64 { return float64(liveHandles()) })
		if _, err := register(reg, r.handles); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one.
func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector, nil
		}
		return nil, err
	}
	return c, nil
}

// ObserveSync implements state.Observer.
func (r *Recorder) ObserveSync(e state.SyncEvent) {
	r.syncs.WithLabelValues(e.Slice, string(e.Source), string(e.Outcome)).Inc()
	r.duration.WithLabelValues(e.Slice, string(e.Source)).Observe(e.Duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
