// Package metrics exports store activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/cell/pkg/core"
)

// Observer implements core.Observer on top of Prometheus collectors.
type Observer struct {
	commits          *prometheus.CounterVec
	version          *prometheus.GaugeVec
	transformFailure *prometheus.CounterVec
	persistFailure   *prometheus.CounterVec
	subscribers      *prometheus.GaugeVec
	updateWait       *prometheus.HistogramVec
}

// NewObserver creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cell_commits_total",
			Help: "Values committed by a store.",
		}, []string{"store"}),
		version: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cell_store_version",
			Help: "Sequence number of the latest commit.",
		}, []string{"store"}),
		transformFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cell_transform_failures_total",
			Help: "Updates aborted because the transform failed.",
		}, []string{"store"}),
		persistFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cell_persist_failures_total",
			Help: "Updates aborted because the persister rejected the value.",
		}, []string{"store"}),
		subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cell_subscribers",
			Help: "Active subscriptions per store.",
		}, []string{"store"}),
		updateWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cell_update_wait_seconds",
			Help:    "Time an update waited for its turn.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"store"}),
	}

	reg.MustRegister(o.commits, o.version, o.transformFailure, o.persistFailure, o.subscribers, o.updateWait)
	return o
}

func (o *Observer) Committed(store string, seq uint64) {
	o.commits.WithLabelValues(store).Inc()
	o.version.WithLabelValues(store).Set(float64(seq))
}

func (o *Observer) TransformFailed(store string) {
	o.transformFailure.WithLabelValues(store).Inc()
}

func (o *Observer) PersistFailed(store string) {
	o.persistFailure.WithLabelValues(store).Inc()
}

func (o *Observer) Subscribers(store string, n int) {
	o.subscribers.WithLabelValues(store).Set(float64(n))
}

func (o *Observer) UpdateWaited(store string, d time.Duration) {
	o.updateWait.WithLabelValues(store).Observe(d.Seconds())
}

var _ core.Observer = (*Observer)(nil)
