/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package metrics wires the pdag engine's component-H diagnostics into
// Prometheus, the way the rest of the corpus instruments long-running
// engines (bittoy-rule's rule engine pulls in prometheus/client_golang for
// the same purpose: counting and timing rule evaluation).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes pdag engine activity as Prometheus metrics. A nil
// *Recorder is valid and all its methods are no-ops, so callers that don't
// care about metrics never need a nil check.
type Recorder struct {
	nodeCount        prometheus.Gauge
	normalizeLatency prometheus.Histogram
	normalizeTotal   prometheus.Counter
	normalizeMatched prometheus.Counter
}

// NewRecorder builds a Recorder and registers its collectors against reg.
// namespace/subsystem follow the usual Prometheus naming convention, e.g.
// NewRecorder(reg, "lognorm", "engine").
func NewRecorder(reg prometheus.Registerer, namespace, subsystem string) *Recorder {
	r := &Recorder{
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pdag_nodes",
			Help:      "Live node count across the main pdag and all named sub-pdags.",
		}),
		normalizeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "normalize_seconds",
			Help:      "Duration of Normalize calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		normalizeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "normalize_total",
			Help:      "Total Normalize calls.",
		}),
		normalizeMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "normalize_matched_total",
			Help:      "Normalize calls that reached a terminal node.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.nodeCount, r.normalizeLatency, r.normalizeTotal, r.normalizeMatched)
	}
	return r
}

// SetNodeCount records the current live node count.
func (r *Recorder) SetNodeCount(n int) {
	if r == nil {
		return
	}
	r.nodeCount.Set(float64(n))
}

// ObserveNormalize records one Normalize call's duration and outcome.
func (r *Recorder) ObserveNormalize(d time.Duration, matched bool) {
	if r == nil {
		return
	}
	r.normalizeLatency.Observe(d.Seconds())
	r.normalizeTotal.Inc()
	if matched {
		r.normalizeMatched.Inc()
	}
}
