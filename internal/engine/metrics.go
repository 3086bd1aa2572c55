// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TickDuration observes how long each tick's work took.
var TickDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "mudforge_tick_duration_seconds",
		Help:    "Wall time spent running one tick",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	},
)

// TickOverruns counts ticks whose work exceeded the tick duration.
var TickOverruns = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_tick_overruns_total",
		Help: "Total number of ticks that overran their time budget",
	},
)

// QueueDepth tracks the total queued commands across all actors.
var QueueDepth = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "mudforge_queued_commands",
		Help: "Commands waiting in actor queues after queue advancement",
	},
)

// Actors tracks the live actor count.
var Actors = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "mudforge_actors",
		Help: "Live actors in the world arena",
	},
)

// Fights tracks the combat set size.
var Fights = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "mudforge_fights",
		Help: "Actors currently in the combat set",
	},
)

// Deaths counts actor deaths.
var Deaths = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_deaths_total",
		Help: "Total number of actor deaths",
	},
)

// DispatchFailures counts isolated dispatch errors and panics.
var DispatchFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_dispatch_failures_total",
		Help: "Total number of dispatches that errored or panicked",
	},
)

// RegisterMetrics registers engine package metrics with the given registry.
// Must be called at startup to make metrics available on /metrics.
// Panics if registration fails (prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(TickDuration)
	reg.MustRegister(TickOverruns)
	reg.MustRegister(QueueDepth)
	reg.MustRegister(Actors)
	reg.MustRegister(Fights)
	reg.MustRegister(Deaths)
	reg.MustRegister(DispatchFailures)
}
