// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Firings counts trigger scripts enqueued, by event kind.
var Firings = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mudforge_trigger_firings_total",
		Help: "Total number of trigger contexts opened",
	},
	[]string{"kind"},
)

// Handoffs counts completed contexts dispatched for narration.
var Handoffs = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_trigger_handoffs_total",
		Help: "Total number of trigger contexts handed off for narration",
	},
)

// HandoffFailures counts narrations dropped after retries were exhausted.
var HandoffFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_trigger_handoff_failures_total",
		Help: "Total number of narrative hand-offs that failed permanently",
	},
)

// RegisterMetrics registers trigger package metrics with the given registry.
// Must be called at startup to make metrics available on /metrics.
// Panics if registration fails (prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Firings)
	reg.MustRegister(Handoffs)
	reg.MustRegister(HandoffFailures)
}
