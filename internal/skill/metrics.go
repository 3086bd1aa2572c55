// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cast outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCooldown = "cooldown"
	OutcomeFizzled  = "fizzled"
)

// Casts counts skill resolutions by skill and outcome.
var Casts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mudforge_skill_casts_total",
		Help: "Total number of skill casts by outcome",
	},
	[]string{"skill", "outcome"},
)

// RegisterMetrics registers skill package metrics with the given registry.
// Must be called at startup to make metrics available on /metrics.
// Panics if registration fails (prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Casts)
}

// RecordCast increments the cast counter.
func RecordCast(skillID, outcome string) {
	Casts.WithLabelValues(skillID, outcome).Inc()
}
