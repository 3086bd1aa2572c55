// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command execution metrics.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusQueued   = "queued"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Executions is the counter for command executions.
// Use RegisterMetrics to register this with a Prometheus registry.
var Executions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mudforge_command_executions_total",
		Help: "Total number of command executions",
	},
	[]string{"verb", "source", "status"},
)

// Duration is the histogram for command execution duration.
var Duration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "mudforge_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"verb", "source"},
)

// QueuedCommands counts commands deferred into actor queues by busy gating.
var QueuedCommands = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mudforge_commands_queued_total",
		Help: "Total number of commands queued because the actor was busy",
	},
)

// RegisterMetrics registers command package metrics with the given registry.
// Must be called at startup to make metrics available on /metrics.
// Panics if registration fails (prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Executions)
	reg.MustRegister(Duration)
	reg.MustRegister(QueuedCommands)
}

// RecordExecution increments the execution counter.
func RecordExecution(verb, source, status string) {
	Executions.WithLabelValues(verb, source, status).Inc()
}

// RecordDuration records how long a command took to execute.
func RecordDuration(verb, source string, d time.Duration) {
	Duration.WithLabelValues(verb, source).Observe(d.Seconds())
}
