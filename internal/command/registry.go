// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"log/slog"
)

// Registry maps verbs to handler entries. Entries are resolved once at
// startup on the wiring path; the engine loop only reads, so no locking.
type Registry struct {
	commands map[string]Entry
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Entry),
	}
}

// Register adds a verb to the registry. If the verb exists it is
// overwritten and a warning is logged: last-loaded wins.
func (r *Registry) Register(entry Entry) {
	if existing, ok := r.commands[entry.Name]; ok {
		slog.Warn("command conflict: overwriting existing command",
			"command", entry.Name,
			"previous_source", existing.Source,
			"new_source", entry.Source)
	}
	r.commands[entry.Name] = entry
}

// Get retrieves a verb's entry.
func (r *Registry) Get(name string) (Entry, bool) {
	entry, ok := r.commands[name]
	return entry, ok
}

// All returns all registered entries. The returned slice is a copy.
func (r *Registry) All() []Entry {
	entries := make([]Entry, 0, len(r.commands))
	for _, e := range r.commands {
		entries = append(entries, e)
	}
	return entries
}
