// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package session

import (
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/engine"
)

// DefaultLinkdeadAfter is how long a connection may sit idle before the
// sweep reports it linkdead.
const DefaultLinkdeadAfter = 15 * time.Minute

// Manager tracks live connections and feeds the engine one input line per
// connection per tick. Safe for concurrent use.
type Manager struct {
	mu            sync.RWMutex
	conns         map[ulid.ULID]*Connection
	linkdeadAfter time.Duration
}

// ManagerOption configures a Manager during construction.
type ManagerOption func(*Manager)

// WithLinkdeadAfter overrides the idle threshold for the linkdead sweep.
func WithLinkdeadAfter(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.linkdeadAfter = d
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		conns:         make(map[ulid.ULID]*Connection),
		linkdeadAfter: DefaultLinkdeadAfter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a connection.
func (m *Manager) Register(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Unregister removes and closes a connection.
func (m *Manager) Unregister(id ulid.ULID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conns[id]; ok {
		c.Close()
		delete(m.conns, id)
	}
}

// Connection returns a registered connection.
func (m *Manager) Connection(id ulid.ULID) (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

// Len returns the number of registered connections.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// DrainOne pops at most one pending line from each bound connection, in
// connection-id order so tick processing stays deterministic.
func (m *Manager) DrainOne() []engine.Input {
	var out []engine.Input
	for _, c := range m.sorted() {
		actorID := c.ActorID()
		if actorID.Compare(ulid.ULID{}) == 0 {
			continue
		}
		if line, ok := c.popInput(); ok {
			out = append(out, engine.Input{ActorID: actorID, Line: line})
		}
	}
	return out
}

// SweepLinkdead removes connections idle past the threshold and returns the
// actor ids they were bound to, so the caller can flag those actors.
func (m *Manager) SweepLinkdead() []ulid.ULID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orphaned []ulid.ULID
	for id, c := range m.conns {
		if c.IdleFor() < m.linkdeadAfter {
			continue
		}
		if actorID := c.ActorID(); actorID.Compare(ulid.ULID{}) != 0 {
			orphaned = append(orphaned, actorID)
		}
		c.Close()
		delete(m.conns, id)
	}
	return orphaned
}

func (m *Manager) sorted() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Connection, 0, len(m.conns))
	for _, c := range m.conns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out
}
