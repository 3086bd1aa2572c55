// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package session bridges network connections and the engine: per-connection
// input queues drained one line per tick, output delivery, and linkdead
// detection. Connections are touched by network goroutines; everything here
// is safe for concurrent use.
package session

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
)

// Connection is one attached client. The reader goroutine pushes lines in;
// the engine drains one per tick through the manager.
type Connection struct {
	ID ulid.ULID

	mu        sync.Mutex
	actorID   ulid.ULID
	pending   []string
	lastInput time.Time
	w         io.Writer
	closed    bool
}

// NewConnection creates a connection writing output to w.
func NewConnection(w io.Writer) *Connection {
	return &Connection{
		ID:        ulid.Make(),
		lastInput: time.Now(),
		w:         w,
	}
}

// BindActor attaches the connection to an actor.
func (c *Connection) BindActor(id ulid.ULID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actorID = id
}

// ActorID returns the bound actor id, zero if unbound.
func (c *Connection) ActorID() ulid.ULID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actorID
}

// PushInput appends one input line and refreshes the idle clock. Blank
// lines still count as activity but are not queued.
func (c *Connection) PushInput(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastInput = time.Now()
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	c.pending = append(c.pending, line)
}

// popInput removes and returns the oldest pending line.
func (c *Connection) popInput() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return "", false
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, true
}

// Pending returns the number of queued input lines.
func (c *Connection) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// IdleFor returns how long the connection has gone without input.
func (c *Connection) IdleFor() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.lastInput)
}

// SendText delivers one line of game text. Implements the actor output
// contract; write failures are swallowed so the simulation never stalls on
// a dying connection.
func (c *Connection) SendText(_ actor.Channel, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.w == nil {
		return nil
	}
	_, err := io.WriteString(c.w, text+"\r\n")
	return err
}

// Close marks the connection closed; subsequent writes are dropped.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
