// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package telnet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/session"
)

// Binder attaches connections to characters. Implementations marshal the
// world mutation onto the engine loop thread; both calls are safe from
// network goroutines.
type Binder interface {
	// BindCharacter attaches out to the character with the given name,
	// creating it if needed, and returns its actor id.
	BindCharacter(ctx context.Context, name string, out actor.Output) (ulid.ULID, error)
	// ReleaseCharacter detaches the character's output when the
	// connection drops.
	ReleaseCharacter(id ulid.ULID)
}

// ConnectionHandler drives one connection: a small pre-auth dialogue, then
// every line goes into the session input queue for the engine.
type ConnectionHandler struct {
	conn     net.Conn
	reader   *bufio.Reader
	binder   Binder
	sessions *session.Manager

	sess    *session.Connection
	actorID ulid.ULID
	authed  bool
}

// NewConnectionHandler creates a handler for one accepted connection.
func NewConnectionHandler(conn net.Conn, binder Binder, sessions *session.Manager) *ConnectionHandler {
	return &ConnectionHandler{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		binder:   binder,
		sessions: sessions,
	}
}

// Handle processes the connection until closed.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	defer func() {
		if h.authed {
			h.sessions.Unregister(h.sess.ID)
			h.binder.ReleaseCharacter(h.actorID)
		}
		if err := h.conn.Close(); err != nil {
			slog.Debug("error closing connection", "error", err)
		}
	}()

	h.send("Welcome to MudForge!")
	h.send("Use: connect <name>")

	lineCh := make(chan string)
	errCh := make(chan error)

	go func() {
		for {
			line, err := h.reader.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			select {
			case lineCh <- strings.TrimSpace(line):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-errCh:
			if !errors.Is(err, io.EOF) {
				slog.Debug("connection read error", "error", err)
			}
			return

		case line := <-lineCh:
			if h.authed {
				h.sess.PushInput(line)
				continue
			}
			h.processPreAuth(ctx, line)
		}
	}
}

// processPreAuth handles the dialogue before a character is attached.
func (h *ConnectionHandler) processPreAuth(ctx context.Context, line string) {
	fields := strings.SplitN(line, " ", 2)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "connect":
		if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
			h.send("Usage: connect <name>")
			return
		}
		h.handleConnect(ctx, strings.TrimSpace(fields[1]))
	case "quit":
		h.send("Goodbye!")
		_ = h.conn.Close()
	case "":
	default:
		h.send("You must connect first. Use: connect <name>")
	}
}

func (h *ConnectionHandler) handleConnect(ctx context.Context, name string) {
	sess := session.NewConnection(h.conn)

	actorID, err := h.binder.BindCharacter(ctx, name, sess)
	if err != nil {
		slog.Error("failed to bind character",
			"name", name,
			"error", err,
		)
		h.send("That name is not available right now.")
		return
	}

	sess.BindActor(actorID)
	h.sessions.Register(sess)
	h.sess = sess
	h.actorID = actorID
	h.authed = true

	h.send(fmt.Sprintf("Welcome, %s!", name))
}

func (h *ConnectionHandler) send(msg string) {
	if _, err := fmt.Fprintf(h.conn, "%s\r\n", msg); err != nil {
		slog.Debug("failed to send message to client", "error", err)
	}
}
