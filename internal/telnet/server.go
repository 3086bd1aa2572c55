// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package telnet provides the line-based network adapter: it accepts
// connections, attaches them to characters, and feeds lines into the
// session layer for the engine to drain.
package telnet

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/mudforge/mudforge/internal/session"
)

// Server accepts telnet-style connections.
type Server struct {
	addr     string
	listener net.Listener
	binder   Binder
	sessions *session.Manager
	mu       sync.RWMutex
}

// NewServer creates a server that binds connections to characters through
// binder and registers them with the session manager.
func NewServer(addr string, binder Binder, sessions *session.Manager) *Server {
	return &Server{
		addr:     addr,
		binder:   binder,
		sessions: sessions,
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("telnet server started", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("accept failed", "error", err)
				continue
			}
		}
		handler := NewConnectionHandler(conn, s.binder, s.sessions)
		go handler.Handle(ctx)
	}
}
