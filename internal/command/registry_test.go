// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(_ context.Context, _ *Execution) (Result, error) {
	return Result{Succeeded: true}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{Name: "look", Handler: nopHandler, Source: "core"})

	entry, ok := reg.Get("look")
	require.True(t, ok)
	assert.Equal(t, "look", entry.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryLastLoadedWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{Name: "look", Handler: nopHandler, Source: "core"})
	reg.Register(Entry{Name: "look", Handler: nopHandler, Source: "pack"})

	entry, ok := reg.Get("look")
	require.True(t, ok)
	assert.Equal(t, "pack", entry.Source)
	assert.Len(t, reg.All(), 1)
}

func TestPlayerMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "Something went wrong. Try again."},
		{name: "unknown command", err: ErrUnknownCommand("frob"), want: "Unknown command."},
		{name: "plain error", err: assert.AnError, want: "Something went wrong. Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlayerMessage(tt.err))
		})
	}
}
