// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package command provides the verb registry, input parser, and the
// dispatcher that gates, resolves, and executes actor commands.
package command

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
)

// Result records the outcome of one executed command. Immutable once
// recorded into a trigger result.
type Result struct {
	Command   string `json:"command"`
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message,omitempty"`
}

// Handler is the function signature for command handlers. Handlers convert
// user-level failures into the returned Result; only unexpected conditions
// surface as errors.
type Handler func(ctx context.Context, exec *Execution) (Result, error)

// Entry is a registered verb in the dispatch table.
type Entry struct {
	Name    string  // canonical verb (e.g. "say")
	Handler Handler // resolved once at startup
	// Instant commands consume no tick and no recovery time; the
	// scheduler chains them within one tick.
	Instant bool
	// AllowDead lets the verb run for dead actors (e.g. "quit").
	AllowDead bool
	// AllowSitting lets the verb run while forced-sitting (e.g. "stand").
	AllowSitting bool
	// AllowSleeping lets the verb run while asleep (e.g. "wake").
	AllowSleeping bool
	Help         string
	Usage        string
	Source       string // "core" or content pack name
}

// World is the slice of world state handlers and the dispatcher need.
// Implemented by the engine; all calls happen on the loop thread.
type World interface {
	// Actor resolves a reference id to a live actor.
	Actor(id ulid.ULID) (*actor.Actor, bool)
	// Tick returns the current world clock tick.
	Tick() int64
	// EchoRoom delivers text to every character in a room except the
	// excluded actors.
	EchoRoom(roomID ulid.ULID, channel actor.Channel, text string, exclude ...ulid.ULID)
	// FindInRoom resolves a name to an actor co-located with the room.
	FindInRoom(roomID ulid.ULID, name string) (*actor.Actor, bool)
	// StartFight puts two actors into the round-based combat set.
	StartFight(attacker, defender ulid.ULID)
	// StopFight removes an actor from combat.
	StopFight(id ulid.ULID)
	// Remove deletes an actor from the arena (quit, despawn).
	Remove(id ulid.ULID)
	// Schedule registers a one-shot event for a future tick.
	Schedule(tick int64, name string, owner ulid.ULID, fn func(now int64))
}

// Execution carries the context for one command invocation.
type Execution struct {
	Actor      *actor.Actor
	World      World
	Args       string // unparsed argument string
	InvokedAs  string // the verb as typed
	Dispatcher *Dispatcher
}

// TriggerRecorder is the trigger-context stack as seen by the dispatcher:
// begin/end markers manage nesting, and every other top-level command
// executed while a trigger result is open gets recorded into it.
type TriggerRecorder interface {
	// Begin opens a new trigger result for the actor, creating the
	// context if none exists, and increments the nesting level.
	Begin(actorID ulid.ULID, marker BeginMarker)
	// End decrements the nesting level; at zero the full context is
	// handed off and discarded.
	End(ctx context.Context, actorID ulid.ULID)
	// Record appends a command result to the actor's open trigger
	// result, if any.
	Record(actorID ulid.ULID, res Result)
	// Open reports whether the actor has a currently-open trigger result.
	Open(actorID ulid.ULID) bool
}

// SkillResolver is the pluggable skill catalog contract. The dispatcher
// consults it after the verb table and the socials table.
type SkillResolver interface {
	// ResolveSkillName matches the leading words of input against known
	// skill names, returning the skill id and the unmatched remainder.
	ResolveSkillName(input string) (skillID, remainder string, ok bool)
	// InvokeSkill runs the skill state machine for the acting actor.
	InvokeSkill(ctx context.Context, exec *Execution, skillID, remainder string) (Result, error)
}
