// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package trigger

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/command"
)

// TriggerResult accumulates the outcomes of every top-level command executed
// between one begin marker and its matching end marker. Nested firings each
// get their own entry; the full ordered list is what a narrative hand-off
// sees.
type TriggerResult struct {
	Kind      string           `json:"kind"`
	TriggerID ulid.ULID        `json:"trigger_id"`
	Criteria  string           `json:"criteria"`
	Initiator ulid.ULID        `json:"initiator"`
	Commands  []command.Result `json:"commands"`
}

// Context is the per-actor trigger bookkeeping between the outermost begin
// marker and the matching end marker. Results holds every firing in begin
// order; the stack tracks which firing is currently recording.
type Context struct {
	ActorID   ulid.ULID
	Initiator ulid.ULID
	Results   []*TriggerResult

	stack []*TriggerResult
}

// Depth returns the current marker nesting level.
func (c *Context) Depth() int {
	return len(c.stack)
}

// Tracker maintains trigger contexts for all actors, keyed by actor id. It
// implements the dispatcher's recording interface. All methods run on the
// engine loop thread; only the narrative hand-off leaves it, and that works
// from an immutable snapshot.
type Tracker struct {
	contexts      map[ulid.ULID]*Context
	narrator      Narrator
	injector      Injector
	shouldNarrate func(ulid.ULID) bool
}

// TrackerOption configures a Tracker during construction.
type TrackerOption func(*Tracker)

// WithNarrator configures the narrative collaborator that receives completed
// contexts.
func WithNarrator(n Narrator) TrackerOption {
	return func(t *Tracker) {
		t.narrator = n
	}
}

// WithInjector configures where narration follow-up commands are delivered.
func WithInjector(i Injector) TrackerOption {
	return func(t *Tracker) {
		t.injector = i
	}
}

// WithNarrationGate configures the predicate deciding whether a completed
// context for the given actor is handed off for narration.
func WithNarrationGate(fn func(ulid.ULID) bool) TrackerOption {
	return func(t *Tracker) {
		t.shouldNarrate = fn
	}
}

// SetInjector binds the follow-up destination after construction. The
// engine is built after the tracker, so wiring calls this once before the
// loop starts.
func (t *Tracker) SetInjector(i Injector) {
	t.injector = i
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		contexts:      make(map[ulid.ULID]*Context),
		shouldNarrate: func(ulid.ULID) bool { return false },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin opens a trigger result for the actor. The first begin creates the
// context and pins the initiator; nested begins push onto the existing one.
func (t *Tracker) Begin(actorID ulid.ULID, m command.BeginMarker) {
	ctx, ok := t.contexts[actorID]
	if !ok {
		ctx = &Context{
			ActorID:   actorID,
			Initiator: m.Initiator,
		}
		t.contexts[actorID] = ctx
	}

	tr := &TriggerResult{
		Kind:      m.Kind,
		TriggerID: m.TriggerID,
		Criteria:  m.Criteria,
		Initiator: m.Initiator,
	}
	ctx.Results = append(ctx.Results, tr)
	ctx.stack = append(ctx.stack, tr)
	Firings.WithLabelValues(m.Kind).Inc()
}

// Record appends a command result to the actor's currently recording trigger
// result. Results outside any open context are dropped.
func (t *Tracker) Record(actorID ulid.ULID, res command.Result) {
	ctx, ok := t.contexts[actorID]
	if !ok || len(ctx.stack) == 0 {
		return
	}
	top := ctx.stack[len(ctx.stack)-1]
	top.Commands = append(top.Commands, res)
}

// Open reports whether the actor has a trigger result currently recording.
func (t *Tracker) Open(actorID ulid.ULID) bool {
	ctx, ok := t.contexts[actorID]
	return ok && len(ctx.stack) > 0
}

// End closes the innermost open trigger result. When the outermost result
// closes, the whole context is finalized: handed off for narration at most
// once if the actor qualifies, then destroyed either way.
func (t *Tracker) End(ctx context.Context, actorID ulid.ULID) {
	st, ok := t.contexts[actorID]
	if !ok || len(st.stack) == 0 {
		slog.WarnContext(ctx, "trigger end marker without open context",
			"actor_id", actorID.String(),
		)
		return
	}
	st.stack = st.stack[:len(st.stack)-1]
	if len(st.stack) > 0 {
		return
	}

	delete(t.contexts, actorID)
	if t.narrator == nil || !t.shouldNarrate(actorID) {
		return
	}
	t.handOff(ctx, snapshotContext(st))
}

// Discard destroys the actor's trigger context without a hand-off. The
// engine calls this when dispatch of the owning invocation fails partway.
func (t *Tracker) Discard(actorID ulid.ULID) {
	delete(t.contexts, actorID)
}

// Context returns the actor's open context, if any. Exposed for tests and
// diagnostics.
func (t *Tracker) Context(actorID ulid.ULID) (*Context, bool) {
	ctx, ok := t.contexts[actorID]
	return ctx, ok
}
