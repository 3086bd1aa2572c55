// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mudforge/mudforge/internal/actor"
)

var tracer = otel.Tracer("mudforge/command")

// Dispatcher resolves raw command text against the verb table, the socials
// table, and the skill resolver, applying busy/state gating and recording
// results into any open trigger context.
//
// The dispatcher runs exclusively on the engine loop thread; the transient
// executing set needs no locking.
type Dispatcher struct {
	registry *Registry
	socials  *SocialTable
	skills   SkillResolver   // optional, can be nil
	recorder TriggerRecorder // optional, can be nil

	// executing marks actors with a top-level invocation in flight so a
	// re-entrant invocation (a scripted command invoking command
	// processing) is not double-registered. Cleared exactly once per
	// top-level entry, on every exit path.
	executing map[ulid.ULID]struct{}
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithSocials configures the dispatcher with a social gesture table.
func WithSocials(t *SocialTable) DispatcherOption {
	return func(d *Dispatcher) {
		d.socials = t
	}
}

// WithSkillResolver configures the skill-name resolution collaborator.
func WithSkillResolver(r SkillResolver) DispatcherOption {
	return func(d *Dispatcher) {
		d.skills = r
	}
}

// WithTriggerRecorder configures the trigger context stack.
func WithTriggerRecorder(r TriggerRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	d := &Dispatcher{
		registry:  registry,
		executing: make(map[ulid.ULID]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// IsInstant reports whether the leading sub-command of input is an instant
// command: one that consumes no tick and no recovery time, eligible for
// same-tick chaining by the scheduler.
func (d *Dispatcher) IsInstant(input string) bool {
	subs := Split(input)
	if len(subs) == 0 {
		return false
	}
	parsed, err := Parse(subs[0])
	if err != nil {
		return false
	}
	if IsMarkerVerb(parsed.Name) {
		return true
	}
	entry, ok := d.registry.Get(parsed.Name)
	return ok && entry.Instant
}

// Execute processes one raw input string for an actor: splits it into
// sub-commands, gates each one, and dispatches. User-level failures become
// results and the remaining sub-commands still run; unexpected errors abort
// the invocation and propagate to the main loop's isolation boundary with
// cleanup already performed.
func (d *Dispatcher) Execute(ctx context.Context, w World, act *actor.Actor, input string) (err error) {
	if act == nil || act.ID.Compare(ulid.ULID{}) == 0 {
		return ErrNoReference()
	}

	// Top-level bookkeeping: mark the actor as currently executing unless
	// a re-entrant invocation already did.
	topLevel := false
	if _, running := d.executing[act.ID]; !running {
		d.executing[act.ID] = struct{}{}
		topLevel = true
	}
	defer func() {
		if topLevel {
			delete(d.executing, act.ID)
		}
	}()

	for _, sub := range Split(input) {
		if err := d.executeOne(ctx, w, act, sub); err != nil {
			return err
		}
	}
	return nil
}

// Executing reports whether the actor has a top-level invocation in flight.
func (d *Dispatcher) Executing(id ulid.ULID) bool {
	_, ok := d.executing[id]
	return ok
}

// executeOne gates and dispatches a single sub-command.
func (d *Dispatcher) executeOne(ctx context.Context, w World, act *actor.Actor, input string) (err error) {
	parsed, perr := Parse(input)
	if perr != nil {
		act.SendText(actor.ChannelDynamic, PlayerMessage(perr))
		return nil
	}

	// Trigger-boundary markers are metadata: no gating, no recording.
	if IsMarkerVerb(parsed.Name) {
		return d.executeMarker(ctx, act, parsed)
	}

	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.verb", parsed.Name),
			attribute.String("actor.id", act.ID.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	entry, found := d.registry.Get(parsed.Name)

	// Precondition checks in fixed priority order. Instant verbs face the
	// same dead/sleep/sit/stun gates as everything else; they only skip the
	// busy queue, since they consume no recovery time and a queue stop must
	// take effect immediately.
	instant := found && entry.Instant
	switch act.ActBlocker(w.Tick()) {
	case actor.BlockDead:
		if !found || !entry.AllowDead {
			act.SendText(actor.ChannelDynamic, "You are dead. Death tends to limit your options.")
			d.record(act.ID, Result{Command: input, Succeeded: false, Message: "dead"})
			return nil
		}
	case actor.BlockSleeping:
		if !found || !entry.AllowSleeping {
			act.SendText(actor.ChannelDynamic, "You can't do that while you're asleep!")
			d.record(act.ID, Result{Command: input, Succeeded: false, Message: "sleeping"})
			return nil
		}
	case actor.BlockSitting:
		if !found || !entry.AllowSitting {
			act.SendText(actor.ChannelDynamic, "You can't do that while you're sitting!")
			d.record(act.ID, Result{Command: input, Succeeded: false, Message: "sitting"})
			return nil
		}
	case actor.BlockStunned:
		act.SendText(actor.ChannelDynamic, "You can't do that while you're stunned!")
		d.record(act.ID, Result{Command: input, Succeeded: false, Message: "stunned"})
		return nil
	case actor.BlockBusy:
		if !instant {
			// Busy is not an error: the command waits its turn.
			act.EnqueueCommand(input)
			act.SendText(actor.ChannelDynamic, "(queued)")
			QueuedCommands.Inc()
			RecordExecution(parsed.Name, "core", StatusQueued)
			return nil
		}
	}

	exec := &Execution{
		Actor:      act,
		World:      w,
		Args:       parsed.Args,
		InvokedAs:  parsed.Name,
		Dispatcher: d,
	}

	start := time.Now()
	res, handlerErr := d.resolve(ctx, exec, parsed)
	RecordDuration(parsed.Name, "core", time.Since(start))

	if handlerErr != nil {
		RecordExecution(parsed.Name, "core", StatusError)
		slog.ErrorContext(ctx, "command handler failed",
			"verb", parsed.Name,
			"actor_id", act.ID.String(),
			"error", handlerErr,
		)
		return EngineError(act.ID.String(), input, handlerErr)
	}

	if res.Succeeded {
		RecordExecution(parsed.Name, "core", StatusSuccess)
	} else {
		RecordExecution(parsed.Name, "core", StatusFailed)
	}
	d.record(act.ID, res)
	return nil
}

// resolve looks the verb up in, in order: the static verb table, the social
// gesture table, the skill-name resolver.
func (d *Dispatcher) resolve(ctx context.Context, exec *Execution, parsed *ParsedCommand) (Result, error) {
	if entry, ok := d.registry.Get(parsed.Name); ok {
		return entry.Handler(ctx, exec)
	}

	if d.socials != nil {
		if social, ok := d.socials.Get(parsed.Name); ok {
			return d.socials.Execute(ctx, exec, social)
		}
	}

	if d.skills != nil {
		if skillID, remainder, ok := d.skills.ResolveSkillName(parsed.Raw); ok {
			return d.skills.InvokeSkill(ctx, exec, skillID, remainder)
		}
	}

	RecordExecution(parsed.Name, "core", StatusNotFound)
	msg := PlayerMessage(ErrUnknownCommand(parsed.Name))
	exec.Actor.SendText(actor.ChannelDynamic, msg)
	return Result{Command: parsed.Raw, Succeeded: false, Message: msg}, nil
}

// executeMarker handles the trigger-boundary commands. Markers are never
// recorded as command results.
func (d *Dispatcher) executeMarker(ctx context.Context, act *actor.Actor, parsed *ParsedCommand) error {
	if d.recorder == nil {
		return nil
	}
	switch parsed.Name {
	case BeginMarkerVerb:
		marker, err := DecodeBeginMarker(parsed.Args)
		if err != nil {
			return err
		}
		d.recorder.Begin(act.ID, marker)
	case EndMarkerVerb:
		d.recorder.End(ctx, act.ID)
	}
	return nil
}

// record appends a result to the actor's open trigger result, if any.
func (d *Dispatcher) record(actorID ulid.ULID, res Result) {
	if d.recorder != nil {
		d.recorder.Record(actorID, res)
	}
}
