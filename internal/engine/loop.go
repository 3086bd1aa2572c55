// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/trigger"
)

// Config sets the engine's timing parameters.
type Config struct {
	// TickDuration is the real-time length of one tick.
	TickDuration time.Duration
	// TicksPerRound is how many ticks pass between combat rounds.
	TicksPerRound int64
	// RegenEveryTicks is how many ticks pass between resource regeneration
	// passes.
	RegenEveryTicks int64
}

// DefaultConfig returns the standard timing parameters.
func DefaultConfig() Config {
	return Config{
		TickDuration:    500 * time.Millisecond,
		TicksPerRound:   3,
		RegenEveryTicks: 10,
	}
}

// Input is one line of player input bound to its actor.
type Input struct {
	ActorID ulid.ULID
	Line    string
}

// InputSource supplies at most one pending input line per connection each
// tick. Implemented by the session manager.
type InputSource interface {
	DrainOne() []Input
}

// Engine drives the world through ticks. A single goroutine runs the loop;
// the only cross-thread entry point is Inject, which narration and other
// collaborators use to feed commands back in.
type Engine struct {
	cfg        Config
	world      *World
	dispatcher *command.Dispatcher
	triggers   *trigger.Runner
	tracker    *trigger.Tracker
	inputs     InputSource

	roll func(n int) int

	injectMu  sync.Mutex
	injected  []Input
	submitted []func(*World)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithInputSource configures where player input is drained from.
func WithInputSource(src InputSource) Option {
	return func(e *Engine) {
		e.inputs = src
	}
}

// WithTriggers configures the trigger runner swept each tick.
func WithTriggers(r *trigger.Runner) Option {
	return func(e *Engine) {
		e.triggers = r
	}
}

// WithTracker configures the trigger context tracker, so a failed dispatch
// can destroy the actor's open context.
func WithTracker(t *trigger.Tracker) Option {
	return func(e *Engine) {
		e.tracker = t
	}
}

// WithRoll overrides the random source used by combat.
func WithRoll(fn func(n int) int) Option {
	return func(e *Engine) {
		e.roll = fn
	}
}

// New creates an engine over the given world and dispatcher.
func New(cfg Config, world *World, dispatcher *command.Dispatcher, opts ...Option) (*Engine, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if cfg.TickDuration <= 0 {
		cfg.TickDuration = DefaultConfig().TickDuration
	}
	e := &Engine{
		cfg:        cfg,
		world:      world,
		dispatcher: dispatcher,
		roll:       rand.IntN,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// World returns the engine's world.
func (e *Engine) World() *World {
	return e.world
}

// Inject queues commands for an actor from outside the loop thread. They are
// dispatched at the start of the next tick, before session input.
func (e *Engine) Inject(actorID ulid.ULID, commands []string) {
	e.injectMu.Lock()
	defer e.injectMu.Unlock()
	for _, cmd := range commands {
		e.injected = append(e.injected, Input{ActorID: actorID, Line: cmd})
	}
}

// Submit queues a closure to run on the loop thread at the start of the
// next tick, before input dispatch. This is how network goroutines mutate
// world state (binding a connection to a character) without racing the loop.
func (e *Engine) Submit(fn func(*World)) {
	e.injectMu.Lock()
	defer e.injectMu.Unlock()
	e.submitted = append(e.submitted, fn)
}

// Stop signals the loop to exit after the current tick.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
}

// Run drives ticks until the context is cancelled or Stop is called. Each
// iteration runs one tick and sleeps out the remainder of the tick duration;
// a tick that overruns starts the next one immediately.
func (e *Engine) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "engine loop starting",
		"tick_duration", e.cfg.TickDuration,
		"ticks_per_round", e.cfg.TicksPerRound,
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stopCh:
			return nil
		default:
		}

		start := time.Now()
		e.RunTick(ctx)
		elapsed := time.Since(start)
		TickDuration.Observe(elapsed.Seconds())

		remainder := e.cfg.TickDuration - elapsed
		if remainder <= 0 {
			TickOverruns.Inc()
			continue
		}
		timer := time.NewTimer(remainder)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-e.stopCh:
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunTick executes one tick's phases in order: injected and session input,
// timer triggers, queue advancement, combat, state sweep and regeneration,
// scheduled events, clock advance.
func (e *Engine) RunTick(ctx context.Context) {
	now := e.world.Tick()

	injected, submitted := e.drainPending()
	for _, fn := range submitted {
		e.runSubmitted(ctx, fn)
	}
	for _, in := range injected {
		if a, ok := e.world.Actor(in.ActorID); ok {
			e.dispatch(ctx, a, in.Line)
		}
	}
	if e.inputs != nil {
		for _, in := range e.inputs.DrainOne() {
			if a, ok := e.world.Actor(in.ActorID); ok {
				e.dispatch(ctx, a, in.Line)
			}
		}
	}

	if e.triggers != nil {
		e.triggers.FireTimers(now, e.world.Actor)
	}

	queued := 0
	for _, a := range e.world.Sorted() {
		e.advanceQueue(ctx, a, now)
		queued += a.QueueLen()
	}
	QueueDepth.Set(float64(queued))

	// Rounds and regen land once their full interval has elapsed, never on
	// the world's first tick.
	if e.cfg.TicksPerRound > 0 && now > 0 && now%e.cfg.TicksPerRound == 0 {
		e.aggressionSweep(now)
		e.combatRound(now)
	}

	regen := e.cfg.RegenEveryTicks > 0 && now > 0 && now%e.cfg.RegenEveryTicks == 0
	for _, a := range e.world.Sorted() {
		a.SweepExpired(now)
		if regen && !a.Flags.Has(actor.FlagDead) {
			a.Regenerate()
		}
	}

	for _, ev := range e.world.schedule.Pop(now) {
		e.runEvent(ctx, ev, now)
	}

	Actors.Set(float64(e.world.Len()))
	Fights.Set(float64(len(e.world.fights)))
	e.world.advance()
}

// advanceQueue runs the actor's queued commands for this tick: instant
// commands chain freely in the same tick, before and after the single
// non-instant command that runs if nothing blocks the actor.
func (e *Engine) advanceQueue(ctx context.Context, a *actor.Actor, now int64) {
	acted := false
	for {
		head, ok := a.PeekCommand()
		if !ok {
			return
		}
		if e.dispatcher.IsInstant(head) {
			a.PopCommand()
			e.dispatch(ctx, a, head)
			continue
		}
		if acted || a.ActBlocker(now) != actor.BlockNone {
			return
		}
		a.PopCommand()
		e.dispatch(ctx, a, head)
		acted = true
	}
}

// dispatch executes one input line with per-actor isolation: a panic or
// engine error is logged, the actor's open trigger context is destroyed,
// and the tick continues for everyone else.
func (e *Engine) dispatch(ctx context.Context, a *actor.Actor, line string) {
	defer func() {
		if r := recover(); r != nil {
			DispatchFailures.Inc()
			slog.ErrorContext(ctx, "command dispatch panicked",
				"actor_id", a.ID.String(),
				"input", line,
				"panic", r,
			)
			e.discardContext(a.ID)
		}
	}()

	if err := e.dispatcher.Execute(ctx, e.world, a, line); err != nil {
		DispatchFailures.Inc()
		slog.ErrorContext(ctx, "command dispatch failed",
			"actor_id", a.ID.String(),
			"input", line,
			"error", err,
		)
		e.discardContext(a.ID)
	}
}

// runEvent fires one scheduled event with the same isolation as dispatch.
func (e *Engine) runEvent(ctx context.Context, ev *Event, now int64) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "scheduled event panicked",
				"event", ev.Name,
				"owner_id", ev.Owner.String(),
				"panic", r,
			)
		}
	}()
	ev.Fn(now)
}

func (e *Engine) discardContext(actorID ulid.ULID) {
	if e.tracker != nil {
		e.tracker.Discard(actorID)
	}
}

// runSubmitted runs one cross-thread closure with panic isolation.
func (e *Engine) runSubmitted(ctx context.Context, fn func(*World)) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "submitted closure panicked", "panic", r)
		}
	}()
	fn(e.world)
}

func (e *Engine) drainPending() ([]Input, []func(*World)) {
	e.injectMu.Lock()
	defer e.injectMu.Unlock()
	inputs := e.injected
	e.injected = nil
	closures := e.submitted
	e.submitted = nil
	return inputs, closures
}
