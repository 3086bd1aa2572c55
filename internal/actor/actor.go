// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package actor defines the polymorphic actor model (characters, objects,
// rooms) together with the per-actor command queue, busy gating, cooldown
// ledger, and timed state effects that the scheduler consumes.
package actor

import (
	"github.com/oklog/ulid/v2"
)

// Kind discriminates the three actor families.
type Kind int

// Actor kinds.
const (
	KindCharacter Kind = iota + 1
	KindObject
	KindRoom
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindObject:
		return "object"
	case KindRoom:
		return "room"
	default:
		return "unknown"
	}
}

// Channel selects the output lane text is delivered on.
type Channel string

// Output channels.
const (
	ChannelDynamic Channel = "dynamic"
	ChannelStatic  Channel = "static"
	ChannelClock   Channel = "clock"
)

// Output delivers game text to whatever is attached to an actor (a player
// connection, a test sink). NPCs typically have none.
type Output interface {
	SendText(channel Channel, text string) error
}

// Attribute names for skill checks.
const (
	AttrStrength     = "strength"
	AttrDexterity    = "dexterity"
	AttrIntelligence = "intelligence"
	AttrWisdom       = "wisdom"
	AttrConstitution = "constitution"
)

// Actor is a single entity in the world arena. All mutation happens on the
// engine loop thread; the struct carries no locking of its own. The command
// queue in particular is drained only by the scheduler for this actor, never
// by two ticks concurrently.
type Actor struct {
	ID         ulid.ULID
	Kind       Kind
	Name       string
	LocationID ulid.ULID // containing room; zero for rooms themselves

	// BusyUntil is the first tick at which a new command may begin.
	// Set only by executing an action with a cast/recovery cost.
	BusyUntil int64

	Flags Flag

	Stamina    int
	MaxStamina int
	Mana       int
	MaxMana    int

	// Skills maps trained skill ids to skill levels (0-100).
	Skills map[string]int

	// Attributes maps attribute names to scores (average 10).
	Attributes map[string]int

	// Vars holds temporary script variables, mutated by setvar/delvar and
	// substituted into trigger criteria and narration.
	Vars map[string]string

	// Contents lists contained actor ids: occupants for rooms, carried
	// objects for characters.
	Contents []ulid.ULID

	// FightingID is the current combat opponent, zero when idle.
	FightingID ulid.ULID

	queue     []string
	cooldowns []*Cooldown
	states    []*StateEffect

	out Output
}

// New creates an actor of the given kind with empty ledgers.
func New(id ulid.ULID, kind Kind, name string) *Actor {
	return &Actor{
		ID:         id,
		Kind:       kind,
		Name:       name,
		Skills:     make(map[string]int),
		Attributes: make(map[string]int),
		Vars:       make(map[string]string),
	}
}

// AttachOutput binds an output sink (player connection) to the actor.
// Passing nil detaches.
func (a *Actor) AttachOutput(out Output) {
	a.out = out
}

// HasOutput reports whether an output sink is attached.
func (a *Actor) HasOutput() bool {
	return a.out != nil
}

// SendText delivers text to the actor's attached output. Actors without an
// output (NPCs, rooms without observers) silently drop it.
func (a *Actor) SendText(channel Channel, text string) {
	if a.out == nil {
		return
	}
	// Delivery failures are the session layer's problem; the simulation
	// must not fail because a connection went away mid-tick.
	_ = a.out.SendText(channel, text)
}

// AttributeMod returns the skill-check modifier contributed by an attribute:
// 4 points per point above or below the average of 10.
func (a *Actor) AttributeMod(name string) int {
	score, ok := a.Attributes[name]
	if !ok {
		return 0
	}
	return (score - attributeAverage) * attributeModPerPoint
}

const (
	attributeAverage     = 10
	attributeModPerPoint = 4
)

// SkillLevel returns the trained level for a skill id, zero if untrained.
func (a *Actor) SkillLevel(skillID string) int {
	return a.Skills[skillID]
}

// Regenerate restores one point of stamina and mana up to the maximums.
// Returns true when anything changed so status updates are only emitted
// when a resource actually moved.
func (a *Actor) Regenerate() bool {
	changed := false
	if a.Stamina < a.MaxStamina {
		a.Stamina++
		changed = true
	}
	if a.Mana < a.MaxMana {
		a.Mana++
		changed = true
	}
	return changed
}

// Blocker identifies why an actor may not begin a new command right now.
// The zero value means the actor is free to act.
type Blocker int

// Blockers in precondition priority order. Dead outranks everything;
// busy is checked last.
const (
	BlockNone Blocker = iota
	BlockDead
	BlockSleeping
	BlockSitting
	BlockStunned
	BlockBusy
)

// String returns the blocker name for logging.
func (b Blocker) String() string {
	switch b {
	case BlockNone:
		return "none"
	case BlockDead:
		return "dead"
	case BlockSleeping:
		return "sleeping"
	case BlockSitting:
		return "sitting"
	case BlockStunned:
		return "stunned"
	case BlockBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// ActBlocker reports the highest-priority condition preventing the actor
// from beginning a new command at the given tick. It is idempotent and
// side-effect-free: only executing a command may set BusyUntil.
func (a *Actor) ActBlocker(now int64) Blocker {
	switch {
	case a.Flags.Has(FlagDead):
		return BlockDead
	case a.HasState(EffectSleeping):
		return BlockSleeping
	case a.HasState(EffectSitting):
		return BlockSitting
	case a.HasState(EffectStunned):
		return BlockStunned
	case a.BusyUntil > now:
		return BlockBusy
	default:
		return BlockNone
	}
}

// Busy reports whether the actor's recovery window extends past now.
func (a *Actor) Busy(now int64) bool {
	return a.BusyUntil > now
}

// SetBusyFor extends the recovery window to now + ticks. A shorter window
// never shrinks an existing one.
func (a *Actor) SetBusyFor(now, ticks int64) {
	until := now + ticks
	if until > a.BusyUntil {
		a.BusyUntil = until
	}
}
