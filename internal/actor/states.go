// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"github.com/oklog/ulid/v2"
)

// EffectKind names a timed or persistent modifier applied to an actor.
type EffectKind string

// Effect kinds. Gating effects (sitting, stunned, sleeping) forbid new
// commands; the rest adjust combat math or tick damage.
const (
	EffectSitting    EffectKind = "sitting"
	EffectSleeping   EffectKind = "sleeping"
	EffectStunned    EffectKind = "stunned"
	EffectCasting    EffectKind = "casting"
	EffectHitBonus   EffectKind = "hit-bonus"
	EffectHitPenalty EffectKind = "hit-penalty"
	EffectBleeding   EffectKind = "bleeding"
	EffectShielded   EffectKind = "shielded"
	EffectDodgeBonus EffectKind = "dodge-bonus"
)

// StateEffect is one entry in the actor's timed-state ledger. A zero
// DurationTicks means the effect lasts until explicitly removed.
type StateEffect struct {
	Kind          EffectKind `json:"kind"`
	SourceID      ulid.ULID  `json:"source_id"`
	CreatedTick   int64      `json:"created_tick"`
	DurationTicks int64      `json:"duration_ticks"`

	// Magnitude carries the effect-specific amount: hit bonus points,
	// bleed damage per round, shield absorption.
	Magnitude int `json:"magnitude,omitempty"`

	removed bool
}

// Expired reports whether a duration-bound effect's time is up.
func (s *StateEffect) Expired(now int64) bool {
	return s.DurationTicks > 0 && now >= s.CreatedTick+s.DurationTicks
}

// ApplyState adds an effect to the ledger. Applying a gating kind that is
// already present refreshes it in place (one sitting state, not two).
func (a *Actor) ApplyState(eff *StateEffect) *StateEffect {
	switch eff.Kind {
	case EffectSitting, EffectSleeping, EffectStunned, EffectCasting:
		for i, existing := range a.states {
			if existing.Kind == eff.Kind {
				a.states[i] = eff
				return eff
			}
		}
	}
	a.states = append(a.states, eff)
	return eff
}

// RemoveState removes the first effect of the given kind. Returns false if
// no such effect was present. Each effect is removed at most once.
func (a *Actor) RemoveState(kind EffectKind) bool {
	for i, eff := range a.states {
		if eff.Kind == kind && !eff.removed {
			eff.removed = true
			a.states = append(a.states[:i], a.states[i+1:]...)
			return true
		}
	}
	return false
}

// HasState reports whether an effect of the given kind is active.
func (a *Actor) HasState(kind EffectKind) bool {
	for _, eff := range a.states {
		if eff.Kind == kind {
			return true
		}
	}
	return false
}

// StateMagnitude sums the magnitudes of all active effects of a kind.
func (a *Actor) StateMagnitude(kind EffectKind) int {
	total := 0
	for _, eff := range a.states {
		if eff.Kind == kind {
			total += eff.Magnitude
		}
	}
	return total
}

// States returns the live state ledger.
func (a *Actor) States() []*StateEffect {
	return a.states
}

// SweepExpired retires duration-bound effects whose time is up and cooldowns
// past their end tick. Each is removed exactly once; expired cooldown
// callbacks run exactly once, after the ledger no longer contains them.
func (a *Actor) SweepExpired(now int64) (removed []*StateEffect, finished []*Cooldown) {
	kept := a.states[:0]
	for _, eff := range a.states {
		if eff.Expired(now) {
			eff.removed = true
			removed = append(removed, eff)
			continue
		}
		kept = append(kept, eff)
	}
	a.states = kept

	keptCD := a.cooldowns[:0]
	for _, cd := range a.cooldowns {
		if !cd.Active(now) {
			cd.expired = true
			finished = append(finished, cd)
			continue
		}
		keptCD = append(keptCD, cd)
	}
	a.cooldowns = keptCD

	for _, cd := range finished {
		if cd.OnExpire != nil {
			cd.OnExpire(cd)
		}
	}
	return removed, finished
}
