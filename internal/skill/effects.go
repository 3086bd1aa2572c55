// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

// Invocation carries everything an effect needs when a skill resolves
// successfully. Target equals Caster for untargeted skills.
type Invocation struct {
	World  command.World
	Caster *actor.Actor
	Target *actor.Actor
	Def    *Definition
	Now    int64
}

// Effect applies a skill's outcome to the world on success.
type Effect func(inv *Invocation) error

// EffectRegistry maps builtin effect names to implementations.
type EffectRegistry struct {
	m map[string]Effect
}

// NewEffectRegistry creates a registry pre-populated with the builtin
// effects.
func NewEffectRegistry() *EffectRegistry {
	r := &EffectRegistry{m: make(map[string]Effect)}
	r.Register("stun", applyTimedState(actor.EffectStunned))
	r.Register("hit-bonus", applyTimedState(actor.EffectHitBonus))
	r.Register("hit-penalty", applyTimedState(actor.EffectHitPenalty))
	r.Register("bleed", applyTimedState(actor.EffectBleeding))
	r.Register("shield", applyTimedState(actor.EffectShielded))
	r.Register("dodge-bonus", applyTimedState(actor.EffectDodgeBonus))
	r.Register("drain", drainEffect)
	r.Register("restore", restoreEffect)
	return r
}

// Register adds or replaces a named effect.
func (r *EffectRegistry) Register(name string, eff Effect) {
	r.m[name] = eff
}

// Get returns the effect registered under name.
func (r *EffectRegistry) Get(name string) (Effect, bool) {
	eff, ok := r.m[name]
	return eff, ok
}

// applyTimedState builds an effect that puts a timed state of the given kind
// on the target, with magnitude and duration from the definition.
func applyTimedState(kind actor.EffectKind) Effect {
	return func(inv *Invocation) error {
		inv.Target.ApplyState(&actor.StateEffect{
			Kind:          kind,
			SourceID:      inv.Caster.ID,
			CreatedTick:   inv.Now,
			DurationTicks: inv.Def.EffectDurationTicks,
			Magnitude:     inv.Def.EffectMagnitude,
		})
		return nil
	}
}

// drainEffect removes stamina from the target, clamped at zero.
func drainEffect(inv *Invocation) error {
	inv.Target.Stamina -= inv.Def.EffectMagnitude
	if inv.Target.Stamina < 0 {
		inv.Target.Stamina = 0
	}
	return nil
}

// restoreEffect returns stamina and mana to the target, clamped at the
// maximums.
func restoreEffect(inv *Invocation) error {
	inv.Target.Stamina += inv.Def.EffectMagnitude
	if inv.Target.Stamina > inv.Target.MaxStamina {
		inv.Target.Stamina = inv.Target.MaxStamina
	}
	inv.Target.Mana += inv.Def.EffectMagnitude
	if inv.Target.Mana > inv.Target.MaxMana {
		inv.Target.Mana = inv.Target.MaxMana
	}
	return nil
}
