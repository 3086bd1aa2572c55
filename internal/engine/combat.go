// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package engine

import (
	"fmt"

	"github.com/mudforge/mudforge/internal/actor"
)

// baseHitChance is the percentage chance to land a blow before modifiers.
const baseHitChance = 50

// baseDamage is the unmodified damage of a landed blow.
const baseDamage = 5

// aggressionSweep makes idle aggressive NPCs attack the first visible player
// character in their room.
func (e *Engine) aggressionSweep(now int64) {
	for _, a := range e.world.Sorted() {
		if !a.Flags.Has(actor.FlagAggressive) || a.Flags.Has(actor.FlagDead) {
			continue
		}
		if e.world.Fighting(a.ID) {
			continue
		}
		if blocker := a.ActBlocker(now); blocker != actor.BlockNone && blocker != actor.BlockBusy {
			continue
		}
		room, ok := e.world.Actor(a.LocationID)
		if !ok {
			continue
		}
		for _, id := range room.Contents {
			victim, found := e.world.Actor(id)
			if !found || !victim.Flags.Has(actor.FlagPC) {
				continue
			}
			if victim.Flags.Has(actor.FlagDead) || victim.Flags.Has(actor.FlagStealthed) {
				continue
			}
			e.world.EchoRoom(a.LocationID, actor.ChannelDynamic,
				fmt.Sprintf("%s attacks %s!", a.Name, victim.Name))
			e.world.StartFight(a.ID, victim.ID)
			break
		}
	}
}

// combatRound runs one full round: bleed damage, then one swing per
// combatant against its opponent. Combatants whose opponent is gone, dead,
// or elsewhere drop out of the set.
func (e *Engine) combatRound(now int64) {
	for _, att := range e.world.Fighters() {
		if att.Flags.Has(actor.FlagDead) {
			e.world.StopFight(att.ID)
			continue
		}

		if bleed := att.StateMagnitude(actor.EffectBleeding); bleed > 0 {
			att.SendText(actor.ChannelDynamic, "You are bleeding!")
			e.damage(att, bleed)
			if att.Flags.Has(actor.FlagDead) {
				continue
			}
		}

		def, ok := e.world.Actor(att.FightingID)
		if !ok || def.Flags.Has(actor.FlagDead) || def.LocationID != att.LocationID {
			e.world.StopFight(att.ID)
			continue
		}

		// Stunned, sleeping, and sitting combatants lose their swing.
		// Busy does not: attacks are automatic, not commands.
		switch att.ActBlocker(now) {
		case actor.BlockSleeping, actor.BlockSitting, actor.BlockStunned:
			continue
		}

		e.swing(att, def)
	}
}

// swing resolves one attack. Hit chance starts at the base and moves with
// the attacker's hit bonus/penalty states and dexterity against the
// defender's dodge bonus; shields absorb damage point for point.
func (e *Engine) swing(att, def *actor.Actor) {
	chance := baseHitChance +
		att.StateMagnitude(actor.EffectHitBonus) -
		att.StateMagnitude(actor.EffectHitPenalty) +
		att.AttributeMod(actor.AttrDexterity) -
		def.StateMagnitude(actor.EffectDodgeBonus)
	if chance < 5 {
		chance = 5
	} else if chance > 95 {
		chance = 95
	}

	if e.roll(100) >= chance {
		att.SendText(actor.ChannelDynamic, fmt.Sprintf("You miss %s.", def.Name))
		def.SendText(actor.ChannelDynamic, fmt.Sprintf("%s misses you.", att.Name))
		return
	}

	dmg := baseDamage + att.AttributeMod(actor.AttrStrength)
	if dmg < 1 {
		dmg = 1
	}
	if shield := def.StateMagnitude(actor.EffectShielded); shield > 0 {
		dmg -= shield
		if dmg < 0 {
			dmg = 0
		}
	}

	att.SendText(actor.ChannelDynamic, fmt.Sprintf("You hit %s!", def.Name))
	def.SendText(actor.ChannelDynamic, fmt.Sprintf("%s hits you!", att.Name))
	e.damage(def, dmg)
}

// damage applies stamina loss and handles death at zero.
func (e *Engine) damage(a *actor.Actor, amount int) {
	a.Stamina -= amount
	if a.Stamina > 0 {
		return
	}
	a.Stamina = 0
	e.kill(a)
}

// kill marks an actor dead, clears its pending work, and announces it.
func (e *Engine) kill(a *actor.Actor) {
	a.SetFlags(actor.FlagDead)
	a.ClearQueue()
	e.world.StopFight(a.ID)
	e.world.schedule.DropOwner(a.ID)
	a.SendText(actor.ChannelDynamic, "You are DEAD!")
	e.world.EchoRoom(a.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s is DEAD!", a.Name), a.ID)
	Deaths.Inc()
}
