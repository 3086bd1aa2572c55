// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/trigger"
)

func (h *handlerSet) look(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	w := exec.World

	name, _ := splitTarget(exec.Args)
	if name != "" {
		target, ok := w.FindInRoom(act.LocationID, name)
		if !ok {
			act.SendText(actor.ChannelDynamic, "You don't see that here.")
			return fail(rawCommand(exec), "target not found"), nil
		}
		desc := target.Vars["description"]
		if desc == "" {
			desc = fmt.Sprintf("%s is here.", target.Name)
		}
		act.SendText(actor.ChannelDynamic, desc)
		h.fireOne(target, trigger.CatchLook, act.ID, map[string]string{
			"looker": act.Name,
		})
		return succeed(rawCommand(exec)), nil
	}

	room, ok := w.Actor(act.LocationID)
	if !ok {
		act.SendText(actor.ChannelDynamic, "You are nowhere.")
		return fail(rawCommand(exec), "no room"), nil
	}
	act.SendText(actor.ChannelStatic, room.Name)
	if desc := room.Vars["description"]; desc != "" {
		act.SendText(actor.ChannelStatic, desc)
	}
	var others []string
	for _, id := range room.Contents {
		occupant, found := w.Actor(id)
		if !found || occupant.ID == act.ID || occupant.Flags.Has(actor.FlagStealthed) {
			continue
		}
		others = append(others, occupant.Name)
	}
	if len(others) > 0 {
		act.SendText(actor.ChannelStatic, "Here: "+strings.Join(others, ", "))
	}
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) score(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	now := exec.World.Tick()
	act.SendText(actor.ChannelStatic,
		fmt.Sprintf("Stamina %d/%d  Mana %d/%d", act.Stamina, act.MaxStamina, act.Mana, act.MaxMana))
	for _, cd := range act.Cooldowns() {
		if cd.Active(now) {
			act.SendText(actor.ChannelStatic,
				fmt.Sprintf("%s ready in %d ticks", cd.Name, cd.TicksRemaining(now)))
		}
	}
	for _, eff := range act.States() {
		act.SendText(actor.ChannelStatic, fmt.Sprintf("Affected by: %s", eff.Kind))
	}
	return succeed(rawCommand(exec)), nil
}

// stop discards the actor's queued commands and interrupts any cast in
// progress. Instant, so it works while busy.
func (h *handlerSet) stop(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	discarded := act.ClearQueue()
	interrupted := act.RemoveState(actor.EffectCasting)

	switch {
	case interrupted && discarded > 0:
		act.SendText(actor.ChannelDynamic,
			fmt.Sprintf("You stop casting and discard %d queued commands.", discarded))
	case interrupted:
		act.SendText(actor.ChannelDynamic, "You stop casting.")
	case discarded > 0:
		act.SendText(actor.ChannelDynamic,
			fmt.Sprintf("You stop. %d queued commands discarded.", discarded))
	default:
		act.SendText(actor.ChannelDynamic, "You have nothing to stop.")
	}
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) setvar(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, value := splitTarget(exec.Args)
	if name == "" || value == "" {
		act.SendText(actor.ChannelDynamic, "Set which variable to what?")
		return fail(rawCommand(exec), "missing name or value"), nil
	}
	act.SetVar(name, value)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) delvar(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, _ := splitTarget(exec.Args)
	if name == "" {
		act.SendText(actor.ChannelDynamic, "Delete which variable?")
		return fail(rawCommand(exec), "missing name"), nil
	}
	if !act.DeleteVar(name) {
		act.SendText(actor.ChannelDynamic, "No such variable.")
		return fail(rawCommand(exec), "unknown variable"), nil
	}
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) quit(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	act.SendText(actor.ChannelDynamic, "Goodbye.")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s has left the game.", act.Name), act.ID)
	exec.World.Remove(act.ID)
	return succeed(rawCommand(exec)), nil
}
