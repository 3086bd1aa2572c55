// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

func (h *handlerSet) kill(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, _ := splitTarget(exec.Args)
	if name == "" {
		act.SendText(actor.ChannelDynamic, "Kill whom?")
		return fail(rawCommand(exec), "missing target"), nil
	}

	target, ok := exec.World.FindInRoom(act.LocationID, name)
	if !ok {
		act.SendText(actor.ChannelDynamic, "They aren't here.")
		return fail(rawCommand(exec), "target not found"), nil
	}
	if target.ID == act.ID {
		act.SendText(actor.ChannelDynamic, "Attacking yourself seems unwise.")
		return fail(rawCommand(exec), "self target"), nil
	}
	if target.Flags.Has(actor.FlagDead) {
		act.SendText(actor.ChannelDynamic, "They are already dead.")
		return fail(rawCommand(exec), "target dead"), nil
	}

	act.SendText(actor.ChannelDynamic, fmt.Sprintf("You attack %s!", target.Name))
	target.SendText(actor.ChannelDynamic, fmt.Sprintf("%s attacks you!", act.Name))
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s attacks %s!", act.Name, target.Name), act.ID, target.ID)
	exec.World.StartFight(act.ID, target.ID)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) flee(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if act.FightingID.Compare(ulid.ULID{}) == 0 {
		act.SendText(actor.ChannelDynamic, "You aren't fighting anyone.")
		return fail(rawCommand(exec), "not fighting"), nil
	}
	exec.World.StopFight(act.ID)
	act.SendText(actor.ChannelDynamic, "You break off from the fight!")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s breaks off from the fight!", act.Name), act.ID)
	return succeed(rawCommand(exec)), nil
}
