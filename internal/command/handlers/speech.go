// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/trigger"
)

func (h *handlerSet) say(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	speech := exec.Args
	if speech == "" {
		act.SendText(actor.ChannelDynamic, "Say what?")
		return fail(rawCommand(exec), "nothing to say"), nil
	}

	act.SendText(actor.ChannelDynamic, fmt.Sprintf("You say, %q", speech))
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s says, %q", act.Name, speech), act.ID)

	h.fireRoom(exec.World, act, trigger.CatchSay, map[string]string{
		"speech":  speech,
		"speaker": act.Name,
	})
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) tell(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, speech := splitTarget(exec.Args)
	if name == "" || speech == "" {
		act.SendText(actor.ChannelDynamic, "Tell whom what?")
		return fail(rawCommand(exec), "missing target or message"), nil
	}

	target, ok := exec.World.FindInRoom(act.LocationID, name)
	if !ok {
		act.SendText(actor.ChannelDynamic, "They aren't here.")
		return fail(rawCommand(exec), "target not found"), nil
	}

	act.SendText(actor.ChannelDynamic, fmt.Sprintf("You tell %s, %q", target.Name, speech))
	target.SendText(actor.ChannelDynamic, fmt.Sprintf("%s tells you, %q", act.Name, speech))

	h.fireOne(target, trigger.CatchTell, act.ID, map[string]string{
		"speech":  speech,
		"speaker": act.Name,
	})
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) emote(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if exec.Args == "" {
		act.SendText(actor.ChannelDynamic, "Emote what?")
		return fail(rawCommand(exec), "nothing to emote"), nil
	}
	text := fmt.Sprintf("%s %s", act.Name, exec.Args)
	act.SendText(actor.ChannelDynamic, text)
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic, text, act.ID)
	return succeed(rawCommand(exec)), nil
}
