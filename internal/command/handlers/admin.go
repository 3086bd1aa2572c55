// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package handlers

import (
	"context"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

func (h *handlerSet) echo(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if exec.Args == "" {
		act.SendText(actor.ChannelDynamic, "Echo what?")
		return fail(rawCommand(exec), "nothing to echo"), nil
	}
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic, exec.Args)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) echoExcept(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, text := splitTarget(exec.Args)
	if name == "" || text == "" {
		act.SendText(actor.ChannelDynamic, "Echo to everyone except whom?")
		return fail(rawCommand(exec), "missing target or text"), nil
	}
	target, ok := exec.World.FindInRoom(act.LocationID, name)
	if !ok {
		act.SendText(actor.ChannelDynamic, "They aren't here.")
		return fail(rawCommand(exec), "target not found"), nil
	}
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic, text, target.ID)
	return succeed(rawCommand(exec)), nil
}

// relay runs one command as another actor in the same room. The argument
// string is never split on semicolons, so the relayed command arrives whole.
func (h *handlerSet) relay(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	name, rest := splitTarget(exec.Args)
	if name == "" || rest == "" {
		act.SendText(actor.ChannelDynamic, "Relay what to whom?")
		return fail(rawCommand(exec), "missing target or command"), nil
	}
	target, ok := exec.World.FindInRoom(act.LocationID, name)
	if !ok {
		act.SendText(actor.ChannelDynamic, "They aren't here.")
		return fail(rawCommand(exec), "target not found"), nil
	}
	if err := exec.Dispatcher.Execute(ctx, exec.World, target, rest); err != nil {
		return command.Result{}, err
	}
	return succeed(rawCommand(exec)), nil
}
