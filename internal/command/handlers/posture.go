// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

func (h *handlerSet) stand(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if !act.RemoveState(actor.EffectSitting) {
		act.SendText(actor.ChannelDynamic, "You are already standing.")
		return fail(rawCommand(exec), "not sitting"), nil
	}
	act.SendText(actor.ChannelDynamic, "You stand up.")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s stands up.", act.Name), act.ID)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) sit(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if act.HasState(actor.EffectSitting) {
		act.SendText(actor.ChannelDynamic, "You are already sitting.")
		return fail(rawCommand(exec), "already sitting"), nil
	}
	act.ApplyState(&actor.StateEffect{
		Kind:        actor.EffectSitting,
		SourceID:    act.ID,
		CreatedTick: exec.World.Tick(),
	})
	act.SendText(actor.ChannelDynamic, "You sit down.")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s sits down.", act.Name), act.ID)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) sleep(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if act.HasState(actor.EffectSleeping) {
		act.SendText(actor.ChannelDynamic, "You are already asleep.")
		return fail(rawCommand(exec), "already sleeping"), nil
	}
	act.ApplyState(&actor.StateEffect{
		Kind:        actor.EffectSleeping,
		SourceID:    act.ID,
		CreatedTick: exec.World.Tick(),
	})
	act.SendText(actor.ChannelDynamic, "You lie down and fall asleep.")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s lies down and falls asleep.", act.Name), act.ID)
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) wake(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	if !act.RemoveState(actor.EffectSleeping) {
		act.SendText(actor.ChannelDynamic, "You are already awake.")
		return fail(rawCommand(exec), "not sleeping"), nil
	}
	act.SendText(actor.ChannelDynamic, "You wake up.")
	exec.World.EchoRoom(act.LocationID, actor.ChannelDynamic,
		fmt.Sprintf("%s wakes up.", act.Name), act.ID)
	return succeed(rawCommand(exec)), nil
}
