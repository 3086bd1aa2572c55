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

// findCarried resolves a name against the actor's carried objects.
func findCarried(w command.World, act *actor.Actor, name string) (*actor.Actor, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for _, id := range act.Contents {
		item, ok := w.Actor(id)
		if !ok || item.Kind != actor.KindObject {
			continue
		}
		if strings.HasPrefix(strings.ToLower(item.Name), needle) {
			return item, true
		}
	}
	return nil, false
}

func (h *handlerSet) give(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	itemName, targetName := splitTarget(exec.Args)
	if itemName == "" || targetName == "" {
		act.SendText(actor.ChannelDynamic, "Give what to whom?")
		return fail(rawCommand(exec), "missing item or target"), nil
	}

	item, ok := findCarried(exec.World, act, itemName)
	if !ok {
		act.SendText(actor.ChannelDynamic, "You aren't carrying that.")
		return fail(rawCommand(exec), "item not carried"), nil
	}
	target, ok := exec.World.FindInRoom(act.LocationID, targetName)
	if !ok {
		act.SendText(actor.ChannelDynamic, "They aren't here.")
		return fail(rawCommand(exec), "target not found"), nil
	}
	if target.ID == act.ID {
		act.SendText(actor.ChannelDynamic, "You already have it.")
		return fail(rawCommand(exec), "self target"), nil
	}

	for i, id := range act.Contents {
		if id == item.ID {
			act.Contents = append(act.Contents[:i], act.Contents[i+1:]...)
			break
		}
	}
	target.Contents = append(target.Contents, item.ID)
	item.LocationID = target.ID

	act.SendText(actor.ChannelDynamic, fmt.Sprintf("You give %s to %s.", item.Name, target.Name))
	target.SendText(actor.ChannelDynamic, fmt.Sprintf("%s gives you %s.", act.Name, item.Name))

	h.fireOne(target, trigger.ReceiveItem, act.ID, map[string]string{
		"item":  item.Name,
		"giver": act.Name,
	})
	return succeed(rawCommand(exec)), nil
}

func (h *handlerSet) inventory(ctx context.Context, exec *command.Execution) (command.Result, error) {
	act := exec.Actor
	var names []string
	for _, id := range act.Contents {
		if item, ok := exec.World.Actor(id); ok && item.Kind == actor.KindObject {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		act.SendText(actor.ChannelDynamic, "You aren't carrying anything.")
	} else {
		act.SendText(actor.ChannelDynamic, "You are carrying: "+strings.Join(names, ", "))
	}
	return succeed(rawCommand(exec)), nil
}
