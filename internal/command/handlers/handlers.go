// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package handlers provides the core verb set: speech, posture, combat,
// items, script variables, and the admin verbs. Speech and item verbs also
// raise the matching trigger events on bystanders.
package handlers

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/trigger"
)

// Deps carries the collaborators handlers close over.
type Deps struct {
	// Triggers raises catch events on bystanders. Optional.
	Triggers *trigger.Runner
}

// RegisterAll installs the core verb set into the registry.
func RegisterAll(reg *command.Registry, deps Deps) {
	h := &handlerSet{triggers: deps.Triggers}

	reg.Register(command.Entry{Name: "say", Handler: h.say, Help: "Speak to everyone in the room", Usage: "say <message>", Source: "core"})
	reg.Register(command.Entry{Name: "tell", Handler: h.tell, Help: "Speak privately to someone here", Usage: "tell <name> <message>", Source: "core"})
	reg.Register(command.Entry{Name: "emote", Handler: h.emote, Help: "Perform a freeform action", Usage: "emote <action>", Source: "core"})
	reg.Register(command.Entry{Name: "look", Handler: h.look, AllowSitting: true, Help: "Look at the room or something in it", Usage: "look [name]", Source: "core"})

	reg.Register(command.Entry{Name: "stand", Handler: h.stand, AllowSitting: true, Help: "Stand up", Source: "core"})
	reg.Register(command.Entry{Name: "sit", Handler: h.sit, AllowSitting: true, Help: "Sit down", Source: "core"})
	reg.Register(command.Entry{Name: "sleep", Handler: h.sleep, AllowSitting: true, AllowSleeping: true, Help: "Go to sleep", Source: "core"})
	reg.Register(command.Entry{Name: "wake", Handler: h.wake, AllowSleeping: true, AllowSitting: true, Help: "Wake up", Source: "core"})

	reg.Register(command.Entry{Name: "kill", Handler: h.kill, Help: "Attack someone", Usage: "kill <name>", Source: "core"})
	reg.Register(command.Entry{Name: "flee", Handler: h.flee, Help: "Break off from combat", Source: "core"})

	reg.Register(command.Entry{Name: "give", Handler: h.give, Help: "Give a carried item to someone", Usage: "give <item> <name>", Source: "core"})
	reg.Register(command.Entry{Name: "inventory", Handler: h.inventory, AllowSitting: true, Help: "List what you are carrying", Source: "core"})

	reg.Register(command.Entry{Name: "score", Handler: h.score, Instant: true, AllowDead: true, AllowSitting: true, Help: "Show your condition", Source: "core"})
	reg.Register(command.Entry{Name: "stop", Handler: h.stop, Instant: true, Help: "Discard queued commands and stop casting", Source: "core"})
	reg.Register(command.Entry{Name: "setvar", Handler: h.setvar, Instant: true, Help: "Set a script variable", Usage: "setvar <name> <value>", Source: "core"})
	reg.Register(command.Entry{Name: "delvar", Handler: h.delvar, Instant: true, Help: "Delete a script variable", Usage: "delvar <name>", Source: "core"})

	reg.Register(command.Entry{Name: "echo", Handler: h.echo, Help: "Broadcast raw text to the room", Usage: "echo <text>", Source: "core"})
	reg.Register(command.Entry{Name: "echoexcept", Handler: h.echoExcept, Help: "Broadcast to the room except one actor", Usage: "echoexcept <name> <text>", Source: "core"})
	reg.Register(command.Entry{Name: command.RelayVerb, Handler: h.relay, Help: "Run a command as another actor", Usage: "relay <name> <command>", Source: "core"})

	reg.Register(command.Entry{Name: "quit", Handler: h.quit, AllowDead: true, AllowSitting: true, AllowSleeping: true, Help: "Leave the game", Source: "core"})
}

type handlerSet struct {
	triggers *trigger.Runner
}

// fireRoom raises an event on every other occupant of the actor's room.
func (h *handlerSet) fireRoom(w command.World, act *actor.Actor, kind trigger.Kind, vars map[string]string) {
	if h.triggers == nil {
		return
	}
	room, ok := w.Actor(act.LocationID)
	if !ok {
		return
	}
	for _, id := range room.Contents {
		if id == act.ID {
			continue
		}
		if occupant, found := w.Actor(id); found {
			h.triggers.Fire(occupant, kind, act.ID, vars)
		}
	}
}

// fireOne raises an event on a single actor.
func (h *handlerSet) fireOne(target *actor.Actor, kind trigger.Kind, initiator ulid.ULID, vars map[string]string) {
	if h.triggers == nil {
		return
	}
	h.triggers.Fire(target, kind, initiator, vars)
}

// splitTarget separates a leading name from the rest of the argument string.
func splitTarget(args string) (name, rest string) {
	fields := strings.SplitN(strings.TrimSpace(args), " ", 2)
	name = fields[0]
	if len(fields) > 1 {
		rest = strings.TrimSpace(fields[1])
	}
	return name, rest
}

func fail(cmd, msg string) command.Result {
	return command.Result{Command: cmd, Succeeded: false, Message: msg}
}

func succeed(cmd string) command.Result {
	return command.Result{Command: cmd, Succeeded: true}
}

func rawCommand(exec *command.Execution) string {
	if exec.Args == "" {
		return exec.InvokedAs
	}
	return exec.InvokedAs + " " + exec.Args
}
