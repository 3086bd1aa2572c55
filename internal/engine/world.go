// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package engine owns the world arena and the tick loop: input draining,
// trigger timers, queue advancement with instant chaining, combat rounds,
// state sweeps, regeneration, and scheduled events. All world mutation
// happens on the loop goroutine.
package engine

import (
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
)

// World is the arena of live actors plus the clock, the combat set, and the
// event schedule. It implements the world contract the command package
// defines. Not safe for concurrent use; only the loop goroutine touches it.
type World struct {
	actors map[ulid.ULID]*actor.Actor
	tick   int64

	// fights maps each combatant to its current opponent.
	fights map[ulid.ULID]ulid.ULID

	schedule *Schedule
}

// NewWorld creates an empty world at tick zero.
func NewWorld() *World {
	return &World{
		actors:   make(map[ulid.ULID]*actor.Actor),
		fights:   make(map[ulid.ULID]ulid.ULID),
		schedule: NewSchedule(),
	}
}

// Tick returns the current world clock tick.
func (w *World) Tick() int64 {
	return w.tick
}

// advance moves the clock forward one tick.
func (w *World) advance() {
	w.tick++
}

// Add places an actor into the arena and, if located, into its room's
// contents.
func (w *World) Add(a *actor.Actor) {
	w.actors[a.ID] = a
	if a.LocationID.Compare(ulid.ULID{}) != 0 {
		if room, ok := w.actors[a.LocationID]; ok {
			room.Contents = append(room.Contents, a.ID)
		}
	}
}

// Remove deletes an actor from the arena, its room, and the combat set.
func (w *World) Remove(id ulid.ULID) {
	a, ok := w.actors[id]
	if !ok {
		return
	}
	if room, found := w.actors[a.LocationID]; found {
		room.Contents = removeID(room.Contents, id)
	}
	w.StopFight(id)
	delete(w.actors, id)
}

// Actor resolves a reference id to a live actor.
func (w *World) Actor(id ulid.ULID) (*actor.Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// Move relocates an actor to another room, updating both rooms' contents.
func (w *World) Move(id, roomID ulid.ULID) {
	a, ok := w.actors[id]
	if !ok {
		return
	}
	if from, found := w.actors[a.LocationID]; found {
		from.Contents = removeID(from.Contents, id)
	}
	a.LocationID = roomID
	if to, found := w.actors[roomID]; found {
		to.Contents = append(to.Contents, id)
	}
}

// Sorted returns every actor ordered by id, the stable iteration order the
// scheduler uses so per-tick processing is deterministic.
func (w *World) Sorted() []*actor.Actor {
	out := make([]*actor.Actor, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out
}

// Len returns the number of live actors.
func (w *World) Len() int {
	return len(w.actors)
}

// EchoRoom delivers text to every character in a room except the excluded
// actors.
func (w *World) EchoRoom(roomID ulid.ULID, channel actor.Channel, text string, exclude ...ulid.ULID) {
	room, ok := w.actors[roomID]
	if !ok {
		return
	}
	for _, id := range room.Contents {
		if containsID(exclude, id) {
			continue
		}
		if occupant, found := w.actors[id]; found {
			occupant.SendText(channel, text)
		}
	}
}

// FindInRoom resolves a name to an occupant of the room. Matching is
// case-insensitive on name prefixes; stealthed actors are not findable.
func (w *World) FindInRoom(roomID ulid.ULID, name string) (*actor.Actor, bool) {
	room, ok := w.actors[roomID]
	if !ok {
		return nil, false
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for _, id := range room.Contents {
		occupant, found := w.actors[id]
		if !found || occupant.Flags.Has(actor.FlagStealthed) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(occupant.Name), needle) {
			return occupant, true
		}
	}
	return nil, false
}

// FindCharacter resolves an exact, case-insensitive character name anywhere
// in the arena. Used for reconnects.
func (w *World) FindCharacter(name string) (*actor.Actor, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, a := range w.actors {
		if a.Kind == actor.KindCharacter && strings.ToLower(a.Name) == needle {
			return a, true
		}
	}
	return nil, false
}

// StartFight puts two actors into the combat set. The defender fights back
// unless already engaged.
func (w *World) StartFight(attacker, defender ulid.ULID) {
	att, ok1 := w.actors[attacker]
	def, ok2 := w.actors[defender]
	if !ok1 || !ok2 {
		return
	}
	w.fights[attacker] = defender
	att.FightingID = defender
	if _, engaged := w.fights[defender]; !engaged {
		w.fights[defender] = attacker
		def.FightingID = attacker
	}
}

// StopFight removes an actor from combat. Its opponent keeps fighting until
// separately stopped or the target dies.
func (w *World) StopFight(id ulid.ULID) {
	delete(w.fights, id)
	if a, ok := w.actors[id]; ok {
		a.FightingID = ulid.ULID{}
	}
}

// Fighting reports whether the actor is in the combat set.
func (w *World) Fighting(id ulid.ULID) bool {
	_, ok := w.fights[id]
	return ok
}

// Fighters returns the combatants ordered by id.
func (w *World) Fighters() []*actor.Actor {
	out := make([]*actor.Actor, 0, len(w.fights))
	for id := range w.fights {
		if a, ok := w.actors[id]; ok {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out
}

// Schedule registers a one-shot event for a future tick.
func (w *World) Schedule(tick int64, name string, owner ulid.ULID, fn func(now int64)) {
	w.schedule.Add(tick, name, owner, fn)
}

func removeID(ids []ulid.ULID, id ulid.ULID) []ulid.ULID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func containsID(ids []ulid.ULID, id ulid.ULID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
