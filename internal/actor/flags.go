// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

// Flag is a bitmask of permanent actor properties. Transient conditions
// (stunned, sitting, sleeping) live in the state ledger instead so they can
// carry durations.
type Flag uint32

// Actor flags.
const (
	// FlagPC marks a player-controlled character.
	FlagPC Flag = 1 << iota
	// FlagDead marks an actor that may not act except for a small
	// allow-list of commands.
	FlagDead
	// FlagAggressive marks an NPC that initiates combat with visible
	// players.
	FlagAggressive
	// FlagNarrative marks an actor whose completed trigger contexts are
	// handed to the narrative collaborator.
	FlagNarrative
	// FlagStealthed marks an actor hidden from the aggression sweep.
	FlagStealthed
)

// Has reports whether all bits in f2 are set.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// Set returns the flag set with all bits in f2 set.
func (f Flag) Set(f2 Flag) Flag {
	return f | f2
}

// Clear returns the flag set with all bits in f2 cleared.
func (f Flag) Clear(f2 Flag) Flag {
	return f &^ f2
}

// SetFlags sets the given flags on the actor.
func (a *Actor) SetFlags(f Flag) {
	a.Flags = a.Flags.Set(f)
}

// ClearFlags clears the given flags on the actor.
func (a *Actor) ClearFlags(f Flag) {
	a.Flags = a.Flags.Clear(f)
}
