// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"github.com/oklog/ulid/v2"
)

// Cooldown is a named, timed lock preventing reuse of a specific skill by
// this actor. Lookups are by name; restarting a cooldown under the same name
// replaces the old entry (last-one-wins).
type Cooldown struct {
	Name      string    `json:"name"`
	SourceID  ulid.ULID `json:"source_id"`
	StartTick int64     `json:"start_tick"`
	EndTick   int64     `json:"end_tick"`

	// OnExpire runs exactly once when the sweep retires the cooldown.
	// Not carried across snapshots; the owning system re-registers it.
	OnExpire func(*Cooldown) `json:"-"`

	expired bool
}

// Active reports whether the cooldown is still running at the given tick.
func (c *Cooldown) Active(now int64) bool {
	return now < c.EndTick
}

// TicksRemaining returns how many ticks remain, clamped to zero.
func (c *Cooldown) TicksRemaining(now int64) int64 {
	if rem := c.EndTick - now; rem > 0 {
		return rem
	}
	return 0
}

// StartCooldown registers a cooldown under the given name, replacing any
// existing cooldown with that name.
func (a *Actor) StartCooldown(name string, source ulid.ULID, now, durationTicks int64) *Cooldown {
	cd := &Cooldown{
		Name:      name,
		SourceID:  source,
		StartTick: now,
		EndTick:   now + durationTicks,
	}
	for i, existing := range a.cooldowns {
		if existing.Name == name {
			a.cooldowns[i] = cd
			return cd
		}
	}
	a.cooldowns = append(a.cooldowns, cd)
	return cd
}

// Cooldown returns the cooldown registered under name, or nil.
func (a *Actor) Cooldown(name string) *Cooldown {
	for _, cd := range a.cooldowns {
		if cd.Name == name {
			return cd
		}
	}
	return nil
}

// CooldownActive reports whether a cooldown with the given name is still
// running at the given tick.
func (a *Actor) CooldownActive(name string, now int64) bool {
	cd := a.Cooldown(name)
	return cd != nil && cd.Active(now)
}

// Cooldowns returns the live cooldown entries. The slice is shared; callers
// on the loop thread may inspect but should mutate through actor methods.
func (a *Actor) Cooldowns() []*Cooldown {
	return a.cooldowns
}
