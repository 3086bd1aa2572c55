// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"encoding/json"
)

// Snapshot captures the timed portion of an actor's state: everything that
// determines busy/ready at a future tick. Reapplying a snapshot taken at
// tick T and resuming the loop at T reproduces identical gating at T+1.
type Snapshot struct {
	BusyUntil int64         `json:"busy_until"`
	Cooldowns []Cooldown    `json:"cooldowns,omitempty"`
	States    []StateEffect `json:"states,omitempty"`
	Stamina   int           `json:"stamina"`
	Mana      int           `json:"mana"`
}

// Snapshot serializes the actor's cooldown/effect set. Cooldown completion
// callbacks are not carried; the owning system re-registers them on restore.
func (a *Actor) Snapshot() ([]byte, error) {
	snap := Snapshot{
		BusyUntil: a.BusyUntil,
		Stamina:   a.Stamina,
		Mana:      a.Mana,
	}
	for _, cd := range a.cooldowns {
		snap.Cooldowns = append(snap.Cooldowns, *cd)
	}
	for _, eff := range a.states {
		snap.States = append(snap.States, *eff)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, ErrSnapshotEncode(a.ID.String(), err)
	}
	return data, nil
}

// RestoreSnapshot replaces the actor's timed state with the snapshot's.
func (a *Actor) RestoreSnapshot(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ErrSnapshotDecode(a.ID.String(), err)
	}
	a.BusyUntil = snap.BusyUntil
	a.Stamina = snap.Stamina
	a.Mana = snap.Mana
	a.cooldowns = nil
	for i := range snap.Cooldowns {
		cd := snap.Cooldowns[i]
		a.cooldowns = append(a.cooldowns, &cd)
	}
	a.states = nil
	for i := range snap.States {
		eff := snap.States[i]
		a.states = append(a.states, &eff)
	}
	return nil
}
