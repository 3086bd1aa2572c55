// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package content loads world definition files: rooms, their objects, and
// NPCs with inline trigger scripts.
package content

import (
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/engine"
	"github.com/mudforge/mudforge/internal/trigger"
)

// FormatConstraint is the range of world file format versions this build
// reads.
const FormatConstraint = "^1.0.0"

// WorldFile is the YAML shape of a world definition.
type WorldFile struct {
	FormatVersion string    `yaml:"format_version"`
	Rooms         []RoomDef `yaml:"rooms"`
}

// RoomDef is one room and everything initially inside it.
type RoomDef struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Objects     []ObjectDef `yaml:"objects"`
	NPCs        []NPCDef    `yaml:"npcs"`
}

// ObjectDef is a carriable object.
type ObjectDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NPCDef is a non-player character, optionally with trigger scripts.
type NPCDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Aggressive bool `yaml:"aggressive"`
	// Narrative marks the NPC for narrative hand-off of completed trigger
	// contexts.
	Narrative bool `yaml:"narrative"`

	Stamina int `yaml:"stamina"`
	Mana    int `yaml:"mana"`

	Attributes map[string]int    `yaml:"attributes"`
	Skills     map[string]int    `yaml:"skills"`
	Vars       map[string]string `yaml:"vars"`

	Triggers []trigger.Definition `yaml:"triggers"`
}

// Load reads and version-checks a world file.
func Load(path string) (*WorldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "reading world file")
	}
	var wf WorldFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "parsing world file")
	}

	v, err := semver.NewVersion(wf.FormatVersion)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "parsing world format version")
	}
	constraint, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	if !constraint.Check(v) {
		return nil, oops.
			With("path", path).
			With("version", wf.FormatVersion).
			With("supported", FormatConstraint).
			Errorf("unsupported world format version %s", wf.FormatVersion)
	}
	return &wf, nil
}

// Build populates the world arena from a definition, registering NPC
// triggers with the runner. Returns the ids of the created rooms in file
// order.
func Build(wf *WorldFile, w *engine.World, triggers *trigger.Runner) ([]ulid.ULID, error) {
	roomIDs := make([]ulid.ULID, 0, len(wf.Rooms))
	for _, roomDef := range wf.Rooms {
		room := actor.New(ulid.Make(), actor.KindRoom, roomDef.Name)
		if roomDef.Description != "" {
			room.SetVar("description", roomDef.Description)
		}
		w.Add(room)
		roomIDs = append(roomIDs, room.ID)

		for _, objDef := range roomDef.Objects {
			obj := actor.New(ulid.Make(), actor.KindObject, objDef.Name)
			obj.LocationID = room.ID
			if objDef.Description != "" {
				obj.SetVar("description", objDef.Description)
			}
			w.Add(obj)
		}

		for _, npcDef := range roomDef.NPCs {
			npc, err := buildNPC(npcDef, room.ID, triggers)
			if err != nil {
				return nil, err
			}
			w.Add(npc)
		}
	}
	return roomIDs, nil
}

func buildNPC(def NPCDef, roomID ulid.ULID, triggers *trigger.Runner) (*actor.Actor, error) {
	npc := actor.New(ulid.Make(), actor.KindCharacter, def.Name)
	npc.LocationID = roomID
	npc.Stamina = def.Stamina
	npc.MaxStamina = def.Stamina
	npc.Mana = def.Mana
	npc.MaxMana = def.Mana
	if def.Description != "" {
		npc.SetVar("description", def.Description)
	}
	for k, v := range def.Attributes {
		npc.Attributes[k] = v
	}
	for k, v := range def.Skills {
		npc.Skills[k] = v
	}
	for k, v := range def.Vars {
		npc.SetVar(k, v)
	}
	if def.Aggressive {
		npc.SetFlags(actor.FlagAggressive)
	}
	if def.Narrative {
		npc.SetFlags(actor.FlagNarrative)
	}

	if triggers != nil {
		for _, td := range def.Triggers {
			if _, err := triggers.Register(npc.ID, td); err != nil {
				return nil, oops.
					With("npc", def.Name).
					With("trigger", td.Name).
					Wrapf(err, "registering npc trigger")
			}
		}
	}
	return npc, nil
}
