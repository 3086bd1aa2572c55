// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mudforge/mudforge/internal/actor"
)

// Social is one parameterized gesture. Messages use %a% for the acting
// actor and %t% for the target.
type Social struct {
	Name         string `yaml:"name"`
	SelfNoTarget string `yaml:"self_no_target"`
	RoomNoTarget string `yaml:"room_no_target"`
	SelfTarget   string `yaml:"self_target"`
	VictimTarget string `yaml:"victim_target"`
	RoomTarget   string `yaml:"room_target"`
}

// SocialTable resolves gesture verbs after the static verb table misses.
type SocialTable struct {
	socials map[string]Social
}

// NewSocialTable creates an empty social table.
func NewSocialTable() *SocialTable {
	return &SocialTable{socials: make(map[string]Social)}
}

// LoadSocialFile reads a YAML list of socials into the table.
func (t *SocialTable) LoadSocialFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading social file: %w", err)
	}
	var socials []Social
	if err := yaml.Unmarshal(data, &socials); err != nil {
		return fmt.Errorf("parsing social file %s: %w", path, err)
	}
	for _, s := range socials {
		t.socials[s.Name] = s
	}
	return nil
}

// Add registers a social directly (tests, builtins).
func (t *SocialTable) Add(s Social) {
	t.socials[s.Name] = s
}

// Get looks up a social by verb.
func (t *SocialTable) Get(name string) (Social, bool) {
	s, ok := t.socials[name]
	return s, ok
}

// Execute performs the gesture: narration to the actor, the optional
// target, and the rest of the room. Socials never set recovery time.
func (t *SocialTable) Execute(_ context.Context, exec *Execution, s Social) (Result, error) {
	acting := exec.Actor
	raw := s.Name
	if exec.Args != "" {
		raw = s.Name + " " + exec.Args
	}

	if exec.Args == "" {
		vars := actor.MessageVars(acting, nil)
		acting.SendText(actor.ChannelDynamic, actor.SubstituteVars(s.SelfNoTarget, vars))
		if s.RoomNoTarget != "" {
			exec.World.EchoRoom(acting.LocationID, actor.ChannelDynamic,
				actor.SubstituteVars(s.RoomNoTarget, vars), acting.ID)
		}
		return Result{Command: raw, Succeeded: true}, nil
	}

	target, ok := exec.World.FindInRoom(acting.LocationID, exec.Args)
	if !ok {
		msg := "They aren't here."
		acting.SendText(actor.ChannelDynamic, msg)
		return Result{Command: raw, Succeeded: false, Message: msg}, nil
	}

	vars := actor.MessageVars(acting, target)
	acting.SendText(actor.ChannelDynamic, actor.SubstituteVars(s.SelfTarget, vars))
	target.SendText(actor.ChannelDynamic, actor.SubstituteVars(s.VictimTarget, vars))
	if s.RoomTarget != "" {
		exec.World.EchoRoom(acting.LocationID, actor.ChannelDynamic,
			actor.SubstituteVars(s.RoomTarget, vars), acting.ID, target.ID)
	}
	return Result{Command: raw, Succeeded: true}, nil
}
