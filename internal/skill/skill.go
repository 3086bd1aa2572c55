// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package skill implements the skill catalog and the cast/resolve/cooldown
// state machine: catalog files validated against a generated schema, name
// resolution for multi-word skill names, opposed skill checks, and effect
// application through builtins or sandboxed Lua scripts.
package skill

// Messages holds the narration emitted at each phase of a skill use. All
// strings pass through %var% substitution with %a% (actor) and %t% (target)
// bound, plus $cap(...) for sentence starts.
type Messages struct {
	PrepareSelf string `yaml:"prepare_self" json:"prepare_self,omitempty"`
	PrepareRoom string `yaml:"prepare_room" json:"prepare_room,omitempty"`

	SuccessSelf   string `yaml:"success_self" json:"success_self,omitempty"`
	SuccessTarget string `yaml:"success_target" json:"success_target,omitempty"`
	SuccessRoom   string `yaml:"success_room" json:"success_room,omitempty"`

	FailureSelf   string `yaml:"failure_self" json:"failure_self,omitempty"`
	FailureTarget string `yaml:"failure_target" json:"failure_target,omitempty"`
	FailureRoom   string `yaml:"failure_room" json:"failure_room,omitempty"`

	// NotReady is shown when the skill's cooldown is still running.
	NotReady string `yaml:"not_ready" json:"not_ready,omitempty"`
}

// Definition is one skill as loaded from a catalog file.
type Definition struct {
	ID   string `yaml:"id" json:"id" jsonschema:"required"`
	Name string `yaml:"name" json:"name" jsonschema:"required"`

	// Attribute contributes its modifier to the actor's side of the
	// opposed check.
	Attribute string `yaml:"attribute" json:"attribute,omitempty"`

	TargetRequired bool `yaml:"target_required" json:"target_required,omitempty"`

	// CastTicks is the delay between initiation and resolution. Zero means
	// the skill resolves in the same tick it is invoked.
	CastTicks int64 `yaml:"cast_ticks" json:"cast_ticks,omitempty"`

	// RecoveryTicks extends the busy window past resolution.
	RecoveryTicks int64 `yaml:"recovery_ticks" json:"recovery_ticks,omitempty"`

	CooldownTicks int64 `yaml:"cooldown_ticks" json:"cooldown_ticks,omitempty"`

	// CooldownName defaults to the skill id; skills sharing a name share
	// the lock.
	CooldownName string `yaml:"cooldown_name" json:"cooldown_name,omitempty"`

	StaminaCost int `yaml:"stamina_cost" json:"stamina_cost,omitempty"`
	ManaCost    int `yaml:"mana_cost" json:"mana_cost,omitempty"`

	// Difficulty is subtracted from the actor's side of the opposed check.
	Difficulty int `yaml:"difficulty" json:"difficulty,omitempty"`

	// Effect names a builtin effect applied on success. Mutually exclusive
	// with Script.
	Effect string `yaml:"effect" json:"effect,omitempty"`

	// Script is a Lua file, relative to the catalog directory, run on
	// success instead of a builtin effect.
	Script string `yaml:"script" json:"script,omitempty"`

	EffectMagnitude     int   `yaml:"effect_magnitude" json:"effect_magnitude,omitempty"`
	EffectDurationTicks int64 `yaml:"effect_duration_ticks" json:"effect_duration_ticks,omitempty"`

	Messages Messages `yaml:"messages" json:"messages,omitempty"`
}

// CooldownKey returns the cooldown lock name for the skill.
func (d *Definition) CooldownKey() string {
	if d.CooldownName != "" {
		return d.CooldownName
	}
	return d.ID
}
