// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

// Manager runs the skill state machine: cooldown gate, resource spend,
// cast delay, opposed resolution, effect application, cooldown start. It
// implements the dispatcher's skill resolver contract and runs on the
// engine loop thread.
type Manager struct {
	catalog *Catalog
	effects *EffectRegistry
	scripts *ScriptRunner

	// roll returns a uniform int in [0, n). Replaceable for tests.
	roll func(n int) int
}

// ManagerOption configures a Manager during construction.
type ManagerOption func(*Manager)

// WithEffects overrides the builtin effect registry.
func WithEffects(reg *EffectRegistry) ManagerOption {
	return func(m *Manager) {
		m.effects = reg
	}
}

// WithRoll overrides the random source for skill checks.
func WithRoll(fn func(n int) int) ManagerOption {
	return func(m *Manager) {
		m.roll = fn
	}
}

// NewManager creates a manager over a loaded catalog.
func NewManager(catalog *Catalog, opts ...ManagerOption) (*Manager, error) {
	if catalog == nil {
		return nil, ErrBadCatalog("", fmt.Errorf("catalog cannot be nil"))
	}
	m := &Manager{
		catalog: catalog,
		effects: NewEffectRegistry(),
		scripts: NewScriptRunner(catalog.Dir()),
		roll:    rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ValidateEffects checks that every catalog entry naming a builtin effect
// resolves against the registry. Run at startup so a typo fails fast instead
// of at first use.
func (m *Manager) ValidateEffects() error {
	for _, def := range m.catalog.All() {
		if def.Effect == "" {
			continue
		}
		if _, ok := m.effects.Get(def.Effect); !ok {
			return ErrUnknownEffect(def.ID, def.Effect)
		}
	}
	return nil
}

// ResolveSkillName matches input against catalog skill names.
func (m *Manager) ResolveSkillName(input string) (skillID, remainder string, ok bool) {
	return m.catalog.ResolveName(input)
}

// InvokeSkill begins a skill use for the acting actor. Cooldown and resource
// failures produce failed results with no state change; a successful
// initiation spends resources, sets the busy window, and either resolves
// immediately (zero cast time) or schedules resolution.
func (m *Manager) InvokeSkill(ctx context.Context, exec *command.Execution, skillID, remainder string) (command.Result, error) {
	def, ok := m.catalog.Get(skillID)
	if !ok {
		return command.Result{}, ErrUnknownSkill(skillID)
	}

	act := exec.Actor
	w := exec.World
	now := w.Tick()
	cmdText := strings.TrimSpace(def.Name + " " + remainder)

	if act.CooldownActive(def.CooldownKey(), now) {
		msg := def.Messages.NotReady
		if msg == "" {
			msg = fmt.Sprintf("You can't use %s again yet.", def.Name)
		}
		act.SendText(actor.ChannelDynamic, actor.SubstituteVars(msg, actor.MessageVars(act, nil)))
		RecordCast(def.ID, OutcomeCooldown)
		return command.Result{Command: cmdText, Succeeded: false, Message: "on cooldown"}, nil
	}

	target := act
	if def.TargetRequired {
		name := strings.TrimSpace(remainder)
		if name == "" {
			act.SendText(actor.ChannelDynamic, fmt.Sprintf("Use %s on whom?", def.Name))
			return command.Result{Command: cmdText, Succeeded: false, Message: "no target"}, nil
		}
		found, ok := w.FindInRoom(act.LocationID, name)
		if !ok {
			act.SendText(actor.ChannelDynamic, "They aren't here.")
			return command.Result{Command: cmdText, Succeeded: false, Message: "target not found"}, nil
		}
		target = found
	}

	if act.Stamina < def.StaminaCost {
		act.SendText(actor.ChannelDynamic, "You are too exhausted.")
		return command.Result{Command: cmdText, Succeeded: false, Message: "no stamina"}, nil
	}
	if act.Mana < def.ManaCost {
		act.SendText(actor.ChannelDynamic, "You don't have the energy.")
		return command.Result{Command: cmdText, Succeeded: false, Message: "no mana"}, nil
	}
	act.Stamina -= def.StaminaCost
	act.Mana -= def.ManaCost

	vars := actor.MessageVars(act, target)
	if def.Messages.PrepareSelf != "" {
		act.SendText(actor.ChannelDynamic, actor.SubstituteVars(def.Messages.PrepareSelf, vars))
	}
	if def.Messages.PrepareRoom != "" {
		w.EchoRoom(act.LocationID, actor.ChannelDynamic,
			actor.SubstituteVars(def.Messages.PrepareRoom, vars), act.ID)
	}

	act.SetBusyFor(now, def.CastTicks+def.RecoveryTicks)

	if def.CastTicks <= 0 {
		m.resolve(ctx, w, act, target, def, now)
		return command.Result{Command: cmdText, Succeeded: true}, nil
	}

	// The casting state outlives the cast window by one tick: the loop
	// sweeps expiry before it pops scheduled events, and the resolution
	// event on the final tick must still find the state in place.
	act.ApplyState(&actor.StateEffect{
		Kind:          actor.EffectCasting,
		SourceID:      act.ID,
		CreatedTick:   now,
		DurationTicks: def.CastTicks + 1,
	})
	casterID := act.ID
	targetID := target.ID
	w.Schedule(now+def.CastTicks, "skill:"+def.ID, casterID, func(fireTick int64) {
		m.finishCast(ctx, w, casterID, targetID, def, fireTick)
	})
	return command.Result{Command: cmdText, Succeeded: true, Message: "casting"}, nil
}

// finishCast resolves a delayed cast. The cast fizzles silently if the
// caster is gone, dead, or had the casting state stripped (interrupted);
// a target that left or died still costs the cooldown.
func (m *Manager) finishCast(ctx context.Context, w command.World, casterID, targetID ulid.ULID, def *Definition, now int64) {
	caster, ok := w.Actor(casterID)
	if !ok || caster.Flags.Has(actor.FlagDead) {
		return
	}
	// RemoveState doubles as the interruption check: a stop command strips
	// the casting state, and the sweep cannot beat this event to it because
	// the state's duration extends one tick past the cast window.
	if !caster.RemoveState(actor.EffectCasting) {
		return
	}

	target, ok := w.Actor(targetID)
	if !ok || target.LocationID != caster.LocationID && target.ID != caster.ID {
		caster.SendText(actor.ChannelDynamic, "Your target is gone.")
		m.startCooldown(caster, def, now)
		RecordCast(def.ID, OutcomeFizzled)
		return
	}
	m.resolve(ctx, w, caster, target, def, now)
}

// resolve runs the opposed check, narrates the outcome, applies the effect
// on success, and starts the cooldown either way.
func (m *Manager) resolve(ctx context.Context, w command.World, caster, target *actor.Actor, def *Definition, now int64) {
	score := caster.SkillLevel(def.ID) + caster.AttributeMod(def.Attribute) - def.Difficulty
	if target.ID != caster.ID {
		score -= target.StateMagnitude(actor.EffectDodgeBonus)
	}
	// Clamp so no skill is a certainty in either direction.
	if score < 5 {
		score = 5
	} else if score > 95 {
		score = 95
	}
	success := m.roll(100) < score

	vars := actor.MessageVars(caster, target)
	msgs := def.Messages
	if success {
		m.narrate(w, caster, target, msgs.SuccessSelf, msgs.SuccessTarget, msgs.SuccessRoom, vars)
		if err := m.applyEffect(w, caster, target, def, now); err != nil {
			slog.ErrorContext(ctx, "skill effect failed",
				"skill_id", def.ID,
				"caster_id", caster.ID.String(),
				"error", err,
			)
		}
		RecordCast(def.ID, OutcomeSuccess)
	} else {
		m.narrate(w, caster, target, msgs.FailureSelf, msgs.FailureTarget, msgs.FailureRoom, vars)
		RecordCast(def.ID, OutcomeFailure)
	}
	m.startCooldown(caster, def, now)
}

func (m *Manager) narrate(w command.World, caster, target *actor.Actor, self, tgt, room string, vars map[string]string) {
	if self != "" {
		caster.SendText(actor.ChannelDynamic, actor.SubstituteVars(self, vars))
	}
	if tgt != "" && target.ID != caster.ID {
		target.SendText(actor.ChannelDynamic, actor.SubstituteVars(tgt, vars))
	}
	if room != "" {
		w.EchoRoom(caster.LocationID, actor.ChannelDynamic,
			actor.SubstituteVars(room, vars), caster.ID, target.ID)
	}
}

func (m *Manager) applyEffect(w command.World, caster, target *actor.Actor, def *Definition, now int64) error {
	inv := &Invocation{
		World:  w,
		Caster: caster,
		Target: target,
		Def:    def,
		Now:    now,
	}
	if def.Script != "" {
		return m.scripts.Run(inv)
	}
	if def.Effect != "" {
		eff, ok := m.effects.Get(def.Effect)
		if !ok {
			return ErrUnknownEffect(def.ID, def.Effect)
		}
		return eff(inv)
	}
	return nil
}

// startCooldown locks the skill and arranges the ready notice when the lock
// expires.
func (m *Manager) startCooldown(caster *actor.Actor, def *Definition, now int64) {
	if def.CooldownTicks <= 0 {
		return
	}
	cd := caster.StartCooldown(def.CooldownKey(), caster.ID, now, def.CooldownTicks)
	name := def.Name
	cd.OnExpire = func(*actor.Cooldown) {
		caster.SendText(actor.ChannelDynamic, fmt.Sprintf("You are ready to use %s again.", name))
	}
}
