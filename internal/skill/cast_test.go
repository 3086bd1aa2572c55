// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

// castWorld is a minimal world for skill tests: a flat actor map, a settable
// clock, and captured scheduled events.
type castWorld struct {
	actors map[ulid.ULID]*actor.Actor
	tick   int64

	scheduled []scheduledEvent
}

type scheduledEvent struct {
	tick  int64
	name  string
	owner ulid.ULID
	fn    func(now int64)
}

func newCastWorld(tick int64, actors ...*actor.Actor) *castWorld {
	w := &castWorld{actors: make(map[ulid.ULID]*actor.Actor), tick: tick}
	for _, a := range actors {
		w.actors[a.ID] = a
	}
	return w
}

func (w *castWorld) Actor(id ulid.ULID) (*actor.Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

func (w *castWorld) Tick() int64 { return w.tick }

func (w *castWorld) EchoRoom(roomID ulid.ULID, channel actor.Channel, text string, exclude ...ulid.ULID) {
	for _, a := range w.actors {
		if a.LocationID != roomID {
			continue
		}
		excluded := false
		for _, ex := range exclude {
			if ex == a.ID {
				excluded = true
			}
		}
		if !excluded {
			a.SendText(channel, text)
		}
	}
}

func (w *castWorld) FindInRoom(roomID ulid.ULID, name string) (*actor.Actor, bool) {
	needle := strings.ToLower(name)
	for _, a := range w.actors {
		if a.LocationID == roomID && strings.HasPrefix(strings.ToLower(a.Name), needle) {
			return a, true
		}
	}
	return nil, false
}

func (w *castWorld) StartFight(_, _ ulid.ULID) {}
func (w *castWorld) StopFight(_ ulid.ULID)     {}
func (w *castWorld) Remove(id ulid.ULID)       { delete(w.actors, id) }

func (w *castWorld) Schedule(tick int64, name string, owner ulid.ULID, fn func(now int64)) {
	w.scheduled = append(w.scheduled, scheduledEvent{tick: tick, name: name, owner: owner, fn: fn})
}

// runDue fires every captured event due at or before now.
func (w *castWorld) runDue(now int64) {
	due := w.scheduled
	w.scheduled = nil
	for _, ev := range due {
		if ev.tick <= now {
			ev.fn(now)
		} else {
			w.scheduled = append(w.scheduled, ev)
		}
	}
}

type castSink struct {
	lines []string
}

func (s *castSink) SendText(_ actor.Channel, text string) error {
	s.lines = append(s.lines, text)
	return nil
}

func (s *castSink) contains(sub string) bool {
	for _, l := range s.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func testManager(t *testing.T, roll func(int) int) *Manager {
	t.Helper()
	c, err := LoadFile(writeCatalog(t, t.TempDir(), "skills.yaml", `
format_version: "1.0.0"
skills:
  - id: fireball
    name: fireball
    attribute: intelligence
    target_required: true
    cast_ticks: 4
    recovery_ticks: 2
    cooldown_ticks: 20
    mana_cost: 10
    effect: bleed
    effect_magnitude: 3
    effect_duration_ticks: 6
    messages:
      prepare_self: You begin weaving flame.
      prepare_room: "%a% begins weaving flame."
      success_self: Your fireball engulfs %t%!
      success_target: "%a%'s fireball engulfs you!"
      success_room: "%a%'s fireball engulfs %t%!"
      failure_self: Your fireball fizzles out.
      not_ready: The flames need time to rekindle.
  - id: bash
    name: bash
    attribute: strength
    target_required: true
    recovery_ticks: 3
    cooldown_ticks: 6
    stamina_cost: 5
    effect: stun
    effect_duration_ticks: 2
    messages:
      success_self: You bash %t% senseless!
      failure_self: Your bash goes wide.
  - id: meditate
    name: meditate
    mana_cost: 0
    effect: restore
    effect_magnitude: 10
`))
	require.NoError(t, err)

	opts := []ManagerOption{}
	if roll != nil {
		opts = append(opts, WithRoll(roll))
	}
	m, err := NewManager(c, opts...)
	require.NoError(t, err)
	return m
}

func alwaysSucceed(int) int { return 0 }
func alwaysFail(int) int    { return 99 }

func castFixture(t *testing.T, roll func(int) int) (*Manager, *castWorld, *actor.Actor, *actor.Actor, *castSink) {
	t.Helper()
	room := ulid.Make()

	caster := actor.New(ulid.Make(), actor.KindCharacter, "Aria")
	caster.LocationID = room
	caster.Stamina, caster.MaxStamina = 50, 50
	caster.Mana, caster.MaxMana = 50, 50
	caster.Skills["fireball"] = 60
	caster.Skills["bash"] = 60

	target := actor.New(ulid.Make(), actor.KindCharacter, "Goblin")
	target.LocationID = room
	target.Stamina, target.MaxStamina = 30, 30

	sink := &castSink{}
	caster.AttachOutput(sink)

	w := newCastWorld(100, caster, target)
	return testManager(t, roll), w, caster, target, sink
}

func TestInvokeSkillImmediateResolve(t *testing.T) {
	m, w, caster, target, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	res, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)
	assert.True(t, res.Succeeded)

	// Resources spent, busy window set, effect applied, cooldown started.
	assert.Equal(t, 45, caster.Stamina)
	assert.Equal(t, int64(103), caster.BusyUntil)
	assert.True(t, target.HasState(actor.EffectStunned))
	assert.True(t, caster.CooldownActive("bash", 100))
	assert.True(t, sink.contains("You bash Goblin senseless!"))
	assert.Empty(t, w.scheduled, "zero cast time resolves inline")
}

func TestInvokeSkillCooldownGateNoMutation(t *testing.T) {
	m, w, caster, _, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)

	staminaAfter := caster.Stamina
	busyAfter := caster.BusyUntil

	res, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, "on cooldown", res.Message)

	// The refusal changes nothing.
	assert.Equal(t, staminaAfter, caster.Stamina)
	assert.Equal(t, busyAfter, caster.BusyUntil)
	assert.True(t, sink.contains("You can't use bash again yet."))
}

func TestInvokeSkillCustomNotReadyMessage(t *testing.T) {
	m, w, caster, _, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)
	w.runDue(104)

	_, err = m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)
	assert.True(t, sink.contains("The flames need time to rekindle."))
}

func TestInvokeSkillTargetChecks(t *testing.T) {
	m, w, caster, _, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	res, err := m.InvokeSkill(context.Background(), exec, "bash", "")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, sink.contains("Use bash on whom?"))

	res, err = m.InvokeSkill(context.Background(), exec, "bash", "dragon")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, sink.contains("They aren't here."))

	// Neither refusal spent anything.
	assert.Equal(t, 50, caster.Stamina)
	assert.Equal(t, int64(0), caster.BusyUntil)
}

func TestInvokeSkillResourceChecks(t *testing.T) {
	m, w, caster, _, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	caster.Stamina = 2
	res, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, sink.contains("You are too exhausted."))
	assert.Equal(t, 2, caster.Stamina, "nothing spent on refusal")

	caster.Mana = 3
	res, err = m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, sink.contains("You don't have the energy."))
	assert.Equal(t, 3, caster.Mana)
}

func TestInvokeSkillDelayedCast(t *testing.T) {
	m, w, caster, target, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	res, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "casting", res.Message)

	assert.Equal(t, 40, caster.Mana)
	assert.Equal(t, int64(106), caster.BusyUntil, "cast plus recovery")
	assert.True(t, caster.HasState(actor.EffectCasting))
	assert.True(t, sink.contains("You begin weaving flame."))
	require.Len(t, w.scheduled, 1)
	assert.Equal(t, int64(104), w.scheduled[0].tick)

	w.tick = 104
	w.runDue(104)

	assert.False(t, caster.HasState(actor.EffectCasting))
	assert.True(t, target.HasState(actor.EffectBleeding))
	assert.Equal(t, 3, target.StateMagnitude(actor.EffectBleeding))
	assert.True(t, caster.CooldownActive("fireball", 104))
	assert.True(t, sink.contains("Your fireball engulfs Goblin!"))
}

func TestInvokeSkillCastingStateOutlivesSweep(t *testing.T) {
	m, w, caster, target, _ := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)

	// The engine sweeps state expiry before it pops scheduled events, so a
	// sweep on the resolution tick must not retire the casting state.
	caster.SweepExpired(104)
	require.True(t, caster.HasState(actor.EffectCasting))

	w.tick = 104
	w.runDue(104)
	assert.True(t, target.HasState(actor.EffectBleeding))
	assert.True(t, caster.CooldownActive("fireball", 104))
}

func TestInvokeSkillInterruptedCast(t *testing.T) {
	m, w, caster, target, _ := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)

	// A stop command strips the casting state before resolution.
	require.True(t, caster.RemoveState(actor.EffectCasting))
	w.runDue(104)

	assert.False(t, target.HasState(actor.EffectBleeding))
	assert.False(t, caster.CooldownActive("fireball", 104), "interrupted casts skip the cooldown")
}

func TestInvokeSkillTargetGoneFizzles(t *testing.T) {
	m, w, caster, target, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)

	target.LocationID = ulid.Make()
	w.runDue(104)

	assert.True(t, sink.contains("Your target is gone."))
	assert.False(t, target.HasState(actor.EffectBleeding))
	assert.True(t, caster.CooldownActive("fireball", 104), "fizzled casts still cost the cooldown")
}

func TestInvokeSkillDeadCasterNeverResolves(t *testing.T) {
	m, w, caster, target, _ := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "fireball", "goblin")
	require.NoError(t, err)

	caster.SetFlags(actor.FlagDead)
	w.runDue(104)

	assert.False(t, target.HasState(actor.EffectBleeding))
}

func TestInvokeSkillFailureRoll(t *testing.T) {
	m, w, caster, target, sink := castFixture(t, alwaysFail)
	exec := &command.Execution{Actor: caster, World: w}

	res, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)
	assert.True(t, res.Succeeded, "initiation succeeds even when the check fails")

	assert.False(t, target.HasState(actor.EffectStunned))
	assert.True(t, sink.contains("Your bash goes wide."))
	assert.True(t, caster.CooldownActive("bash", 100), "failed checks still start the cooldown")
}

func TestInvokeSkillUnknownID(t *testing.T) {
	m, w, caster, _, _ := castFixture(t, nil)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "nonsense", "")
	assert.Error(t, err)
}

func TestInvokeSkillCooldownExpiryNotice(t *testing.T) {
	m, w, caster, _, sink := castFixture(t, alwaysSucceed)
	exec := &command.Execution{Actor: caster, World: w}

	_, err := m.InvokeSkill(context.Background(), exec, "bash", "goblin")
	require.NoError(t, err)

	caster.SweepExpired(106)
	assert.True(t, sink.contains("You are ready to use bash again."))
}

func TestValidateEffects(t *testing.T) {
	c, err := LoadFile(writeCatalog(t, t.TempDir(), "skills.yaml", `
format_version: "1.0.0"
skills:
  - id: broken
    name: broken
    effect: no-such-effect
`))
	require.NoError(t, err)

	m, err := NewManager(c)
	require.NoError(t, err)
	assert.Error(t, m.ValidateEffects())
}

func TestNewManagerRequiresCatalog(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)
}
