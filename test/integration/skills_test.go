// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/command/handlers"
	"github.com/mudforge/mudforge/internal/engine"
	"github.com/mudforge/mudforge/internal/skill"
	"github.com/mudforge/mudforge/internal/trigger"
)

const catalogYAML = `
format_version: "1.0.0"
skills:
  - id: fireball
    name: Fireball
    attribute: intelligence
    target_required: true
    cast_ticks: 2
    recovery_ticks: 1
    cooldown_ticks: 5
    mana_cost: 10
    difficulty: 10
    effect: bleed
    effect_magnitude: 4
    effect_duration_ticks: 6
    messages:
      prepare_self: You begin weaving flames.
      success_self: Your fireball engulfs %t%!
      success_target: $cap(%a%'s) fireball engulfs you!
      not_ready: The flames refuse to answer yet.
`

// castSim wires the skill catalog into the dispatcher the way serve does.
type castSim struct {
	world  *engine.World
	engine *engine.Engine
	room   *actor.Actor
}

func newCastSim(roll func(int) int) *castSim {
	s := &castSim{world: engine.NewWorld()}

	dir, err := os.MkdirTemp("", "skills")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { _ = os.RemoveAll(dir) })
	Expect(os.WriteFile(filepath.Join(dir, "core.yaml"), []byte(catalogYAML), 0o600)).To(Succeed())

	catalog, err := skill.LoadDir(dir)
	Expect(err).NotTo(HaveOccurred())
	manager, err := skill.NewManager(catalog, skill.WithRoll(roll))
	Expect(err).NotTo(HaveOccurred())
	Expect(manager.ValidateEffects()).To(Succeed())

	registry := command.NewRegistry()
	handlers.RegisterAll(registry, handlers.Deps{Triggers: trigger.NewRunner()})
	dispatcher, err := command.NewDispatcher(registry, command.WithSkillResolver(manager))
	Expect(err).NotTo(HaveOccurred())

	s.engine, err = engine.New(engine.Config{
		TickDuration:    time.Millisecond,
		TicksPerRound:   1000,
		RegenEveryTicks: 1000,
	}, s.world, dispatcher)
	Expect(err).NotTo(HaveOccurred())

	s.room = actor.New(ulid.Make(), actor.KindRoom, "Practice Yard")
	s.world.Add(s.room)
	return s
}

func (s *castSim) addCharacter(name string) (*actor.Actor, *lineSink) {
	a := actor.New(ulid.Make(), actor.KindCharacter, name)
	a.LocationID = s.room.ID
	a.Stamina, a.MaxStamina = 50, 50
	a.Mana, a.MaxMana = 50, 50
	sink := &lineSink{}
	a.AttachOutput(sink)
	s.world.Add(a)
	return a, sink
}

func (s *castSim) tick(n int) {
	for i := 0; i < n; i++ {
		s.engine.RunTick(context.Background())
	}
}

var _ = Describe("delayed skill casting", func() {
	var (
		s         *castSim
		caster    *actor.Actor
		casterOut *lineSink
		target    *actor.Actor
		targetOut *lineSink
	)

	BeforeEach(func() {
		s = newCastSim(func(int) int { return 0 })
		caster, casterOut = s.addCharacter("Aria")
		caster.Skills["fireball"] = 60
		target, targetOut = s.addCharacter("Goblin")
	})

	It("casts, resolves after the delay, and locks the cooldown", func() {
		s.engine.Inject(caster.ID, []string{"fireball goblin"})
		s.tick(1)

		Expect(caster.Mana).To(Equal(40), "mana is spent up front")
		Expect(caster.HasState(actor.EffectCasting)).To(BeTrue())
		Expect(casterOut.all()).To(ContainElement("You begin weaving flames."))
		Expect(target.HasState(actor.EffectBleeding)).To(BeFalse())

		s.tick(2)
		Expect(caster.HasState(actor.EffectCasting)).To(BeFalse())
		Expect(target.HasState(actor.EffectBleeding)).To(BeTrue())
		Expect(casterOut.all()).To(ContainElement("Your fireball engulfs Goblin!"))
		Expect(targetOut.all()).To(ContainElement("Aria's fireball engulfs you!"))
		Expect(caster.CooldownActive("fireball", s.world.Tick())).To(BeTrue())
	})

	It("queues commands during the busy window", func() {
		s.engine.Inject(caster.ID, []string{"fireball goblin"})
		s.tick(1)

		// Cast plus recovery keeps the caster busy; the follow-up waits.
		s.engine.Inject(caster.ID, []string{"say done"})
		s.tick(1)
		Expect(casterOut.all()).To(ContainElement("(queued)"))
		Expect(casterOut.all()).NotTo(ContainElement(`You say, "done"`))

		s.tick(3)
		Expect(casterOut.all()).To(ContainElement(`You say, "done"`))
	})

	It("refuses a second cast while the cooldown runs", func() {
		s.engine.Inject(caster.ID, []string{"fireball goblin"})
		s.tick(4)

		s.engine.Inject(caster.ID, []string{"fireball goblin"})
		s.tick(1)
		Expect(casterOut.all()).To(ContainElement("The flames refuse to answer yet."))
		Expect(caster.Mana).To(Equal(40), "a gated cast costs nothing")
	})
})

var _ = Describe("round-based combat", func() {
	It("fights to the death on the round cadence", func() {
		world := engine.NewWorld()
		registry := command.NewRegistry()
		handlers.RegisterAll(registry, handlers.Deps{})
		dispatcher, err := command.NewDispatcher(registry)
		Expect(err).NotTo(HaveOccurred())

		eng, err := engine.New(engine.Config{
			TickDuration:    time.Millisecond,
			TicksPerRound:   2,
			RegenEveryTicks: 1000,
		}, world, dispatcher, engine.WithRoll(func(int) int { return 0 }))
		Expect(err).NotTo(HaveOccurred())

		room := actor.New(ulid.Make(), actor.KindRoom, "Arena")
		world.Add(room)

		aria := actor.New(ulid.Make(), actor.KindCharacter, "Aria")
		aria.LocationID = room.ID
		aria.Stamina, aria.MaxStamina = 50, 50
		world.Add(aria)

		goblin := actor.New(ulid.Make(), actor.KindCharacter, "Goblin")
		goblin.LocationID = room.ID
		goblin.Stamina, goblin.MaxStamina = 12, 12
		goblinOut := &lineSink{}
		goblin.AttachOutput(goblinOut)
		world.Add(goblin)

		eng.Inject(aria.ID, []string{"kill goblin"})
		ctx := context.Background()
		eng.RunTick(ctx) // tick 0: fight starts, rounds follow every 2 ticks
		Expect(world.Fighting(aria.ID)).To(BeTrue())
		Expect(goblin.Stamina).To(Equal(12), "no round before a full round length elapses")

		// Rounds at ticks 2, 4 and 6 take the goblin down.
		for i := 0; i < 6; i++ {
			eng.RunTick(ctx)
		}

		Expect(goblin.Flags.Has(actor.FlagDead)).To(BeTrue())
		Expect(goblinOut.all()).To(ContainElement("You are DEAD!"))
		Expect(world.Fighting(aria.ID)).To(BeFalse())
	})
})
