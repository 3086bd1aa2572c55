// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package integration_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/oklog/ulid/v2"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
	"github.com/mudforge/mudforge/internal/command/handlers"
	"github.com/mudforge/mudforge/internal/engine"
	"github.com/mudforge/mudforge/internal/trigger"
)

// stubNarrator records every snapshot it receives and answers with a canned
// narration.
type stubNarrator struct {
	mu     sync.Mutex
	snaps  []trigger.ContextSnapshot
	result trigger.NarrationResult
}

func (n *stubNarrator) Narrate(_ context.Context, snap trigger.ContextSnapshot) (trigger.NarrationResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snaps = append(n.snaps, snap)
	return n.result, nil
}

func (n *stubNarrator) snapshots() []trigger.ContextSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]trigger.ContextSnapshot(nil), n.snaps...)
}

type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) SendText(_ actor.Channel, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
	return nil
}

func (s *lineSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// sim is a fully wired engine without the network layer: the same component
// graph the serve command builds, driven one tick at a time.
type sim struct {
	world    *engine.World
	engine   *engine.Engine
	runner   *trigger.Runner
	tracker  *trigger.Tracker
	narrator *stubNarrator
	room     *actor.Actor
}

func newSim(rolls ...engine.Option) *sim {
	s := &sim{
		world:    engine.NewWorld(),
		runner:   trigger.NewRunner(),
		narrator: &stubNarrator{},
	}

	s.tracker = trigger.NewTracker(
		trigger.WithNarrator(s.narrator),
		trigger.WithNarrationGate(func(id ulid.ULID) bool {
			a, ok := s.world.Actor(id)
			return ok && a.Flags.Has(actor.FlagNarrative)
		}),
	)

	registry := command.NewRegistry()
	handlers.RegisterAll(registry, handlers.Deps{Triggers: s.runner})

	dispatcher, err := command.NewDispatcher(registry, command.WithTriggerRecorder(s.tracker))
	Expect(err).NotTo(HaveOccurred())

	opts := append([]engine.Option{
		engine.WithTriggers(s.runner),
		engine.WithTracker(s.tracker),
	}, rolls...)
	s.engine, err = engine.New(engine.Config{
		TickDuration:    time.Millisecond,
		TicksPerRound:   3,
		RegenEveryTicks: 100,
	}, s.world, dispatcher, opts...)
	Expect(err).NotTo(HaveOccurred())
	s.tracker.SetInjector(s.engine)

	s.room = actor.New(ulid.Make(), actor.KindRoom, "Market Square")
	s.world.Add(s.room)
	return s
}

func (s *sim) addCharacter(name string, flags actor.Flag) (*actor.Actor, *lineSink) {
	a := actor.New(ulid.Make(), actor.KindCharacter, name)
	a.LocationID = s.room.ID
	a.Stamina, a.MaxStamina = 50, 50
	a.Mana, a.MaxMana = 50, 50
	a.SetFlags(flags)
	sink := &lineSink{}
	a.AttachOutput(sink)
	s.world.Add(a)
	return a, sink
}

func (s *sim) tick(n int) {
	for i := 0; i < n; i++ {
		s.engine.RunTick(context.Background())
	}
}

var _ = Describe("reactive triggers with narrative hand-off", func() {
	var (
		s        *sim
		aria     *actor.Actor
		crier    *actor.Actor
		ariaOut  *lineSink
		crierOut *lineSink
	)

	BeforeEach(func() {
		s = newSim()
		aria, ariaOut = s.addCharacter("Aria", actor.FlagPC)
		crier, crierOut = s.addCharacter("Crier", actor.FlagNarrative)

		_, err := s.runner.Register(crier.ID, trigger.Definition{
			Name:     "greeter",
			Kind:     trigger.CatchSay,
			Criteria: []string{"%speech% contains hello"},
			Script:   []string{"say Welcome, %speaker%!"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("runs the script, records it, and hands the context off once", func() {
		s.narrator.result = trigger.NarrationResult{
			Dialogue: "What a fine day for commerce!",
			FollowUp: []string{"emote bows"},
		}

		s.engine.Inject(aria.ID, []string{"say hello there"})
		s.tick(1)
		Expect(ariaOut.all()).To(ContainElement(`You say, "hello there"`))

		// The script and its context markers drain in the same tick; the
		// hand-off itself runs asynchronously.
		s.tick(3)
		Expect(ariaOut.all()).To(ContainElement(`Crier says, "Welcome, Aria!"`))

		Eventually(s.narrator.snapshots, 2*time.Second).Should(HaveLen(1))
		snap := s.narrator.snapshots()[0]
		Expect(snap.ActorID).To(Equal(crier.ID))
		Expect(snap.Initiator).To(Equal(aria.ID))
		Expect(snap.Results).To(HaveLen(1))
		Expect(snap.Results[0].Kind).To(Equal(string(trigger.CatchSay)))
		Expect(snap.Results[0].Commands).To(HaveLen(1))
		Expect(snap.Results[0].Commands[0].Command).To(Equal("say Welcome, Aria!"))

		// Narration flows back in as ordinary injected commands.
		Eventually(func() []string {
			s.tick(1)
			return crierOut.all()
		}, 2*time.Second).Should(ContainElement(`You say, "What a fine day for commerce!"`))
		Eventually(func() []string {
			s.tick(1)
			return ariaOut.all()
		}, 2*time.Second).Should(ContainElement("Crier bows"))
	})

	It("does not fire when the criteria miss", func() {
		s.engine.Inject(aria.ID, []string{"say goodbye"})
		s.tick(4)

		Expect(crier.QueueLen()).To(BeZero())
		Consistently(s.narrator.snapshots, 100*time.Millisecond).Should(BeEmpty())
	})

	It("never narrates for actors outside the gate", func() {
		bryn, _ := s.addCharacter("Bryn", 0)
		_, err := s.runner.Register(bryn.ID, trigger.Definition{
			Name:   "mimic",
			Kind:   trigger.CatchSay,
			Script: []string{"say hello yourself"},
		})
		Expect(err).NotTo(HaveOccurred())

		s.engine.Inject(aria.ID, []string{"say hello all"})
		s.tick(4)

		Expect(ariaOut.all()).To(ContainElement(`Bryn says, "hello yourself"`))
		snaps := s.narrator.snapshots()
		for _, snap := range snaps {
			Expect(snap.ActorID).NotTo(Equal(bryn.ID))
		}
	})
})
