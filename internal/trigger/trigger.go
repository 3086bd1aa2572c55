// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

// Package trigger implements reactive scripts attached to actors: event
// matching, the nested trigger-context stack, and the narrative hand-off for
// story-driven NPCs.
package trigger

import (
	"os"
	"strconv"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/mudforge/mudforge/internal/actor"
	"github.com/mudforge/mudforge/internal/command"
)

// Kind identifies the event class a trigger reacts to.
type Kind string

const (
	CatchSay    Kind = "catch_say"
	CatchTell   Kind = "catch_tell"
	CatchLook   Kind = "catch_look"
	ReceiveItem Kind = "receive_item"
	TimerTick   Kind = "timer_tick"

	// CatchAny matches every event kind except timer ticks.
	CatchAny Kind = "catch_any"
)

// Definition is the YAML shape of a trigger in world content files.
type Definition struct {
	Name       string   `yaml:"name"`
	Kind       Kind     `yaml:"kind"`
	Criteria   []string `yaml:"criteria"`
	Script     []string `yaml:"script"`
	EveryTicks int64    `yaml:"every_ticks"`
}

// Trigger is a registered, parsed trigger bound to its owning actor.
type Trigger struct {
	ID         ulid.ULID
	Name       string
	Kind       Kind
	OwnerID    ulid.ULID
	Criteria   []*Criterion
	Script     []string
	EveryTicks int64

	lastFired int64
}

// Runner holds every registered trigger and turns matching events into
// queued script commands bracketed by context markers. It runs on the engine
// loop thread only.
type Runner struct {
	byOwner map[ulid.ULID][]*Trigger
	timers  []*Trigger
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{
		byOwner: make(map[ulid.ULID][]*Trigger),
	}
}

// Register parses and registers a trigger definition for an owner.
func (r *Runner) Register(ownerID ulid.ULID, def Definition) (*Trigger, error) {
	if len(def.Script) == 0 {
		return nil, ErrBadTrigger(def.Name, oops.Errorf("trigger has no script"))
	}
	if def.Kind == TimerTick && def.EveryTicks <= 0 {
		return nil, ErrBadTrigger(def.Name, oops.Errorf("timer trigger needs every_ticks > 0"))
	}
	criteria, err := ParseCriteria(def.Criteria)
	if err != nil {
		return nil, ErrBadTrigger(def.Name, err)
	}

	t := &Trigger{
		ID:         ulid.Make(),
		Name:       def.Name,
		Kind:       def.Kind,
		OwnerID:    ownerID,
		Criteria:   criteria,
		Script:     append([]string(nil), def.Script...),
		EveryTicks: def.EveryTicks,
	}
	r.byOwner[ownerID] = append(r.byOwner[ownerID], t)
	if t.Kind == TimerTick {
		r.timers = append(r.timers, t)
	}
	return t, nil
}

// Remove deregisters one trigger from an owner.
func (r *Runner) Remove(ownerID, triggerID ulid.ULID) {
	list := r.byOwner[ownerID]
	for i, t := range list {
		if t.ID == triggerID {
			r.byOwner[ownerID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for i, t := range r.timers {
		if t.ID == triggerID {
			r.timers = append(r.timers[:i], r.timers[i+1:]...)
			break
		}
	}
}

// RemoveOwner drops every trigger registered for an actor, timers included.
func (r *Runner) RemoveOwner(ownerID ulid.ULID) {
	delete(r.byOwner, ownerID)
	kept := r.timers[:0]
	for _, t := range r.timers {
		if t.OwnerID != ownerID {
			kept = append(kept, t)
		}
	}
	r.timers = kept
}

// Triggers returns the owner's registered triggers.
func (r *Runner) Triggers(ownerID ulid.ULID) []*Trigger {
	return r.byOwner[ownerID]
}

// Fire delivers an event to the owner's triggers. Each trigger whose kind
// and criteria match has its script enqueued, bracketed by a begin and end
// marker so the dispatcher can track the trigger context. Returns the number
// of triggers fired.
func (r *Runner) Fire(owner *actor.Actor, kind Kind, initiator ulid.ULID, vars map[string]string) int {
	if kind == TimerTick {
		return 0
	}
	fired := 0
	for _, t := range r.byOwner[owner.ID] {
		if t.Kind != kind && t.Kind != CatchAny {
			continue
		}
		merged := mergeVars(owner, vars)
		if !evalAll(t.Criteria, merged) {
			continue
		}
		if err := r.enqueueFiring(owner, t, initiator, merged); err != nil {
			continue
		}
		fired++
	}
	return fired
}

// FireTimers sweeps all timer triggers for the current tick. Owners that no
// longer resolve are deregistered. Criteria see %elapsed%, the tick count
// since the trigger last fired.
func (r *Runner) FireTimers(now int64, lookup func(ulid.ULID) (*actor.Actor, bool)) int {
	fired := 0
	kept := r.timers[:0]
	for _, t := range r.timers {
		owner, ok := lookup(t.OwnerID)
		if !ok {
			r.Remove(t.OwnerID, t.ID)
			continue
		}
		kept = append(kept, t)

		elapsed := now - t.lastFired
		if elapsed < t.EveryTicks {
			continue
		}
		vars := mergeVars(owner, map[string]string{
			"elapsed": formatTick(elapsed),
			"tick":    formatTick(now),
		})
		if !evalAll(t.Criteria, vars) {
			continue
		}
		if err := r.enqueueFiring(owner, t, owner.ID, vars); err != nil {
			continue
		}
		t.lastFired = now
		fired++
	}
	r.timers = kept
	return fired
}

// enqueueFiring pushes the begin marker, the substituted script lines, and
// the end marker onto the owner's queue.
func (r *Runner) enqueueFiring(owner *actor.Actor, t *Trigger, initiator ulid.ULID, vars map[string]string) error {
	begin, err := command.EncodeBeginMarker(command.BeginMarker{
		Kind:      string(t.Kind),
		TriggerID: t.ID,
		Criteria:  DescribeCriteria(t.Criteria),
		Initiator: initiator,
	})
	if err != nil {
		return err
	}
	owner.EnqueueCommand(begin)
	for _, line := range t.Script {
		owner.EnqueueCommand(actor.SubstituteVars(line, vars))
	}
	owner.EnqueueCommand(command.EndMarkerVerb)
	return nil
}

func evalAll(criteria []*Criterion, vars map[string]string) bool {
	for _, c := range criteria {
		if !c.Eval(vars) {
			return false
		}
	}
	return true
}

// mergeVars layers the event variables over the owner's stored variables.
func mergeVars(owner *actor.Actor, vars map[string]string) map[string]string {
	merged := make(map[string]string, len(owner.Vars)+len(vars))
	for k, v := range owner.Vars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}

func formatTick(t int64) string {
	return strconv.FormatInt(t, 10)
}

// LoadDefinitionFile reads a YAML file of trigger definitions.
func LoadDefinitionFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code(CodeBadTrigger).
			With("path", path).
			Wrapf(err, "reading trigger file")
	}
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, oops.Code(CodeBadTrigger).
			With("path", path).
			Wrapf(err, "parsing trigger file")
	}
	return defs, nil
}
