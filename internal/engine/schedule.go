// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package engine

import (
	"container/heap"

	"github.com/oklog/ulid/v2"
)

// Event is a one-shot callback registered for a future tick.
type Event struct {
	Tick  int64
	Name  string
	Owner ulid.ULID
	Fn    func(now int64)

	seq int64
}

// Schedule is a min-heap of pending events ordered by tick, with insertion
// order breaking ties so same-tick events fire in registration order.
type Schedule struct {
	heap eventHeap
	seq  int64
}

// NewSchedule creates an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// Add registers an event. Events registered for the current or a past tick
// fire on the next Fire call.
func (s *Schedule) Add(tick int64, name string, owner ulid.ULID, fn func(now int64)) {
	s.seq++
	heap.Push(&s.heap, &Event{
		Tick:  tick,
		Name:  name,
		Owner: owner,
		Fn:    fn,
		seq:   s.seq,
	})
}

// Pop removes and returns every event due at or before now, in order.
func (s *Schedule) Pop(now int64) []*Event {
	var due []*Event
	for s.heap.Len() > 0 && s.heap[0].Tick <= now {
		due = append(due, heap.Pop(&s.heap).(*Event))
	}
	return due
}

// Len returns the number of pending events.
func (s *Schedule) Len() int {
	return s.heap.Len()
}

// DropOwner cancels every pending event registered for an owner.
func (s *Schedule) DropOwner(owner ulid.ULID) int {
	kept := s.heap[:0]
	dropped := 0
	for _, ev := range s.heap {
		if ev.Owner == owner {
			dropped++
			continue
		}
		kept = append(kept, ev)
	}
	s.heap = kept
	heap.Init(&s.heap)
	return dropped
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Tick != h[j].Tick {
		return h[i].Tick < h[j].Tick
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}
