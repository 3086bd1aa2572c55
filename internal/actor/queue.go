// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

// Command queue operations. Insertion order is significant: an actor's own
// commands execute FIFO relative to each other. Only the scheduler drains
// the queue, on the engine loop thread.

// EnqueueCommand appends a raw command string to the actor's queue.
func (a *Actor) EnqueueCommand(cmd string) {
	a.queue = append(a.queue, cmd)
}

// EnqueueCommands appends several commands preserving their order.
func (a *Actor) EnqueueCommands(cmds ...string) {
	a.queue = append(a.queue, cmds...)
}

// PopCommand removes and returns the head of the queue.
func (a *Actor) PopCommand() (string, bool) {
	if len(a.queue) == 0 {
		return "", false
	}
	head := a.queue[0]
	a.queue = a.queue[1:]
	return head, true
}

// PeekCommand returns the head of the queue without removing it.
func (a *Actor) PeekCommand() (string, bool) {
	if len(a.queue) == 0 {
		return "", false
	}
	return a.queue[0], true
}

// ClearQueue empties the queue and returns how many commands were removed.
func (a *Actor) ClearQueue() int {
	n := len(a.queue)
	a.queue = nil
	return n
}

// QueueLen returns the number of pending commands.
func (a *Actor) QueueLen() int {
	return len(a.queue)
}
