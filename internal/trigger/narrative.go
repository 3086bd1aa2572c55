// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
)

// ContextSnapshot is the immutable copy of a completed trigger context handed
// to the narrator. It shares no memory with live engine state.
type ContextSnapshot struct {
	ActorID   ulid.ULID       `json:"actor_id"`
	Initiator ulid.ULID       `json:"initiator"`
	Results   []TriggerResult `json:"results"`
}

// NarrationResult is what the narrator produces from a completed context.
type NarrationResult struct {
	// Dialogue is spoken in-character by the acting NPC, if non-empty.
	Dialogue string `json:"dialogue"`

	// StageDirections is descriptive text shown to the room, if non-empty.
	StageDirections string `json:"stage_directions"`

	// FollowUp commands are enqueued for the actor through the ordinary
	// input path, subject to normal gating.
	FollowUp []string `json:"follow_up"`
}

// Narrator turns a completed trigger context into narrative output. Narrate
// may block; the tracker always calls it off the engine loop thread.
type Narrator interface {
	Narrate(ctx context.Context, snapshot ContextSnapshot) (NarrationResult, error)
}

// Injector delivers commands back into the engine for later dispatch.
// Implementations must be safe for use from goroutines other than the engine
// loop.
type Injector interface {
	Inject(actorID ulid.ULID, commands []string)
}

func snapshotContext(c *Context) ContextSnapshot {
	snap := ContextSnapshot{
		ActorID:   c.ActorID,
		Initiator: c.Initiator,
		Results:   make([]TriggerResult, 0, len(c.Results)),
	}
	for _, r := range c.Results {
		cp := *r
		cp.Commands = append(cp.Commands[:0:0], r.Commands...)
		snap.Results = append(snap.Results, cp)
	}
	return snap
}

// handOff dispatches the snapshot to the narrator asynchronously so a slow
// collaborator never stalls the tick. Transient failures are retried with
// backoff; a final failure is logged and the narration dropped.
func (t *Tracker) handOff(ctx context.Context, snap ContextSnapshot) {
	Handoffs.Inc()
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		var result NarrationResult
		backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(nctx, backoff, func(ctx context.Context) error {
			var nerr error
			result, nerr = t.narrator.Narrate(ctx, snap)
			if nerr != nil {
				return retry.RetryableError(nerr)
			}
			return nil
		})
		if err != nil {
			HandoffFailures.Inc()
			slog.ErrorContext(nctx, "narrative hand-off failed",
				"actor_id", snap.ActorID.String(),
				"results", len(snap.Results),
				"error", err,
			)
			return
		}

		if t.injector == nil {
			return
		}
		commands := make([]string, 0, len(result.FollowUp)+2)
		if result.Dialogue != "" {
			commands = append(commands, fmt.Sprintf("say %s", result.Dialogue))
		}
		if result.StageDirections != "" {
			commands = append(commands, fmt.Sprintf("emote %s", result.StageDirections))
		}
		commands = append(commands, result.FollowUp...)
		if len(commands) > 0 {
			t.injector.Inject(snap.ActorID, commands)
		}
	}()
}
