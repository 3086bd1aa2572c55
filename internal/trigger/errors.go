// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package trigger

import (
	"github.com/samber/oops"
)

// Error codes for trigger loading and firing failures.
const (
	CodeBadCriteria = "BAD_CRITERIA"
	CodeBadTrigger  = "BAD_TRIGGER"
	CodeNarration   = "NARRATION"
)

// ErrBadTrigger creates an error for a trigger definition that cannot be
// registered.
func ErrBadTrigger(id string, cause error) error {
	return oops.Code(CodeBadTrigger).
		With("trigger_id", id).
		Wrapf(cause, "invalid trigger definition")
}

// ErrNarration wraps a narrative hand-off failure after retries were
// exhausted.
func ErrNarration(actorID string, cause error) error {
	return oops.Code(CodeNarration).
		With("actor_id", actorID).
		Wrapf(cause, "narrative hand-off failed")
}
