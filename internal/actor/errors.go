// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"github.com/samber/oops"
)

// Error codes for the actor package.
const (
	CodeSnapshotEncode = "SNAPSHOT_ENCODE"
	CodeSnapshotDecode = "SNAPSHOT_DECODE"
)

// ErrSnapshotEncode creates an error for a failed snapshot serialization.
func ErrSnapshotEncode(actorID string, cause error) error {
	return oops.Code(CodeSnapshotEncode).
		With("actor_id", actorID).
		Wrapf(cause, "encoding actor snapshot")
}

// ErrSnapshotDecode creates an error for a failed snapshot restore.
func ErrSnapshotDecode(actorID string, cause error) error {
	return oops.Code(CodeSnapshotDecode).
		With("actor_id", actorID).
		Wrapf(cause, "decoding actor snapshot")
}
