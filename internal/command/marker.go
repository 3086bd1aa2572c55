// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"encoding/json"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Trigger-boundary marker verbs. The trigger runner enqueues a begin marker,
// the script lines, then an end marker. Markers are metadata, not game
// actions: they are never recorded as command results, and both are instant
// so a boundary never costs a tick.
const (
	BeginMarkerVerb = "%triggerbegin"
	EndMarkerVerb   = "%triggerend"
)

// BeginMarker is the payload carried by a begin-marker command.
type BeginMarker struct {
	Kind      string    `json:"kind"`
	TriggerID ulid.ULID `json:"trigger_id"`
	Criteria  string    `json:"criteria"`
	Initiator ulid.ULID `json:"initiator"`
}

// EncodeBeginMarker renders a begin-marker command string.
func EncodeBeginMarker(m BeginMarker) (string, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return "", ErrBadMarker(err)
	}
	return BeginMarkerVerb + " " + string(payload), nil
}

// DecodeBeginMarker parses the payload of a begin-marker command.
func DecodeBeginMarker(args string) (BeginMarker, error) {
	var m BeginMarker
	if err := json.Unmarshal([]byte(strings.TrimSpace(args)), &m); err != nil {
		return BeginMarker{}, ErrBadMarker(err)
	}
	return m, nil
}

// IsMarkerVerb reports whether the verb is a trigger-boundary marker.
func IsMarkerVerb(verb string) bool {
	return verb == BeginMarkerVerb || verb == EndMarkerVerb
}
