// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for command dispatch failures.
const (
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeUnknownCommand = "UNKNOWN_COMMAND"
	CodeNoReference    = "NO_REFERENCE"
	CodeBadTarget      = "BAD_TARGET"
	CodeMissingArg     = "MISSING_ARGUMENT"
	CodeBadMarker      = "BAD_MARKER"
	CodeEngine         = "ENGINE"
)

// ErrNilRegistry is returned when a dispatcher is built without a registry.
var ErrNilRegistry = oops.Errorf("registry cannot be nil")

// ErrUnknownCommand creates an error for an unknown verb.
func ErrUnknownCommand(verb string) error {
	return oops.Code(CodeUnknownCommand).
		With("verb", verb).
		Errorf("unknown command: %s", verb)
}

// ErrNoReference creates the fatal-precondition error raised when an actor
// has no stable reference id. It aborts only that invocation.
func ErrNoReference() error {
	return oops.Code(CodeNoReference).
		Errorf("actor has no stable reference id")
}

// ErrBadMarker creates an error for a malformed trigger-boundary marker.
func ErrBadMarker(cause error) error {
	return oops.Code(CodeBadMarker).
		Wrapf(cause, "decoding trigger marker payload")
}

// EngineError wraps an unexpected handler failure with actor and command
// context before it crosses to the main loop's isolation boundary.
func EngineError(actorID, cmd string, cause error) error {
	return oops.Code(CodeEngine).
		With("actor_id", actorID).
		With("command", cmd).
		Wrapf(cause, "command handler failed")
}

// PlayerMessage extracts a user-visible message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "Something went wrong. Try again."
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return "Unknown command."
	case CodeEmptyInput:
		return "Say what?"
	case CodeBadTarget:
		return "They aren't here."
	case CodeMissingArg:
		return "Missing argument."
	default:
		return "Something went wrong. Try again."
	}
}
