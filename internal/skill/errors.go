// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"github.com/samber/oops"
)

// Error codes for catalog loading and skill invocation.
const (
	CodeBadCatalog    = "BAD_CATALOG"
	CodeBadVersion    = "BAD_VERSION"
	CodeUnknownSkill  = "UNKNOWN_SKILL"
	CodeUnknownEffect = "UNKNOWN_EFFECT"
	CodeScript        = "SCRIPT"
)

// ErrBadCatalog creates an error for a catalog file that fails to load or
// validate.
func ErrBadCatalog(path string, cause error) error {
	return oops.Code(CodeBadCatalog).
		With("path", path).
		Wrapf(cause, "loading skill catalog")
}

// ErrBadVersion creates an error for a catalog format version outside the
// supported range.
func ErrBadVersion(path, version, constraint string) error {
	return oops.Code(CodeBadVersion).
		With("path", path).
		With("version", version).
		With("supported", constraint).
		Errorf("unsupported catalog format version %s", version)
}

// ErrUnknownSkill creates an error for a skill id with no catalog entry.
func ErrUnknownSkill(id string) error {
	return oops.Code(CodeUnknownSkill).
		With("skill_id", id).
		Errorf("unknown skill: %s", id)
}

// ErrUnknownEffect creates an error for a definition naming a builtin effect
// that is not registered.
func ErrUnknownEffect(skillID, effect string) error {
	return oops.Code(CodeUnknownEffect).
		With("skill_id", skillID).
		With("effect", effect).
		Errorf("unknown effect %q in skill %s", effect, skillID)
}

// ErrScript wraps a Lua effect script failure.
func ErrScript(skillID, path string, cause error) error {
	return oops.Code(CodeScript).
		With("skill_id", skillID).
		With("script", path).
		Wrapf(cause, "skill effect script failed")
}
