// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validCatalog = `
format_version: "1.0.0"
skills:
  - id: fireball
    name: fireball
    attribute: intelligence
    target_required: true
    cast_ticks: 4
    recovery_ticks: 2
    cooldown_ticks: 20
    mana_cost: 10
    difficulty: 15
    effect: bleed
    effect_magnitude: 3
    effect_duration_ticks: 6
  - id: mighty-kick
    name: mighty kick
    attribute: strength
    target_required: true
    cooldown_ticks: 10
    stamina_cost: 5
    effect: stun
    effect_duration_ticks: 2
  - id: meditate
    name: meditate
    effect: restore
    effect_magnitude: 10
`

func TestLoadFile(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "skills.yaml", validCatalog)

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	def, ok := c.Get("fireball")
	require.True(t, ok)
	assert.Equal(t, "fireball", def.Name)
	assert.Equal(t, int64(4), def.CastTicks)
	assert.Equal(t, 10, def.ManaCost)

	assert.Len(t, c.All(), 3)
	assert.Equal(t, filepath.Dir(path), c.Dir())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "combat.yaml", `
format_version: "1.0.0"
skills:
  - id: bash
    name: bash
    effect: stun
`)
	writeCatalog(t, dir, "magic.yml", `
format_version: "1.0.2"
skills:
  - id: heal
    name: heal
    effect: restore
`)
	writeCatalog(t, dir, "notes.txt", "ignored entirely")

	c, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unsupported format version",
			content: `
format_version: "2.0.0"
skills:
  - id: bash
    name: bash
`,
		},
		{
			name: "unparseable version",
			content: `
format_version: "latest"
skills:
  - id: bash
    name: bash
`,
		},
		{
			name: "missing required name",
			content: `
format_version: "1.0.0"
skills:
  - id: bash
`,
		},
		{
			name: "duplicate skill id",
			content: `
format_version: "1.0.0"
skills:
  - id: bash
    name: bash
  - id: bash
    name: bash again
`,
		},
		{
			name: "effect and script both set",
			content: `
format_version: "1.0.0"
skills:
  - id: bash
    name: bash
    effect: stun
    script: bash.lua
`,
		},
		{
			name:    "not yaml",
			content: "{{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, t.TempDir(), "skills.yaml", tt.content)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestResolveName(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "skills.yaml", validCatalog)
	c, err := LoadFile(path)
	require.NoError(t, err)

	tests := []struct {
		name          string
		input         string
		wantID        string
		wantRemainder string
		wantOK        bool
	}{
		{name: "exact one-word", input: "fireball", wantID: "fireball", wantOK: true},
		{name: "one-word with target", input: "fireball goblin", wantID: "fireball", wantRemainder: "goblin", wantOK: true},
		{name: "exact multi-word", input: "mighty kick", wantID: "mighty-kick", wantOK: true},
		{name: "multi-word with target", input: "mighty kick goblin", wantID: "mighty-kick", wantRemainder: "goblin", wantOK: true},
		{name: "case-insensitive", input: "FIREBALL Goblin", wantID: "fireball", wantRemainder: "Goblin", wantOK: true},
		{name: "prefix of a word is not a match", input: "fire goblin", wantOK: false},
		{name: "unknown", input: "dance", wantOK: false},
		{name: "empty", input: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, remainder, ok := c.ResolveName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantRemainder, remainder)
			}
		})
	}
}

func TestResolveNamePrefersLongestName(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "skills.yaml", `
format_version: "1.0.0"
skills:
  - id: strike
    name: strike
    effect: stun
  - id: strike-true
    name: strike true
    effect: stun
`)
	c, err := LoadFile(path)
	require.NoError(t, err)

	id, remainder, ok := c.ResolveName("strike true goblin")
	require.True(t, ok)
	assert.Equal(t, "strike-true", id)
	assert.Equal(t, "goblin", remainder)

	id, _, ok = c.ResolveName("strike goblin")
	require.True(t, ok)
	assert.Equal(t, "strike", id)
}

func TestCooldownKey(t *testing.T) {
	d := &Definition{ID: "fireball"}
	assert.Equal(t, "fireball", d.CooldownKey())

	d.CooldownName = "fire-magic"
	assert.Equal(t, "fire-magic", d.CooldownKey())
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), SchemaID)
	assert.Contains(t, string(data), "format_version")
}
