// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarLifecycle(t *testing.T) {
	a := New(ulid.Make(), KindCharacter, "Tester")

	_, ok := a.Var("mood")
	assert.False(t, ok)

	a.SetVar("mood", "cheerful")
	v, ok := a.Var("mood")
	require.True(t, ok)
	assert.Equal(t, "cheerful", v)

	assert.True(t, a.DeleteVar("mood"))
	assert.False(t, a.DeleteVar("mood"))
}

func TestMessageVars(t *testing.T) {
	acting := New(ulid.Make(), KindCharacter, "Aria")
	acting.SetVar("mood", "grim")
	target := New(ulid.Make(), KindCharacter, "Bryn")

	vars := MessageVars(acting, target)
	assert.Equal(t, "Aria", vars["a"])
	assert.Equal(t, "Bryn", vars["t"])
	assert.Equal(t, "grim", vars["mood"])

	solo := MessageVars(acting, nil)
	_, ok := solo["t"]
	assert.False(t, ok)
}

func TestSubstituteVars(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			name: "simple substitution",
			text: "%a% waves at %t%.",
			vars: map[string]string{"a": "Aria", "t": "Bryn"},
			want: "Aria waves at Bryn.",
		},
		{
			name: "unknown variable left untouched",
			text: "%a% mutters about %weather%.",
			vars: map[string]string{"a": "Aria"},
			want: "Aria mutters about %weather%.",
		},
		{
			name: "cap function uppercases first rune",
			text: "$cap(%a%) nods.",
			vars: map[string]string{"a": "aria"},
			want: "Aria nods.",
		},
		{
			name: "cap of empty argument",
			text: "$cap() nods.",
			vars: nil,
			want: " nods.",
		},
		{
			name: "multiple cap occurrences",
			text: "$cap(one) and $cap(two)",
			vars: nil,
			want: "One and Two",
		},
		{
			name: "no markers",
			text: "plain text",
			vars: map[string]string{"a": "Aria"},
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteVars(tt.text, tt.vars))
		})
	}
}
