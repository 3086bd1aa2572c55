// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCmd  string
		wantArgs string
		wantErr  bool
	}{
		{
			name:     "simple command",
			input:    "look",
			wantCmd:  "look",
			wantArgs: "",
		},
		{
			name:     "command with args",
			input:    "say hello world",
			wantCmd:  "say",
			wantArgs: "hello world",
		},
		{
			name:     "command with leading whitespace",
			input:    "   look",
			wantCmd:  "look",
			wantArgs: "",
		},
		{
			name:     "preserves internal arg whitespace",
			input:    "say   hello    world",
			wantCmd:  "say",
			wantArgs: "hello    world",
		},
		{
			name:     "verb is lowercased",
			input:    "LOOK guard",
			wantCmd:  "look",
			wantArgs: "guard",
		},
		{
			name:     "tab separates verb and args",
			input:    "say\thello",
			wantCmd:  "say",
			wantArgs: "hello",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, parsed.Name)
			assert.Equal(t, tt.wantArgs, parsed.Args)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single command",
			input: "look",
			want:  []string{"look"},
		},
		{
			name:  "semicolon chain",
			input: "say one; say two;emote waves",
			want:  []string{"say one", "say two", "emote waves"},
		},
		{
			name:  "empty segments dropped",
			input: "look;;  ; say hi",
			want:  []string{"look", "say hi"},
		},
		{
			name:  "relay disables splitting",
			input: "relay guard say one; say two",
			want:  []string{"relay guard say one; say two"},
		},
		{
			name:  "relay verb match is case-insensitive",
			input: "RELAY guard wave; bow",
			want:  []string{"RELAY guard wave; bow"},
		},
		{
			name:  "relay must be the verb not a prefix",
			input: "relayx one; two",
			want:  []string{"relayx one", "two"},
		},
		{
			name:  "empty input",
			input: "  ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.input))
		})
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain words",
			input: "give sword guard",
			want:  []string{"give", "sword", "guard"},
		},
		{
			name:  "double-quoted phrase",
			input: `give "rusty sword" guard`,
			want:  []string{"give", "rusty sword", "guard"},
		},
		{
			name:  "single-quoted phrase",
			input: "tell 'town crier' hello",
			want:  []string{"tell", "town crier", "hello"},
		},
		{
			name:  "unterminated quote keeps remainder",
			input: `say "half open`,
			want:  []string{"say", "half open"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWords(tt.input))
		})
	}
}
