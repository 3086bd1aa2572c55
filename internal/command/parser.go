// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// RelayVerb is the privileged verb that forwards its argument to another
// actor's command processing. Its argument may itself contain semicolons
// meant for that actor, so splitting is disabled for it.
const RelayVerb = "relay"

// ParsedCommand represents a parsed command input.
type ParsedCommand struct {
	Name string // verb (first whitespace-delimited token, lowercased)
	Args string // unparsed argument string (preserves internal whitespace)
	Raw  string // original input
}

// Parse splits raw input into verb and arguments. The verb is the first
// whitespace-delimited token; arguments preserve internal whitespace.
func Parse(input string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code(CodeEmptyInput).Errorf("no command provided")
	}

	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return &ParsedCommand{
			Name: strings.ToLower(trimmed),
			Args: "",
			Raw:  input,
		}, nil
	}

	name := strings.ToLower(trimmed[:idx])
	args := strings.TrimLeft(trimmed[idx+1:], " \t")

	return &ParsedCommand{
		Name: name,
		Args: args,
		Raw:  input,
	}, nil
}

// Split breaks raw input into semicolon-delimited sub-commands. A leading
// relay verb disables splitting entirely. Empty segments are dropped.
func Split(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	verb := trimmed
	if idx := strings.IndexAny(trimmed, " \t"); idx != -1 {
		verb = trimmed[:idx]
	}
	if strings.EqualFold(verb, RelayVerb) || IsMarkerVerb(verb) {
		return []string{trimmed}
	}

	parts := strings.Split(trimmed, ";")
	cmds := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			cmds = append(cmds, p)
		}
	}
	return cmds
}

// SplitWords tokenizes text on whitespace while keeping quoted phrases
// intact, so `give "rusty sword" guard` yields three tokens.
func SplitWords(text string) []string {
	var (
		words   []string
		current strings.Builder
		quote   rune
	)
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				flush()
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			flush()
			quote = r
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
