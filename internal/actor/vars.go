// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"strings"
	"unicode"
)

// SetVar sets a temporary script variable on the actor.
func (a *Actor) SetVar(name, value string) {
	if a.Vars == nil {
		a.Vars = make(map[string]string)
	}
	a.Vars[name] = value
}

// DeleteVar removes a temporary script variable. Returns false if the
// variable was not set.
func (a *Actor) DeleteVar(name string) bool {
	if _, ok := a.Vars[name]; !ok {
		return false
	}
	delete(a.Vars, name)
	return true
}

// Var returns a temporary script variable's value.
func (a *Actor) Var(name string) (string, bool) {
	v, ok := a.Vars[name]
	return v, ok
}

// MessageVars builds the substitution map used in skill and trigger
// narration: %a% is the acting actor's name, %t% the target's, plus the
// actor's own script variables.
func MessageVars(acting, target *Actor) map[string]string {
	vars := make(map[string]string, 4)
	if acting != nil {
		vars["a"] = acting.Name
		for k, v := range acting.Vars {
			vars[k] = v
		}
	}
	if target != nil {
		vars["t"] = target.Name
	}
	return vars
}

// SubstituteVars replaces %name% references in text with values from vars
// and applies the $cap(...) function, which capitalizes the first letter of
// its argument. Unknown variables are left untouched.
func SubstituteVars(text string, vars map[string]string) string {
	out := text
	for name, value := range vars {
		out = strings.ReplaceAll(out, "%"+name+"%", value)
	}
	return applyCap(out)
}

// applyCap resolves $cap(arg) occurrences, uppercasing the first rune of arg.
func applyCap(text string) string {
	const fn = "$cap("
	for {
		start := strings.Index(text, fn)
		if start < 0 {
			return text
		}
		end := strings.Index(text[start:], ")")
		if end < 0 {
			return text
		}
		end += start
		arg := text[start+len(fn) : end]
		text = text[:start] + capitalize(arg) + text[end+1:]
	}
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
