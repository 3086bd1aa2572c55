// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package skill

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/mudforge/mudforge/internal/actor"
)

// safeLibrary is a Lua library safe to load in a sandboxed state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// Safe: base, table, string, math. Blocked: os, io, debug, package.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions lists base library functions blocked because they read
// the filesystem.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// ScriptRunner executes skill effect scripts in fresh sandboxed Lua states.
// Scripts run synchronously on the engine loop thread during resolution, so
// they see and mutate world state without races.
type ScriptRunner struct {
	baseDir   string
	libraries []safeLibrary
}

// NewScriptRunner creates a runner resolving script paths against baseDir,
// with the default safe libraries.
func NewScriptRunner(baseDir string) *ScriptRunner {
	return &ScriptRunner{
		baseDir:   baseDir,
		libraries: defaultSafeLibraries(),
	}
}

// Run executes the definition's script for one successful resolution. The
// script sees `caster` and `target` tables and a small host API:
//
//	apply_state(who, kind, duration, magnitude)
//	drain(who, amount)
//	restore(who, amount)
//	echo(who, text)
//
// where who is "caster" or "target".
func (r *ScriptRunner) Run(inv *Invocation) error {
	L, err := r.newState()
	if err != nil {
		return ErrScript(inv.Def.ID, inv.Def.Script, err)
	}
	defer L.Close()

	L.SetGlobal("caster", actorTable(L, inv.Caster))
	L.SetGlobal("target", actorTable(L, inv.Target))
	L.SetGlobal("magnitude", lua.LNumber(inv.Def.EffectMagnitude))
	L.SetGlobal("duration", lua.LNumber(inv.Def.EffectDurationTicks))
	L.SetGlobal("apply_state", L.NewFunction(hostApplyState(inv)))
	L.SetGlobal("drain", L.NewFunction(hostDrain(inv)))
	L.SetGlobal("restore", L.NewFunction(hostRestore(inv)))
	L.SetGlobal("echo", L.NewFunction(hostEcho(inv)))

	path := filepath.Join(r.baseDir, inv.Def.Script)
	if err := L.DoFile(path); err != nil {
		return ErrScript(inv.Def.ID, inv.Def.Script, err)
	}
	return nil
}

func (r *ScriptRunner) newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	for _, lib := range r.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, err
		}
	}
	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}
	return L, nil
}

// actorTable exposes a read-only view of an actor to the script.
func actorTable(L *lua.LState, a *actor.Actor) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(a.ID.String()))
	L.SetField(t, "name", lua.LString(a.Name))
	L.SetField(t, "stamina", lua.LNumber(a.Stamina))
	L.SetField(t, "max_stamina", lua.LNumber(a.MaxStamina))
	L.SetField(t, "mana", lua.LNumber(a.Mana))
	L.SetField(t, "max_mana", lua.LNumber(a.MaxMana))
	return t
}

// resolveWho maps the script's "caster"/"target" argument to an actor.
func resolveWho(inv *Invocation, who string) *actor.Actor {
	if who == "target" {
		return inv.Target
	}
	return inv.Caster
}

func hostApplyState(inv *Invocation) lua.LGFunction {
	return func(L *lua.LState) int {
		who := L.CheckString(1)
		kind := L.CheckString(2)
		duration := L.CheckInt64(3)
		magnitude := L.CheckInt(4)
		resolveWho(inv, who).ApplyState(&actor.StateEffect{
			Kind:          actor.EffectKind(kind),
			SourceID:      inv.Caster.ID,
			CreatedTick:   inv.Now,
			DurationTicks: duration,
			Magnitude:     magnitude,
		})
		return 0
	}
}

func hostDrain(inv *Invocation) lua.LGFunction {
	return func(L *lua.LState) int {
		a := resolveWho(inv, L.CheckString(1))
		a.Stamina -= L.CheckInt(2)
		if a.Stamina < 0 {
			a.Stamina = 0
		}
		return 0
	}
}

func hostRestore(inv *Invocation) lua.LGFunction {
	return func(L *lua.LState) int {
		a := resolveWho(inv, L.CheckString(1))
		amount := L.CheckInt(2)
		a.Stamina += amount
		if a.Stamina > a.MaxStamina {
			a.Stamina = a.MaxStamina
		}
		a.Mana += amount
		if a.Mana > a.MaxMana {
			a.Mana = a.MaxMana
		}
		return 0
	}
}

func hostEcho(inv *Invocation) lua.LGFunction {
	return func(L *lua.LState) int {
		a := resolveWho(inv, L.CheckString(1))
		a.SendText(actor.ChannelDynamic, L.CheckString(2))
		return 0
	}
}
