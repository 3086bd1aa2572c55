// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package actor

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCooldownLastWins(t *testing.T) {
	a := New(ulid.Make(), KindCharacter, "Tester")
	src := ulid.Make()

	first := a.StartCooldown("fireball", src, 10, 20)
	assert.Equal(t, int64(30), first.EndTick)
	require.Len(t, a.Cooldowns(), 1)

	// Restarting under the same name replaces the entry.
	second := a.StartCooldown("fireball", src, 15, 5)
	require.Len(t, a.Cooldowns(), 1)
	assert.Same(t, second, a.Cooldown("fireball"))
	assert.Equal(t, int64(20), a.Cooldown("fireball").EndTick)

	a.StartCooldown("shield", src, 15, 10)
	assert.Len(t, a.Cooldowns(), 2)
}

func TestCooldownActive(t *testing.T) {
	a := New(ulid.Make(), KindCharacter, "Tester")
	a.StartCooldown("fireball", ulid.Make(), 10, 5)

	assert.True(t, a.CooldownActive("fireball", 10))
	assert.True(t, a.CooldownActive("fireball", 14))
	assert.False(t, a.CooldownActive("fireball", 15), "ends at its end tick")
	assert.False(t, a.CooldownActive("missing", 10))
}

func TestTicksRemaining(t *testing.T) {
	cd := &Cooldown{StartTick: 10, EndTick: 20}

	assert.Equal(t, int64(10), cd.TicksRemaining(10))
	assert.Equal(t, int64(1), cd.TicksRemaining(19))
	assert.Equal(t, int64(0), cd.TicksRemaining(20))
	assert.Equal(t, int64(0), cd.TicksRemaining(100), "clamped to zero")
}

func TestSweepExpiredRunsOnExpireOnce(t *testing.T) {
	a := New(ulid.Make(), KindCharacter, "Tester")

	fired := 0
	cd := a.StartCooldown("fireball", ulid.Make(), 0, 5)
	cd.OnExpire = func(c *Cooldown) {
		fired++
		// The ledger no longer contains the cooldown when the callback runs.
		assert.Nil(t, a.Cooldown("fireball"))
		assert.Equal(t, "fireball", c.Name)
	}

	_, finished := a.SweepExpired(4)
	assert.Empty(t, finished)
	assert.Equal(t, 0, fired)

	_, finished = a.SweepExpired(5)
	require.Len(t, finished, 1)
	assert.Equal(t, 1, fired)

	// A second sweep never re-fires.
	_, finished = a.SweepExpired(6)
	assert.Empty(t, finished)
	assert.Equal(t, 1, fired)
}
