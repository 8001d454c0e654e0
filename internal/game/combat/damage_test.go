package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

func TestComputeDamage_ZeroStatsIsSourceDamage(t *testing.T) {
	assert.Equal(t, 25, combat.ComputeDamage(panicSource{}, 25, 0, 0))
	assert.Equal(t, 25, combat.ComputeDamage(panicSource{}, 25, -3, -1))
}

func TestComputeDamage_DrawOrder(t *testing.T) {
	src := script(3, 2)
	dmg := combat.ComputeDamage(src, 10, 5, 4)
	assert.Equal(t, 11, dmg) // 10 + 3 - 2
	assert.Equal(t, []int{5, 4}, src.calls, "offensive draw precedes defense draw")
}

func TestComputeDamage_MayBeNegative(t *testing.T) {
	dmg := combat.ComputeDamage(script(0, 9), 2, 1, 10)
	assert.Equal(t, -7, dmg)
}

func TestComputeDamage_Property_WithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(0, 200).Draw(rt, "source_damage")
		off := rapid.IntRange(1, 100).Draw(rt, "offensive")
		def := rapid.IntRange(1, 100).Draw(rt, "defense")
		seed := rapid.Uint64().Draw(rt, "seed")

		dmg := combat.ComputeDamage(dice.NewSeededSource(seed, ^seed), base, off, def)

		assert.GreaterOrEqual(rt, dmg, base-(def-1))
		assert.LessOrEqual(rt, dmg, base+(off-1))
	})
}

func TestApplyDamage(t *testing.T) {
	c := &character.Character{HitPoints: 50}
	combat.ApplyDamage(c, 20)
	assert.Equal(t, 30, c.HitPoints)
	combat.ApplyDamage(c, 0)
	assert.Equal(t, 30, c.HitPoints)
	combat.ApplyDamage(c, -15)
	assert.Equal(t, 30, c.HitPoints)
	combat.ApplyDamage(c, 45)
	assert.Equal(t, -15, c.HitPoints, "HitPoints may go negative")
}

func TestApplyDamage_Property_NeverIncreasesHP(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.IntRange(-100, 100).Draw(rt, "hp")
		dmg := rapid.IntRange(-100, 100).Draw(rt, "dmg")
		c := &character.Character{HitPoints: hp}
		combat.ApplyDamage(c, dmg)
		assert.LessOrEqual(rt, c.HitPoints, hp)
		if dmg <= 0 {
			assert.Equal(rt, hp, c.HitPoints)
		}
	})
}

func TestDisplayDamage(t *testing.T) {
	assert.Equal(t, 0, combat.DisplayDamage(-4))
	assert.Equal(t, 0, combat.DisplayDamage(0))
	assert.Equal(t, 12, combat.DisplayDamage(12))
}
