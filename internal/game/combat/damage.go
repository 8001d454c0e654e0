package combat

import (
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// ComputeDamage rolls the damage of one attack.
//
//	raw    = sourceDamage + draw(offensiveStat)
//	damage = raw - draw(targetDefense)
//
// where draw(n) is uniform in [0, n) and 0 when n <= 0. The offensive draw is
// taken before the defense draw. The result is not clamped and may be negative.
//
// Precondition: src must be non-nil.
// Postcondition: sourceDamage-(targetDefense-1) <= result <= sourceDamage+(offensiveStat-1)
// when both stats are positive; result == sourceDamage when both are zero.
func ComputeDamage(src Source, sourceDamage, offensiveStat, targetDefense int) int {
	raw := sourceDamage + dice.Draw(src, offensiveStat)
	return raw - dice.Draw(src, targetDefense)
}

// ApplyDamage lowers target's HitPoints by damage when damage is positive.
//
// Postcondition: HitPoints never increase; unchanged when damage <= 0.
func ApplyDamage(target *character.Character, damage int) {
	if damage > 0 {
		target.HitPoints -= damage
	}
}

// DisplayDamage returns the damage figure shown in a battle log: never below zero.
func DisplayDamage(damage int) int {
	if damage < 0 {
		return 0
	}
	return damage
}
