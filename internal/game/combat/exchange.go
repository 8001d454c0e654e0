package combat

import "github.com/cory-johannsen/arena/internal/game/character"

// Outcome is the result of one exchange.
type Outcome struct {
	Attacker   string
	AttackerHP int
	Opponent   string
	OpponentHP int
	// Source names the weapon or skill used.
	Source string
	// Damage is the raw computed damage; it may be zero or negative, in which
	// case OpponentHP did not change.
	Damage int
	// Defeated reports whether the opponent is at or below zero HitPoints after the hit.
	Defeated bool
}

// ResolveAttack performs one attack by attacker on opponent using source and
// applies the resulting damage to opponent.
//
// Defeat preconditions are not checked here; callers that need them use CheckCanFight.
//
// Precondition: attacker and opponent must be non-nil; src must be non-nil.
// Postcondition: opponent.HitPoints decreased by Damage iff Damage > 0.
func ResolveAttack(attacker, opponent *character.Character, source AttackSource, src Source) Outcome {
	dmg := ComputeDamage(src, source.Damage, source.OffensiveStat(attacker), opponent.Defense)
	ApplyDamage(opponent, dmg)
	return Outcome{
		Attacker:   attacker.Name,
		AttackerHP: attacker.HitPoints,
		Opponent:   opponent.Name,
		OpponentHP: opponent.HitPoints,
		Source:     source.Name,
		Damage:     dmg,
		Defeated:   opponent.IsDefeated(),
	}
}
