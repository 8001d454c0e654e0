// Package combat implements the arena combat engine: the damage model, single
// exchanges, and the round-battle and deathmatch protocols.
package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// Source is the subset of dice.Source used by the engine.
type Source = dice.Source

var (
	// ErrAlreadyDefeated is matched by both ErrAttackerDefeated and ErrOpponentDefeated.
	ErrAlreadyDefeated = errors.New("already defeated")
	// ErrAttackerDefeated is returned when the attacker has no HitPoints left.
	ErrAttackerDefeated = fmt.Errorf("attacker %w", ErrAlreadyDefeated)
	// ErrOpponentDefeated is returned when the opponent has no HitPoints left.
	ErrOpponentDefeated = fmt.Errorf("opponent %w", ErrAlreadyDefeated)
	// ErrNotEnoughParticipants is returned when a battle has too few fighters to run.
	ErrNotEnoughParticipants = errors.New("not enough participants")
	// ErrStalled is returned when a battle exceeds its pass limit without ending.
	ErrStalled = errors.New("battle stalled")
)

// SourceKind distinguishes weapon attacks from skill attacks.
type SourceKind int

const (
	SourceWeapon SourceKind = iota
	SourceSkill
)

// String returns a human-readable kind label.
func (k SourceKind) String() string {
	switch k {
	case SourceWeapon:
		return "weapon"
	case SourceSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// AttackSource is what an attack is made with: the attacker's weapon or one of its skills.
type AttackSource struct {
	Kind   SourceKind
	Name   string
	Damage int
}

// WeaponSource builds the AttackSource for w.
//
// Precondition: w must be non-nil.
func WeaponSource(w *character.Weapon) AttackSource {
	return AttackSource{Kind: SourceWeapon, Name: w.Name, Damage: w.Damage}
}

// SkillSource builds the AttackSource for s.
func SkillSource(s character.Skill) AttackSource {
	return AttackSource{Kind: SourceSkill, Name: s.Name, Damage: s.Damage}
}

// OffensiveStat returns the attacker stat that scales this source:
// Strength for weapons, Intelligence for skills.
func (a AttackSource) OffensiveStat(attacker *character.Character) int {
	if a.Kind == SourceSkill {
		return attacker.Intelligence
	}
	return attacker.Strength
}

// CheckCanFight verifies neither side of a single exchange is already defeated.
//
// Postcondition: Returns ErrAttackerDefeated, ErrOpponentDefeated, or nil.
func CheckCanFight(attacker, opponent *character.Character) error {
	if attacker.IsDefeated() {
		return ErrAttackerDefeated
	}
	if opponent.IsDefeated() {
		return ErrOpponentDefeated
	}
	return nil
}
