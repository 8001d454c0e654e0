// Package character defines the arena character domain model.
package character

import (
	"errors"
	"time"
)

// DefaultHitPoints is the HitPoints value a character starts with and is reset
// to after every battle.
const DefaultHitPoints = 100

// Class is a character's RPG class.
type Class string

const (
	ClassKnight Class = "knight"
	ClassMage   Class = "mage"
	ClassCleric Class = "cleric"
)

// Valid reports whether c is a recognised class.
func (c Class) Valid() bool {
	switch c {
	case ClassKnight, ClassMage, ClassCleric:
		return true
	}
	return false
}

// Weapon is the single weapon a character may have equipped.
type Weapon struct {
	ID          int64
	CharacterID int64
	Name        string
	Damage      int
}

// Skill is a catalog entry a character may have learned.
type Skill struct {
	ID     int64
	Name   string
	Damage int
}

// Character represents a fighter's persistent state.
//
// UserID references the owning account; ownership is enforced by the store.
// Weapon and Skills are owned by the character and never shared with another
// character value.
//
// Invariant: Fights, Victories and Defeats never decrease. HitPoints may be
// negative while a battle is being resolved.
type Character struct {
	ID     int64
	UserID int64

	Name         string
	Class        Class
	HitPoints    int
	Strength     int
	Defense      int
	Intelligence int

	Weapon *Weapon
	Skills []Skill

	Fights    int
	Victories int
	Defeats   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasWeapon reports whether the character has a usable weapon equipped.
//
// Postcondition: Returns true iff Weapon is non-nil with a non-empty Name.
func (c *Character) HasWeapon() bool {
	return c.Weapon != nil && c.Weapon.Name != ""
}

// KnownSkill returns the learned skill with the given catalog ID.
//
// Postcondition: Returns (skill, true) if learned, or (Skill{}, false) otherwise.
func (c *Character) KnownSkill(skillID int64) (Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == skillID {
			return s, true
		}
	}
	return Skill{}, false
}

// IsDefeated reports whether the character is at or below zero HitPoints.
func (c *Character) IsDefeated() bool {
	return c.HitPoints <= 0
}

// Clone returns a deep copy of c, including its weapon and skills.
//
// Postcondition: Mutating the copy never affects c.
func (c *Character) Clone() *Character {
	out := *c
	if c.Weapon != nil {
		w := *c.Weapon
		out.Weapon = &w
	}
	if c.Skills != nil {
		out.Skills = make([]Skill, len(c.Skills))
		copy(out.Skills, c.Skills)
	}
	return &out
}

// HighScore is the read-only leaderboard projection of a character.
type HighScore struct {
	ID        int64
	Name      string
	Fights    int
	Victories int
	Defeats   int
}

// ToHighScore projects c onto its leaderboard entry.
func (c *Character) ToHighScore() HighScore {
	return HighScore{
		ID:        c.ID,
		Name:      c.Name,
		Fights:    c.Fights,
		Victories: c.Victories,
		Defeats:   c.Defeats,
	}
}

// ErrNotFound is returned by character stores when a lookup yields no character.
var ErrNotFound = errors.New("character not found")

// ErrSkillNotFound is returned by character stores when a skill lookup yields no skill.
var ErrSkillNotFound = errors.New("skill not found")
