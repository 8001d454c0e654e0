package character

import (
	"errors"
	"fmt"
)

// MaxNameLength is the longest character name the store accepts.
const MaxNameLength = 30

// baseStat is the starting value for Strength, Defense and Intelligence.
const baseStat = 10

// New constructs an unsaved Character for userID with default stats:
// DefaultHitPoints HP and 10 in each of Strength, Defense and Intelligence.
// An empty class defaults to ClassKnight.
//
// Precondition: name must be non-empty and at most MaxNameLength bytes.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func New(userID int64, name string, class Class) (*Character, error) {
	if class == "" {
		class = ClassKnight
	}
	c := &Character{
		UserID:       userID,
		Name:         name,
		Class:        class,
		HitPoints:    DefaultHitPoints,
		Strength:     baseStat,
		Defense:      baseStat,
		Intelligence: baseStat,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the character's persistent-field invariants.
//
// Postcondition: Returns nil iff all fields are valid, otherwise an error naming every violation.
func (c *Character) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(c.Name) > MaxNameLength {
		errs = append(errs, fmt.Errorf("name must be at most %d characters, got %d", MaxNameLength, len(c.Name)))
	}
	if !c.Class.Valid() {
		errs = append(errs, fmt.Errorf("class %q is not one of [knight, mage, cleric]", c.Class))
	}
	if c.Strength < 0 || c.Defense < 0 || c.Intelligence < 0 {
		errs = append(errs, errors.New("strength, defense and intelligence must not be negative"))
	}
	if c.Fights < 0 || c.Victories < 0 || c.Defeats < 0 {
		errs = append(errs, errors.New("fight counters must not be negative"))
	}
	return errors.Join(errs...)
}
