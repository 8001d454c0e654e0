package character

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Roster is a set of skills and characters to seed into a store.
type Roster struct {
	Skills     []SkillDef
	Characters []RosterEntry
}

// SkillDef is a skill catalog entry in a roster file.
type SkillDef struct {
	Name   string `yaml:"name"`
	Damage int    `yaml:"damage"`
}

// WeaponDef is the weapon a roster character starts with.
type WeaponDef struct {
	Name   string `yaml:"name"`
	Damage int    `yaml:"damage"`
}

// RosterEntry describes one character in a roster file. Skills reference
// SkillDef entries by name.
type RosterEntry struct {
	UserID       int64      `yaml:"user_id"`
	Name         string     `yaml:"name"`
	Class        Class      `yaml:"class"`
	HitPoints    int        `yaml:"hit_points"`
	Strength     int        `yaml:"strength"`
	Defense      int        `yaml:"defense"`
	Intelligence int        `yaml:"intelligence"`
	Weapon       *WeaponDef `yaml:"weapon"`
	Skills       []string   `yaml:"skills"`
}

type yamlRoster struct {
	Skills     []SkillDef    `yaml:"skills"`
	Characters []RosterEntry `yaml:"characters"`
}

// Build returns the unsaved Character described by e. Zero stats fall back to
// the New defaults.
//
// Postcondition: Returns a validated Character or a non-nil error.
func (e RosterEntry) Build() (*Character, error) {
	c, err := New(e.UserID, e.Name, e.Class)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", e.Name, err)
	}
	if e.HitPoints != 0 {
		c.HitPoints = e.HitPoints
	}
	if e.Strength != 0 {
		c.Strength = e.Strength
	}
	if e.Defense != 0 {
		c.Defense = e.Defense
	}
	if e.Intelligence != 0 {
		c.Intelligence = e.Intelligence
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("character %q: %w", e.Name, err)
	}
	return c, nil
}

// Validate checks cross references and per-entry invariants.
//
// Postcondition: Returns nil iff every skill name is unique, every character
// builds, and every referenced skill exists.
func (r *Roster) Validate() error {
	var errs []error
	skills := make(map[string]bool, len(r.Skills))
	for _, s := range r.Skills {
		if s.Name == "" {
			errs = append(errs, errors.New("skill name must not be empty"))
			continue
		}
		if skills[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate skill %q", s.Name))
		}
		skills[s.Name] = true
	}
	for _, e := range r.Characters {
		if _, err := e.Build(); err != nil {
			errs = append(errs, err)
		}
		if e.Weapon != nil && e.Weapon.Name == "" {
			errs = append(errs, fmt.Errorf("character %q: weapon name must not be empty", e.Name))
		}
		for _, name := range e.Skills {
			if !skills[name] {
				errs = append(errs, fmt.Errorf("character %q: unknown skill %q", e.Name, name))
			}
		}
	}
	return errors.Join(errs...)
}

// LoadRosterFromFile reads and validates a roster YAML file.
//
// Precondition: path must point to a roster YAML file.
// Postcondition: Returns a validated Roster or a non-nil error.
func LoadRosterFromFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file %s: %w", path, err)
	}
	return LoadRosterFromBytes(data)
}

// LoadRosterFromBytes parses and validates a roster from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the roster schema.
// Postcondition: Returns a validated Roster or a non-nil error.
func LoadRosterFromBytes(data []byte) (*Roster, error) {
	r, err := ParseRoster(data)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validating roster: %w", err)
	}
	return r, nil
}

// ParseRoster decodes roster YAML without validating it, so fragments split
// across files can be merged before validation.
func ParseRoster(data []byte) (*Roster, error) {
	var file yamlRoster
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	return &Roster{Skills: file.Skills, Characters: file.Characters}, nil
}
