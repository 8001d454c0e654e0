// Package importer seeds a character store from roster files: the skill
// catalog, characters, their weapons, and the skills they have learned.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// Store is the write side of a character store the importer needs.
type Store interface {
	CreateSkill(ctx context.Context, name string, damage int) (*character.Skill, error)
	SkillByName(ctx context.Context, name string) (*character.Skill, error)
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	EquipWeapon(ctx context.Context, w character.Weapon) (*character.Weapon, error)
	LearnSkill(ctx context.Context, characterID, skillID int64) error
}

// Summary counts what one import run wrote.
type Summary struct {
	SkillsCreated int
	SkillsReused  int
	Characters    int
	Weapons       int
	SkillsLearned int
	CharacterIDs  []int64
}

// Importer orchestrates a roster import from a Source into a Store.
type Importer struct {
	source Source
	store  Store
	out    io.Writer
}

// New constructs an Importer. Progress lines are written to out.
//
// Precondition: source, store and out must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, store Store, out io.Writer) *Importer {
	return &Importer{source: source, store: store, out: out}
}

// Run loads the roster at path and writes it to the store: skills first
// (reusing any catalog skill with the same name), then each character with
// its weapon and learned skills.
//
// Precondition: path must satisfy the source's layout requirements.
// Postcondition: Returns a Summary of what was written, or an error naming the
// first entry that failed. Entries written before the failure are kept.
func (imp *Importer) Run(ctx context.Context, path string) (*Summary, error) {
	overall := time.Now()

	t0 := time.Now()
	roster, err := imp.source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	fmt.Fprintf(imp.out, "load    %d skill(s), %d character(s) in %s\n",
		len(roster.Skills), len(roster.Characters), time.Since(t0).Round(time.Millisecond))

	sum := &Summary{}
	skillIDs := make(map[string]int64, len(roster.Skills))
	for _, def := range roster.Skills {
		s, created, err := imp.ensureSkill(ctx, def)
		if err != nil {
			return sum, fmt.Errorf("skill %q: %w", def.Name, err)
		}
		skillIDs[def.Name] = s.ID
		if created {
			sum.SkillsCreated++
		} else {
			sum.SkillsReused++
		}
	}

	for _, entry := range roster.Characters {
		t1 := time.Now()
		c, err := imp.importCharacter(ctx, entry, skillIDs, sum)
		if err != nil {
			return sum, fmt.Errorf("character %q: %w", entry.Name, err)
		}
		fmt.Fprintf(imp.out, "wrote   %s (id %d, %s)  in %s\n",
			c.Name, c.ID, c.Class, time.Since(t1).Round(time.Millisecond))
	}

	fmt.Fprintf(imp.out, "total   %s\n", time.Since(overall).Round(time.Millisecond))
	return sum, nil
}

func (imp *Importer) ensureSkill(ctx context.Context, def character.SkillDef) (*character.Skill, bool, error) {
	existing, err := imp.store.SkillByName(ctx, def.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, character.ErrSkillNotFound) {
		return nil, false, err
	}
	s, err := imp.store.CreateSkill(ctx, def.Name, def.Damage)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (imp *Importer) importCharacter(ctx context.Context, entry character.RosterEntry, skillIDs map[string]int64, sum *Summary) (*character.Character, error) {
	c, err := entry.Build()
	if err != nil {
		return nil, err
	}
	created, err := imp.store.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	sum.Characters++
	sum.CharacterIDs = append(sum.CharacterIDs, created.ID)

	if entry.Weapon != nil {
		if _, err := imp.store.EquipWeapon(ctx, character.Weapon{
			CharacterID: created.ID,
			Name:        entry.Weapon.Name,
			Damage:      entry.Weapon.Damage,
		}); err != nil {
			return nil, fmt.Errorf("equipping %q: %w", entry.Weapon.Name, err)
		}
		sum.Weapons++
	}
	for _, name := range entry.Skills {
		id, ok := skillIDs[name]
		if !ok {
			return nil, fmt.Errorf("unknown skill %q", name)
		}
		if err := imp.store.LearnSkill(ctx, created.ID, id); err != nil {
			return nil, fmt.Errorf("learning %q: %w", name, err)
		}
		sum.SkillsLearned++
	}
	return created, nil
}
