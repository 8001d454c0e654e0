package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// ErrSkillNotFound is returned when a skill lookup yields no results.
var ErrSkillNotFound = character.ErrSkillNotFound

// ErrSkillNameTaken is returned when creating a skill whose name already exists.
var ErrSkillNameTaken = errors.New("skill name already taken")

// EquipWeapon sets the weapon of character w.CharacterID, replacing any weapon
// it already has.
//
// Precondition: w.CharacterID must reference an existing character; w.Name must be non-empty.
// Postcondition: Returns the stored weapon with ID set, or ErrCharacterNotFound.
func (r *CharacterRepository) EquipWeapon(ctx context.Context, w character.Weapon) (*character.Weapon, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("weapon name must not be empty")
	}
	out := character.Weapon{CharacterID: w.CharacterID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO weapons (character_id, name, damage)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id) DO UPDATE
			SET name = EXCLUDED.name, damage = EXCLUDED.damage
		RETURNING id, name, damage`,
		w.CharacterID, w.Name, w.Damage,
	).Scan(&out.ID, &out.Name, &out.Damage)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("equipping weapon: %w", err)
	}
	return &out, nil
}

// RemoveWeapon unequips the weapon of character characterID. Removing when none
// is equipped is a no-op.
func (r *CharacterRepository) RemoveWeapon(ctx context.Context, characterID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM weapons WHERE character_id = $1`, characterID); err != nil {
		return fmt.Errorf("removing weapon: %w", err)
	}
	return nil
}

// CreateSkill adds a skill to the catalog.
//
// Postcondition: Returns the skill with ID set, or ErrSkillNameTaken on duplicate name.
func (r *CharacterRepository) CreateSkill(ctx context.Context, name string, damage int) (*character.Skill, error) {
	if name == "" {
		return nil, fmt.Errorf("skill name must not be empty")
	}
	var s character.Skill
	err := r.db.QueryRow(ctx, `
		INSERT INTO skills (name, damage) VALUES ($1, $2)
		RETURNING id, name, damage`,
		name, damage,
	).Scan(&s.ID, &s.Name, &s.Damage)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrSkillNameTaken
		}
		return nil, fmt.Errorf("inserting skill: %w", err)
	}
	return &s, nil
}

// SkillByName looks up a catalog skill by its unique name.
//
// Postcondition: Returns the skill or ErrSkillNotFound.
func (r *CharacterRepository) SkillByName(ctx context.Context, name string) (*character.Skill, error) {
	var s character.Skill
	err := r.db.QueryRow(ctx, `SELECT id, name, damage FROM skills WHERE name = $1`, name).
		Scan(&s.ID, &s.Name, &s.Damage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("querying skill: %w", err)
	}
	return &s, nil
}

// LearnSkill teaches skillID to characterID. Learning a skill twice is a no-op.
//
// Postcondition: Returns nil, or ErrCharacterNotFound / ErrSkillNotFound when either side is missing.
func (r *CharacterRepository) LearnSkill(ctx context.Context, characterID, skillID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO character_skills (character_id, skill_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		characterID, skillID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return missingSide(err)
		}
		return fmt.Errorf("learning skill: %w", err)
	}
	return nil
}

// ForgetSkill removes skillID from characterID's learned skills.
func (r *CharacterRepository) ForgetSkill(ctx context.Context, characterID, skillID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM character_skills WHERE character_id = $1 AND skill_id = $2`,
		characterID, skillID,
	)
	if err != nil {
		return fmt.Errorf("forgetting skill: %w", err)
	}
	return nil
}

// isForeignKeyError checks for SQLSTATE 23503 (foreign_key_violation).
func isForeignKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}
	return false
}

// missingSide maps a character_skills foreign key violation onto the missing entity.
func missingSide(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "character_skills_skill_id_fkey" {
		return ErrSkillNotFound
	}
	return ErrCharacterNotFound
}
