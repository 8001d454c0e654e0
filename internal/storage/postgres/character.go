package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = character.ErrNotFound

// ErrCharacterNameTaken is returned when creating a character with a name already used by the user.
var ErrCharacterNameTaken = errors.New("character name already taken")

const characterColumns = `
	c.id, c.user_id, c.name, c.class, c.hit_points, c.strength, c.defense, c.intelligence,
	c.fights, c.victories, c.defeats, c.created_at, c.updated_at`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass c.Validate().
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid character: %w", err)
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters AS c
			(user_id, name, class, hit_points, strength, defense, intelligence,
			 fights, victories, defeats)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING`+characterColumns,
		c.UserID, c.Name, string(c.Class), c.HitPoints, c.Strength, c.Defense, c.Intelligence,
		c.Fights, c.Victories, c.Defeats,
	)
	out, err := scanCharacter(row, nil)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key without its weapon or skills.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT`+characterColumns+` FROM characters c WHERE c.id = $1`, id)
	c, err := scanCharacter(row, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// LoadOwnedWithWeapon retrieves character id owned by userID with its weapon attached.
//
// Postcondition: Returns the Character or ErrCharacterNotFound when absent or owned by another user.
func (r *CharacterRepository) LoadOwnedWithWeapon(ctx context.Context, id, userID int64) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+characterColumns+`, w.id, w.name, w.damage
		FROM characters c
		LEFT JOIN weapons w ON w.character_id = c.id
		WHERE c.id = $1 AND c.user_id = $2`,
		id, userID,
	)
	var w nullableWeapon
	c, err := scanCharacter(row, &w)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character with weapon: %w", err)
	}
	c.Weapon = w.weapon(c.ID)
	return c, nil
}

// LoadOwnedWithSkills retrieves character id owned by userID with its learned skills attached.
//
// Postcondition: Returns the Character or ErrCharacterNotFound when absent or owned by another user.
func (r *CharacterRepository) LoadOwnedWithSkills(ctx context.Context, id, userID int64) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT`+characterColumns+` FROM characters c WHERE c.id = $1 AND c.user_id = $2`, id, userID)
	c, err := scanCharacter(row, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character with skills: %w", err)
	}
	skills, err := r.skillsFor(ctx, []int64{c.ID})
	if err != nil {
		return nil, err
	}
	c.Skills = skills[c.ID]
	return c, nil
}

// LoadWithWeaponAndSkills retrieves the characters named by ids, ordered by ID,
// each with its weapon and skills attached. Unknown ids are skipped.
//
// Postcondition: Returns a slice (may be shorter than ids, may be empty) or a non-nil error.
func (r *CharacterRepository) LoadWithWeaponAndSkills(ctx context.Context, ids []int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+characterColumns+`, w.id, w.name, w.damage
		FROM characters c
		LEFT JOIN weapons w ON w.character_id = c.id
		WHERE c.id = ANY($1)
		ORDER BY c.id ASC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0, len(ids))
	for rows.Next() {
		var w nullableWeapon
		c, err := scanCharacter(rows, &w)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		c.Weapon = w.weapon(c.ID)
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating characters: %w", err)
	}

	skills, err := r.skillsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range chars {
		c.Skills = skills[c.ID]
	}
	return chars, nil
}

// SaveHitPoints persists a character's HitPoints after a single exchange.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveHitPoints(ctx context.Context, id int64, hitPoints int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET hit_points = $2, updated_at = NOW()
		WHERE id = $1`,
		id, hitPoints,
	)
	if err != nil {
		return fmt.Errorf("saving hit points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// CommitBatch persists HitPoints and fight counters of every character in one
// transaction and reports the number of rows changed.
//
// Postcondition: Either every update is committed and the count is returned,
// or nothing is committed and a non-nil error is returned.
func (r *CharacterRepository) CommitBatch(ctx context.Context, chars []*character.Character) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning commit: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, c := range chars {
		batch.Queue(`
			UPDATE characters
			SET hit_points = $2, fights = $3, victories = $4, defeats = $5, updated_at = NOW()
			WHERE id = $1`,
			c.ID, c.HitPoints, c.Fights, c.Victories, c.Defeats,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var changed int64
	for range chars {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("updating character: %w", err)
		}
		changed += tag.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return changed, nil
}

// Highscores returns every character that has fought, best first: Victories
// descending, then Defeats ascending, then ID ascending.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) Highscores(ctx context.Context) ([]character.HighScore, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, fights, victories, defeats
		FROM characters
		WHERE fights > 0
		ORDER BY victories DESC, defeats ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying highscores: %w", err)
	}
	defer rows.Close()

	scores := make([]character.HighScore, 0)
	for rows.Next() {
		var h character.HighScore
		if err := rows.Scan(&h.ID, &h.Name, &h.Fights, &h.Victories, &h.Defeats); err != nil {
			return nil, fmt.Errorf("scanning highscore row: %w", err)
		}
		scores = append(scores, h)
	}
	return scores, rows.Err()
}

// skillsFor returns the learned skills of the given characters keyed by character ID,
// each list ordered by skill ID.
func (r *CharacterRepository) skillsFor(ctx context.Context, ids []int64) (map[int64][]character.Skill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cs.character_id, s.id, s.name, s.damage
		FROM character_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.character_id = ANY($1)
		ORDER BY cs.character_id ASC, s.id ASC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]character.Skill)
	for rows.Next() {
		var charID int64
		var s character.Skill
		if err := rows.Scan(&charID, &s.ID, &s.Name, &s.Damage); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		out[charID] = append(out[charID], s)
	}
	return out, rows.Err()
}

// nullableWeapon receives the LEFT JOINed weapon columns.
type nullableWeapon struct {
	id     *int64
	name   *string
	damage *int
}

func (w nullableWeapon) weapon(characterID int64) *character.Weapon {
	if w.id == nil {
		return nil
	}
	out := &character.Weapon{ID: *w.id, CharacterID: characterID}
	if w.name != nil {
		out.Name = *w.name
	}
	if w.damage != nil {
		out.Damage = *w.damage
	}
	return out
}

// scanCharacter scans characterColumns, followed by the weapon columns when w is non-nil.
func scanCharacter(row pgx.Row, w *nullableWeapon) (*character.Character, error) {
	var c character.Character
	var class string
	dest := []any{
		&c.ID, &c.UserID, &c.Name, &class, &c.HitPoints, &c.Strength, &c.Defense, &c.Intelligence,
		&c.Fights, &c.Victories, &c.Defeats, &c.CreatedAt, &c.UpdatedAt,
	}
	if w != nil {
		dest = append(dest, &w.id, &w.name, &w.damage)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.Class = character.Class(class)
	return &c, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
