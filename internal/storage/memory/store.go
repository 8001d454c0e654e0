// Package memory provides an in-process character store with the same
// contract as the PostgreSQL repository. It backs standalone CLI runs and
// handler tests.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// ErrNameTaken is returned when a user already owns a character with the same name,
// or a skill with the same name already exists.
var ErrNameTaken = errors.New("name already taken")

// Store holds characters, weapons, the skill catalog and learned skills in memory.
// Every read returns deep copies; callers never alias stored state.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	chars   map[int64]*character.Character
	skills  map[int64]character.Skill
	learned map[int64][]int64 // character ID → skill IDs, ascending
	now     func() time.Time
}

// NewStore creates an empty Store.
//
// Postcondition: Returns a non-nil Store ready for use.
func NewStore() *Store {
	return &Store{
		chars:   make(map[int64]*character.Character),
		skills:  make(map[int64]character.Skill),
		learned: make(map[int64][]int64),
		now:     time.Now,
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Create stores a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass c.Validate().
// Postcondition: Returns a copy of the stored character, or ErrNameTaken.
func (s *Store) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid character: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.chars {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return nil, ErrNameTaken
		}
	}
	stored := c.Clone()
	stored.ID = s.allocID()
	stored.Weapon = nil
	stored.Skills = nil
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.chars[stored.ID] = stored
	return stored.Clone(), nil
}

// GetByID returns character id without its weapon or skills.
//
// Postcondition: Returns a copy or character.ErrNotFound.
func (s *Store) GetByID(_ context.Context, id int64) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[id]
	if !ok {
		return nil, character.ErrNotFound
	}
	out := c.Clone()
	out.Weapon = nil
	return out, nil
}

// LoadOwnedWithWeapon returns character id owned by userID with its weapon attached.
//
// Postcondition: Returns a copy or character.ErrNotFound.
func (s *Store) LoadOwnedWithWeapon(_ context.Context, id, userID int64) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[id]
	if !ok || c.UserID != userID {
		return nil, character.ErrNotFound
	}
	return c.Clone(), nil
}

// LoadOwnedWithSkills returns character id owned by userID with its learned skills attached.
//
// Postcondition: Returns a copy or character.ErrNotFound.
func (s *Store) LoadOwnedWithSkills(_ context.Context, id, userID int64) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[id]
	if !ok || c.UserID != userID {
		return nil, character.ErrNotFound
	}
	out := c.Clone()
	out.Weapon = nil
	out.Skills = s.skillsForLocked(id)
	return out, nil
}

// LoadWithWeaponAndSkills returns the characters named by ids, ordered by ID, each
// with weapon and skills attached. Unknown ids are skipped.
//
// Postcondition: Returns copies (possibly fewer than ids, possibly none).
func (s *Store) LoadWithWeaponAndSkills(_ context.Context, ids []int64) ([]*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*character.Character, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		c, ok := s.chars[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		cp := c.Clone()
		cp.Skills = s.skillsForLocked(id)
		out = append(out, cp)
	}
	slices.SortFunc(out, func(a, b *character.Character) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// SaveHitPoints persists a character's HitPoints.
//
// Postcondition: Returns nil or character.ErrNotFound.
func (s *Store) SaveHitPoints(_ context.Context, id int64, hitPoints int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chars[id]
	if !ok {
		return character.ErrNotFound
	}
	c.HitPoints = hitPoints
	c.UpdatedAt = s.now()
	return nil
}

// CommitBatch persists HitPoints and fight counters of every known character in
// one step and reports how many were changed. Unknown ids are ignored.
func (s *Store) CommitBatch(_ context.Context, chars []*character.Character) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	now := s.now()
	for _, in := range chars {
		c, ok := s.chars[in.ID]
		if !ok {
			continue
		}
		c.HitPoints = in.HitPoints
		c.Fights = in.Fights
		c.Victories = in.Victories
		c.Defeats = in.Defeats
		c.UpdatedAt = now
		changed++
	}
	return changed, nil
}

// Highscores returns every character that has fought: Victories descending,
// then Defeats ascending, then ID ascending.
func (s *Store) Highscores(_ context.Context) ([]character.HighScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make([]character.HighScore, 0, len(s.chars))
	for _, c := range s.chars {
		if c.Fights > 0 {
			scores = append(scores, c.ToHighScore())
		}
	}
	slices.SortFunc(scores, func(a, b character.HighScore) int {
		return cmp.Or(
			cmp.Compare(b.Victories, a.Victories),
			cmp.Compare(a.Defeats, b.Defeats),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return scores, nil
}

// EquipWeapon sets the weapon of character w.CharacterID, replacing any existing one.
//
// Postcondition: Returns the stored weapon with ID set, or character.ErrNotFound.
func (s *Store) EquipWeapon(_ context.Context, w character.Weapon) (*character.Weapon, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("weapon name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chars[w.CharacterID]
	if !ok {
		return nil, character.ErrNotFound
	}
	if c.Weapon != nil {
		w.ID = c.Weapon.ID
	} else {
		w.ID = s.allocID()
	}
	c.Weapon = &w
	out := w
	return &out, nil
}

// RemoveWeapon unequips character characterID's weapon. A no-op when none is equipped.
func (s *Store) RemoveWeapon(_ context.Context, characterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chars[characterID]; ok {
		c.Weapon = nil
	}
	return nil
}

// CreateSkill adds a skill to the catalog.
//
// Postcondition: Returns the skill with ID set, or ErrNameTaken.
func (s *Store) CreateSkill(_ context.Context, name string, damage int) (*character.Skill, error) {
	if name == "" {
		return nil, fmt.Errorf("skill name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sk := range s.skills {
		if sk.Name == name {
			return nil, ErrNameTaken
		}
	}
	sk := character.Skill{ID: s.allocID(), Name: name, Damage: damage}
	s.skills[sk.ID] = sk
	return &sk, nil
}

// SkillByName looks up a catalog skill by name.
//
// Postcondition: Returns the skill or character.ErrSkillNotFound.
func (s *Store) SkillByName(_ context.Context, name string) (*character.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sk := range s.skills {
		if sk.Name == name {
			out := sk
			return &out, nil
		}
	}
	return nil, character.ErrSkillNotFound
}

// LearnSkill teaches skillID to characterID. Learning a skill twice is a no-op.
func (s *Store) LearnSkill(_ context.Context, characterID, skillID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chars[characterID]; !ok {
		return character.ErrNotFound
	}
	if _, ok := s.skills[skillID]; !ok {
		return character.ErrSkillNotFound
	}
	ids := s.learned[characterID]
	pos, found := slices.BinarySearch(ids, skillID)
	if !found {
		s.learned[characterID] = slices.Insert(ids, pos, skillID)
	}
	return nil
}

// ForgetSkill removes skillID from characterID's learned skills.
func (s *Store) ForgetSkill(_ context.Context, characterID, skillID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learned[characterID] = slices.DeleteFunc(s.learned[characterID], func(id int64) bool { return id == skillID })
	return nil
}

func (s *Store) skillsForLocked(characterID int64) []character.Skill {
	ids := s.learned[characterID]
	if len(ids) == 0 {
		return nil
	}
	out := make([]character.Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.skills[id])
	}
	return out
}
