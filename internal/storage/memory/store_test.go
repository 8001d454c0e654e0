package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/storage/memory"
)

func mustCreate(t *testing.T, s *memory.Store, userID int64, name string) *character.Character {
	t.Helper()
	c, err := character.New(userID, name, character.ClassKnight)
	require.NoError(t, err)
	created, err := s.Create(context.Background(), c)
	require.NoError(t, err)
	return created
}

func TestStore_CreateAssignsIDs(t *testing.T) {
	s := memory.NewStore()
	a := mustCreate(t, s, 1, "Alpha")
	b := mustCreate(t, s, 1, "Beta")

	assert.Greater(t, a.ID, int64(0))
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestStore_CreateDuplicateName(t *testing.T) {
	s := memory.NewStore()
	mustCreate(t, s, 1, "Alpha")

	c, err := character.New(1, "Alpha", "")
	require.NoError(t, err)
	_, err = s.Create(context.Background(), c)
	assert.ErrorIs(t, err, memory.ErrNameTaken)

	c.UserID = 2
	_, err = s.Create(context.Background(), c)
	assert.NoError(t, err)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")
	_, err := s.EquipWeapon(ctx, character.Weapon{CharacterID: a.ID, Name: "Sword", Damage: 4})
	require.NoError(t, err)

	loaded, err := s.LoadOwnedWithWeapon(ctx, a.ID, 1)
	require.NoError(t, err)
	loaded.HitPoints = -50
	loaded.Weapon.Damage = 99

	again, err := s.LoadOwnedWithWeapon(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, character.DefaultHitPoints, again.HitPoints)
	assert.Equal(t, 4, again.Weapon.Damage)
}

func TestStore_OwnershipFilter(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")

	_, err := s.LoadOwnedWithWeapon(ctx, a.ID, 2)
	assert.ErrorIs(t, err, character.ErrNotFound)
	_, err = s.LoadOwnedWithSkills(ctx, a.ID, 2)
	assert.ErrorIs(t, err, character.ErrNotFound)
	_, err = s.LoadOwnedWithSkills(ctx, 404, 1)
	assert.ErrorIs(t, err, character.ErrNotFound)
}

func TestStore_Skills(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")

	heal, err := s.CreateSkill(ctx, "Heal", 2)
	require.NoError(t, err)
	bolt, err := s.CreateSkill(ctx, "Bolt", 6)
	require.NoError(t, err)
	_, err = s.CreateSkill(ctx, "Heal", 1)
	assert.ErrorIs(t, err, memory.ErrNameTaken)

	require.NoError(t, s.LearnSkill(ctx, a.ID, bolt.ID))
	require.NoError(t, s.LearnSkill(ctx, a.ID, heal.ID))
	require.NoError(t, s.LearnSkill(ctx, a.ID, heal.ID))

	loaded, err := s.LoadOwnedWithSkills(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Skills, 2)
	assert.Equal(t, heal.ID, loaded.Skills[0].ID, "skills are ordered by id")

	found, err := s.SkillByName(ctx, "Bolt")
	require.NoError(t, err)
	assert.Equal(t, bolt.ID, found.ID)
	_, err = s.SkillByName(ctx, "Nope")
	assert.ErrorIs(t, err, character.ErrSkillNotFound)

	assert.ErrorIs(t, s.LearnSkill(ctx, a.ID, 999), character.ErrSkillNotFound)
	assert.ErrorIs(t, s.LearnSkill(ctx, 999, heal.ID), character.ErrNotFound)

	require.NoError(t, s.ForgetSkill(ctx, a.ID, heal.ID))
	loaded, err = s.LoadOwnedWithSkills(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, loaded.Skills, 1)
	assert.Equal(t, "Bolt", loaded.Skills[0].Name)
}

func TestStore_WeaponReplaceAndRemove(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")

	first, err := s.EquipWeapon(ctx, character.Weapon{CharacterID: a.ID, Name: "Sword", Damage: 4})
	require.NoError(t, err)
	second, err := s.EquipWeapon(ctx, character.Weapon{CharacterID: a.ID, Name: "Axe", Damage: 6})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a character has one weapon slot")

	require.NoError(t, s.RemoveWeapon(ctx, a.ID))
	loaded, err := s.LoadOwnedWithWeapon(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, loaded.Weapon)

	_, err = s.EquipWeapon(ctx, character.Weapon{CharacterID: 999, Name: "Axe"})
	assert.ErrorIs(t, err, character.ErrNotFound)
}

func TestStore_LoadWithWeaponAndSkills(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")
	b := mustCreate(t, s, 1, "Beta")

	chars, err := s.LoadWithWeaponAndSkills(ctx, []int64{b.ID, 999, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, a.ID, chars[0].ID)
	assert.Equal(t, b.ID, chars[1].ID)
}

func TestStore_CommitBatchAndSaveHitPoints(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	a := mustCreate(t, s, 1, "Alpha")

	a.Fights, a.Victories = 2, 1
	n, err := s.CommitBatch(ctx, []*character.Character{a, {ID: 999}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.SaveHitPoints(ctx, a.ID, 12))
	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.HitPoints)
	assert.Equal(t, 2, got.Fights)
	assert.Equal(t, 1, got.Victories)

	assert.ErrorIs(t, s.SaveHitPoints(ctx, 999, 1), character.ErrNotFound)
}

func TestStore_HighscoresOrder(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	idle := mustCreate(t, s, 1, "Idle")
	top := mustCreate(t, s, 1, "Top")
	tieA := mustCreate(t, s, 1, "TieA")
	tieB := mustCreate(t, s, 1, "TieB")
	_ = idle

	top.Fights, top.Victories = 3, 3
	tieA.Fights, tieA.Victories, tieA.Defeats = 3, 1, 2
	tieB.Fights, tieB.Victories, tieB.Defeats = 2, 1, 1
	_, err := s.CommitBatch(ctx, []*character.Character{top, tieA, tieB})
	require.NoError(t, err)

	scores, err := s.Highscores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, []string{"Top", "TieB", "TieA"}, []string{scores[0].Name, scores[1].Name, scores[2].Name})
}

func TestStore_HighscoresEmpty(t *testing.T) {
	s := memory.NewStore()
	mustCreate(t, s, 1, "Idle")

	scores, err := s.Highscores(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, scores)
	assert.Empty(t, scores)
}

func TestProperty_HighscoresTotalOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := memory.NewStore()
		ctx := context.Background()
		n := rapid.IntRange(0, 12).Draw(rt, "n")
		for i := 0; i < n; i++ {
			c, err := character.New(1, fmt.Sprintf("c%d", i), "")
			if err != nil {
				rt.Fatal(err)
			}
			created, err := s.Create(ctx, c)
			if err != nil {
				rt.Fatal(err)
			}
			created.Victories = rapid.IntRange(0, 3).Draw(rt, "v")
			created.Defeats = rapid.IntRange(0, 3).Draw(rt, "d")
			created.Fights = created.Victories + created.Defeats
			if _, err := s.CommitBatch(ctx, []*character.Character{created}); err != nil {
				rt.Fatal(err)
			}
		}

		scores, err := s.Highscores(ctx)
		if err != nil {
			rt.Fatal(err)
		}
		for i, h := range scores {
			if h.Fights <= 0 {
				rt.Fatalf("entry %d has no fights: %+v", i, h)
			}
			if i == 0 {
				continue
			}
			prev := scores[i-1]
			ordered := prev.Victories > h.Victories ||
				(prev.Victories == h.Victories && prev.Defeats < h.Defeats) ||
				(prev.Victories == h.Victories && prev.Defeats == h.Defeats && prev.ID < h.ID)
			if !ordered {
				rt.Fatalf("out of order at %d: %+v then %+v", i, prev, h)
			}
		}
	})
}
