// Package gameserver exposes the arena operations: single weapon and skill
// exchanges, round battles, deathmatches, and the leaderboard.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// CharacterStore is the persistence FightHandler depends on. Loads return
// copies the handler may mutate freely; nothing reaches the store until
// SaveHitPoints or CommitBatch is called.
type CharacterStore interface {
	GetByID(ctx context.Context, id int64) (*character.Character, error)
	LoadOwnedWithWeapon(ctx context.Context, id, userID int64) (*character.Character, error)
	LoadOwnedWithSkills(ctx context.Context, id, userID int64) (*character.Character, error)
	LoadWithWeaponAndSkills(ctx context.Context, ids []int64) ([]*character.Character, error)
	SaveHitPoints(ctx context.Context, id int64, hitPoints int) error
	CommitBatch(ctx context.Context, chars []*character.Character) (int64, error)
	Highscores(ctx context.Context) ([]character.HighScore, error)
}

// HighscoreCache caches the leaderboard between battles.
type HighscoreCache interface {
	Get(ctx context.Context) ([]character.HighScore, bool, error)
	Set(ctx context.Context, scores []character.HighScore) error
	Invalidate(ctx context.Context) error
}

// ExchangeReport is the result of a single weapon or skill attack.
type ExchangeReport struct {
	EncounterID string
	Outcome     combat.Outcome
	// Message is "{opponent} has been defeated!" when the hit felled the opponent, else empty.
	Message string
}

// BattleReport is the result of a committed round battle or deathmatch.
type BattleReport struct {
	EncounterID string
	Log         []string
	Winner      character.HighScore
	Defeated    []character.HighScore
	Passes      int
}

// FightHandler runs arena encounters against a CharacterStore.
//
// Every encounter reserves the characters it names on the Engine for its whole
// duration, so two encounters sharing a character run one after the other.
// All methods are safe for concurrent use.
type FightHandler struct {
	store     CharacterStore
	cache     HighscoreCache
	engine    *combat.Engine
	logger    *zap.Logger
	maxPasses int
	newSource func() dice.Source
}

// NewFightHandler creates a FightHandler.
//
// Precondition: store, engine and logger must be non-nil; cache may be nil
// (the leaderboard is then always read from the store). maxPasses <= 0 uses
// combat.DefaultMaxPasses.
// Postcondition: Returns a non-nil FightHandler drawing from a fresh seeded
// source per encounter.
func NewFightHandler(store CharacterStore, cache HighscoreCache, engine *combat.Engine, logger *zap.Logger, maxPasses int) *FightHandler {
	return &FightHandler{
		store:     store,
		cache:     cache,
		engine:    engine,
		logger:    logger,
		maxPasses: maxPasses,
		newSource: dice.NewEncounterSource,
	}
}

// WithSourceFactory replaces the per-encounter randomness source factory and
// returns h.
//
// Precondition: f must be non-nil and return a non-nil Source.
func (h *FightHandler) WithSourceFactory(f func() dice.Source) *FightHandler {
	h.newSource = f
	return h
}

func (h *FightHandler) roller(encounterID string) dice.Source {
	return dice.NewLoggedRoller(h.newSource(), h.logger.With(zap.String("encounter", encounterID)))
}

// WeaponAttack performs one attack by userID's attackerID on opponentID with
// the attacker's equipped weapon and persists the opponent's HitPoints.
//
// Precondition: ctx must be non-nil.
// Postcondition: On success the opponent's HitPoints were saved. On a *Failure
// no character was changed.
func (h *FightHandler) WeaponAttack(ctx context.Context, userID, attackerID, opponentID int64) (*ExchangeReport, error) {
	encounterID := uuid.NewString()
	release, err := h.engine.Reserve(ctx, encounterID, []int64{attackerID, opponentID})
	if err != nil {
		return nil, fmt.Errorf("reserving fighters: %w", err)
	}
	defer release()

	attacker, err := h.store.LoadOwnedWithWeapon(ctx, attackerID, userID)
	if err != nil {
		return nil, h.loadFailure(err, "Attacker not found or not yours.")
	}
	opponent, err := h.store.GetByID(ctx, opponentID)
	if err != nil {
		return nil, h.loadFailure(err, "Opponent not found.")
	}
	if err := h.checkCanFight(attacker, opponent); err != nil {
		return nil, err
	}
	if !attacker.HasWeapon() {
		return nil, fail(ErrNotFound, "%s has no weapon equipped.", attacker.Name)
	}

	return h.exchange(ctx, encounterID, attacker, opponent, combat.WeaponSource(attacker.Weapon))
}

// SkillAttack performs one attack by userID's attackerID on opponentID with the
// learned skill skillID and persists the opponent's HitPoints.
//
// The skill is checked before the opponent is loaded.
//
// Precondition: ctx must be non-nil.
// Postcondition: On success the opponent's HitPoints were saved. On a *Failure
// no character was changed.
func (h *FightHandler) SkillAttack(ctx context.Context, userID, attackerID, opponentID, skillID int64) (*ExchangeReport, error) {
	encounterID := uuid.NewString()
	release, err := h.engine.Reserve(ctx, encounterID, []int64{attackerID, opponentID})
	if err != nil {
		return nil, fmt.Errorf("reserving fighters: %w", err)
	}
	defer release()

	attacker, err := h.store.LoadOwnedWithSkills(ctx, attackerID, userID)
	if err != nil {
		return nil, h.loadFailure(err, "Attacker not found or not yours.")
	}
	skill, ok := attacker.KnownSkill(skillID)
	if !ok {
		return nil, fail(ErrUnknownSkill, "%s doesn't know that skill.", attacker.Name)
	}
	opponent, err := h.store.GetByID(ctx, opponentID)
	if err != nil {
		return nil, h.loadFailure(err, "Opponent not found.")
	}
	if err := h.checkCanFight(attacker, opponent); err != nil {
		return nil, err
	}

	return h.exchange(ctx, encounterID, attacker, opponent, combat.SkillSource(skill))
}

func (h *FightHandler) checkCanFight(attacker, opponent *character.Character) error {
	err := combat.CheckCanFight(attacker, opponent)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, combat.ErrAttackerDefeated):
		return &Failure{Kind: ErrAlreadyDefeated, Message: fmt.Sprintf("%s has been defeated can't attack!", attacker.Name), Cause: err}
	default:
		return &Failure{Kind: ErrAlreadyDefeated, Message: fmt.Sprintf("%s has been defeated can't fight more!", opponent.Name), Cause: err}
	}
}

func (h *FightHandler) exchange(ctx context.Context, encounterID string, attacker, opponent *character.Character, source combat.AttackSource) (*ExchangeReport, error) {
	outcome := combat.ResolveAttack(attacker, opponent, source, h.roller(encounterID))
	if err := h.store.SaveHitPoints(ctx, opponent.ID, opponent.HitPoints); err != nil {
		return nil, persistenceFailure("saving opponent", err)
	}

	report := &ExchangeReport{EncounterID: encounterID, Outcome: outcome}
	if outcome.Defeated {
		report.Message = fmt.Sprintf("%s has been defeated!", opponent.Name)
	}
	h.logger.Info("exchange resolved",
		zap.String("encounter", encounterID),
		zap.Int64("attacker", attacker.ID),
		zap.Int64("opponent", opponent.ID),
		zap.Stringer("kind", source.Kind),
		zap.Int("damage", outcome.Damage),
		zap.Bool("defeated", outcome.Defeated),
	)
	return report, nil
}

// RoundBattle runs a round battle among the characters named by ids and
// commits the result.
//
// Unknown ids are ignored. Duplicate ids fight once.
//
// Precondition: ctx must be non-nil.
// Postcondition: On success every fighter's counters and HitPoints were
// committed in one batch. On error nothing was committed.
func (h *FightHandler) RoundBattle(ctx context.Context, ids []int64) (*BattleReport, error) {
	return h.battle(ctx, "round battle", ids, combat.RunRoundBattle)
}

// Deathmatch runs an elimination battle among the characters named by ids and
// commits the result.
//
// Unknown ids are ignored. Duplicate ids fight once.
//
// Precondition: ctx must be non-nil.
// Postcondition: On success every fighter's counters and HitPoints were
// committed in one batch. On error nothing was committed.
func (h *FightHandler) Deathmatch(ctx context.Context, ids []int64) (*BattleReport, error) {
	return h.battle(ctx, "deathmatch", ids, combat.RunDeathmatch)
}

type battleFunc func([]*character.Character, combat.Source, combat.Options) (*combat.Result, error)

func (h *FightHandler) battle(ctx context.Context, kind string, ids []int64, run battleFunc) (*BattleReport, error) {
	encounterID := uuid.NewString()
	logger := h.logger.With(zap.String("encounter", encounterID), zap.String("kind", kind))

	release, err := h.engine.Reserve(ctx, encounterID, ids)
	if err != nil {
		return nil, fmt.Errorf("reserving fighters: %w", err)
	}
	defer release()

	chars, err := h.store.LoadWithWeaponAndSkills(ctx, ids)
	if err != nil {
		return nil, persistenceFailure("loading fighters", err)
	}

	res, err := run(chars, h.roller(encounterID), combat.Options{MaxPasses: h.maxPasses})
	if err != nil {
		logger.Warn("battle not resolved", zap.Int("fighters", len(chars)), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	changed, err := h.store.CommitBatch(ctx, chars)
	if err != nil {
		return nil, persistenceFailure("committing battle", err)
	}
	if changed <= 0 {
		return nil, fail(ErrPersistence, "committing battle: no characters were updated")
	}
	h.invalidateHighscores(ctx, logger)

	report := &BattleReport{
		EncounterID: encounterID,
		Log:         res.Log.Lines(),
		Winner:      res.Winner.ToHighScore(),
		Passes:      res.Passes,
	}
	for _, c := range res.Defeated {
		report.Defeated = append(report.Defeated, c.ToHighScore())
	}
	logger.Info("battle committed",
		zap.Int("fighters", len(chars)),
		zap.Int64("winner", res.Winner.ID),
		zap.Int("defeated", len(res.Defeated)),
		zap.Int("passes", res.Passes),
		zap.Int64("changed", changed),
	)
	return report, nil
}

// Highscore returns the leaderboard: characters with at least one fight,
// Victories descending, Defeats ascending, ID ascending.
//
// A cache failure is logged and the store is read instead.
//
// Postcondition: Returns a non-nil slice or a *Failure of kind ErrPersistence.
func (h *FightHandler) Highscore(ctx context.Context) ([]character.HighScore, error) {
	if h.cache != nil {
		scores, ok, err := h.cache.Get(ctx)
		if err != nil {
			h.logger.Warn("highscore cache read failed", zap.Error(err))
		} else if ok {
			return scores, nil
		}
	}

	scores, err := h.store.Highscores(ctx)
	if err != nil {
		return nil, persistenceFailure("loading highscores", err)
	}
	if scores == nil {
		scores = []character.HighScore{}
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, scores); err != nil {
			h.logger.Warn("highscore cache write failed", zap.Error(err))
		}
	}
	return scores, nil
}

func (h *FightHandler) invalidateHighscores(ctx context.Context, logger *zap.Logger) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn("highscore cache invalidation failed", zap.Error(err))
	}
}

// loadFailure maps a store load error onto NotFound with msg, or PersistenceFailure.
func (h *FightHandler) loadFailure(err error, msg string) error {
	if errors.Is(err, character.ErrNotFound) {
		return &Failure{Kind: ErrNotFound, Message: msg, Cause: err}
	}
	return persistenceFailure("loading character", err)
}
