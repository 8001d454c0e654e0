package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/arena/internal/game/character"
)

const (
	// HighscoreKey is the Redis key holding the serialized leaderboard.
	HighscoreKey = "arena:highscores"
	defaultTTL   = time.Minute
)

// HighscoreCache is a read-through cache for the leaderboard. Entries expire
// after the configured TTL and are invalidated after every committed battle.
type HighscoreCache struct {
	client Client
	ttl    time.Duration
}

// NewHighscoreCache creates a HighscoreCache. A zero ttl uses one minute.
//
// Precondition: client must be non-nil; ttl must not be negative.
func NewHighscoreCache(client Client, ttl time.Duration) (*HighscoreCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("highscore ttl must not be negative, got %s", ttl)
	}
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &HighscoreCache{client: client, ttl: ttl}, nil
}

type entry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Fights    int    `json:"fights"`
	Victories int    `json:"victories"`
	Defeats   int    `json:"defeats"`
}

// Get returns the cached leaderboard.
//
// Postcondition: Returns (scores, true, nil) on a hit, (nil, false, nil) on a
// miss, or a non-nil error when Redis fails or the entry is corrupt.
func (c *HighscoreCache) Get(ctx context.Context) ([]character.HighScore, bool, error) {
	raw, err := c.client.Get(ctx, HighscoreKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached highscores: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decoding cached highscores: %w", err)
	}
	scores := make([]character.HighScore, len(entries))
	for i, e := range entries {
		scores[i] = character.HighScore(e)
	}
	return scores, true, nil
}

// Set stores scores as the cached leaderboard for the cache TTL.
func (c *HighscoreCache) Set(ctx context.Context, scores []character.HighScore) error {
	entries := make([]entry, len(scores))
	for i, h := range scores {
		entries[i] = entry(h)
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding highscores: %w", err)
	}
	if err := c.client.Set(ctx, HighscoreKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cached highscores: %w", err)
	}
	return nil
}

// Invalidate drops the cached leaderboard. Invalidating an empty cache is a no-op.
func (c *HighscoreCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, HighscoreKey).Err(); err != nil {
		return fmt.Errorf("invalidating cached highscores: %w", err)
	}
	return nil
}

// TTL returns the expiry applied to cached leaderboards.
func (c *HighscoreCache) TTL() time.Duration {
	return c.ttl
}
