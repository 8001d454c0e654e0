package combat

import (
	"context"
	"slices"
	"sync"
)

// Engine serialises encounters that share a character. An encounter reserves
// every character it touches for its whole duration; a second encounter that
// names any of those characters waits until the first releases them.
// All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	reserved map[int64]string // character ID → encounter ID
	released chan struct{}    // closed and replaced on every release
}

// NewEngine creates an empty combat Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{
		reserved: make(map[int64]string),
		released: make(chan struct{}),
	}
}

// Reserve blocks until none of ids is held by another encounter, then holds all
// of them for encounterID. The returned release func frees them and is safe to
// call more than once.
//
// Precondition: encounterID must be non-empty.
// Postcondition: Returns a release func, or ctx.Err() if ctx ended while waiting;
// on error nothing is held.
func (e *Engine) Reserve(ctx context.Context, encounterID string, ids []int64) (release func(), err error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for {
		e.mu.Lock()
		if e.availableLocked(ids) {
			for _, id := range ids {
				e.reserved[id] = encounterID
			}
			e.mu.Unlock()
			var once sync.Once
			return func() { once.Do(func() { e.release(ids) }) }, nil
		}
		wait := e.released
		e.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Holder returns the encounter currently holding character id.
//
// Postcondition: Returns (encounterID, true) if reserved, or ("", false) otherwise.
func (e *Engine) Holder(id int64) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.reserved[id]
	return enc, ok
}

// ReservedCount returns the number of characters currently reserved.
func (e *Engine) ReservedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.reserved)
}

func (e *Engine) availableLocked(ids []int64) bool {
	for _, id := range ids {
		if _, held := e.reserved[id]; held {
			return false
		}
	}
	return true
}

func (e *Engine) release(ids []int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		delete(e.reserved, id)
	}
	close(e.released)
	e.released = make(chan struct{})
}
