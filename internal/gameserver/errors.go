package gameserver

import (
	"errors"
	"fmt"
)

// Failure kinds reported by FightHandler. Every error a FightHandler operation
// returns for a rejected or failed request is a *Failure matching exactly one of these.
var (
	// ErrNotFound: attacker, opponent, or equipped weapon absent, or the attacker is not the caller's.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyDefeated: a side of a single exchange has no HitPoints left.
	ErrAlreadyDefeated = errors.New("already defeated")
	// ErrUnknownSkill: the attacker has not learned the requested skill.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrPersistence: a store read or write failed, or a battle commit changed nothing.
	ErrPersistence = errors.New("persistence failure")
)

// Failure is a tagged failure result: a kind from the taxonomy above, the
// player-facing message, and the underlying cause when there is one.
type Failure struct {
	Kind    error
	Message string
	Cause   error
}

// Error returns the player-facing message.
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}

func fail(kind error, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func persistenceFailure(op string, cause error) *Failure {
	return &Failure{
		Kind:    ErrPersistence,
		Message: fmt.Sprintf("%s: %v", op, cause),
		Cause:   cause,
	}
}
