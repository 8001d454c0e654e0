package combat

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// DefaultMaxPasses is the pass limit used when Options.MaxPasses is not positive.
const DefaultMaxPasses = 10000

// Status is a deathmatch participant's standing.
type Status int

const (
	Alive Status = iota
	Dead
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Participant pairs a fighter with its deathmatch status.
type Participant struct {
	Character *character.Character
	Status    Status
}

// Options tunes battle resolution.
type Options struct {
	// MaxPasses bounds the number of passes over the participant list. A battle
	// that has not ended after MaxPasses passes fails with ErrStalled.
	MaxPasses int
}

func (o Options) maxPasses() int {
	if o.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return o.MaxPasses
}

// Result is the outcome of a finished battle.
type Result struct {
	Log Log
	// Winner is the character credited with the Victory.
	Winner *character.Character
	// Defeated lists the characters credited with a Defeat, in order of defeat.
	Defeated []*character.Character
	// Passes is the number of passes over the participant list the battle took.
	Passes int
}

// chooseAction picks weapon or skill uniformly, then a uniform skill when a
// skill was chosen.
//
// Postcondition: Returns (source, false) when the chosen action is unavailable:
// no usable weapon, or no known skills. The other action is never tried.
func chooseAction(attacker *character.Character, src Source) (AttackSource, bool) {
	if src.Intn(2) == 0 {
		if !attacker.HasWeapon() {
			return AttackSource{}, false
		}
		return WeaponSource(attacker.Weapon), true
	}
	if len(attacker.Skills) == 0 {
		return AttackSource{}, false
	}
	return SkillSource(attacker.Skills[src.Intn(len(attacker.Skills))]), true
}

// resetAfterBattle credits every fighter with one fight and restores HitPoints.
func resetAfterBattle(chars []*character.Character) {
	for _, c := range chars {
		c.Fights++
		c.HitPoints = character.DefaultHitPoints
	}
}

// RunRoundBattle resolves a battle that ends at the first defeat anywhere.
//
// Each pass walks chars in order. Every attacker picks a uniform opponent among
// the other fighters (whatever its HitPoints), then a uniform action. If the
// action is unavailable the pass ends immediately and the next pass begins.
// The first hit that leaves any opponent at or below zero HitPoints ends the
// battle: the attacker gains a Victory and the opponent a Defeat. Every fighter
// then gains one Fight and is reset to character.DefaultHitPoints.
//
// Precondition: len(chars) >= 2; src must be non-nil.
// Postcondition: On success exactly one Victory and one Defeat were credited;
// on error the counters are untouched but HitPoints may have changed.
func RunRoundBattle(chars []*character.Character, src Source, opts Options) (*Result, error) {
	if len(chars) < 2 {
		return nil, fmt.Errorf("round battle needs at least 2 fighters, got %d: %w", len(chars), ErrNotEnoughParticipants)
	}

	res := &Result{}
	var winner, loser *character.Character
	for winner == nil {
		if res.Passes >= opts.maxPasses() {
			return nil, fmt.Errorf("round battle undecided after %d passes: %w", res.Passes, ErrStalled)
		}
		res.Passes++

		for i, attacker := range chars {
			opponent := pickOther(chars, i, src)
			source, ok := chooseAction(attacker, src)
			if !ok {
				break
			}
			o := ResolveAttack(attacker, opponent, source, src)
			res.Log.attack(o)
			if o.Defeated {
				winner, loser = attacker, opponent
				break
			}
		}
	}

	winner.Victories++
	loser.Defeats++
	res.Log.defeated(loser.Name)
	res.Log.winner(winner.Name, winner.HitPoints)
	res.Winner = winner
	res.Defeated = []*character.Character{loser}

	resetAfterBattle(chars)
	return res, nil
}

// pickOther returns a uniform fighter from chars other than the one at index self.
func pickOther(chars []*character.Character, self int, src Source) *character.Character {
	n := src.Intn(len(chars) - 1)
	if n >= self {
		n++
	}
	return chars[n]
}

// RunDeathmatch resolves an elimination battle that ends when one fighter remains.
//
// Every fighter starts Alive. Each pass walks the participants in order,
// skipping Dead ones. An attacker picks a uniform opponent among the other
// Alive participants, then a uniform action; an unavailable action ends the
// pass. An opponent left at or below zero HitPoints becomes Dead and gains a
// Defeat at once. When a single participant is Alive it gains a Victory; then
// every fighter gains one Fight and is reset to character.DefaultHitPoints.
//
// Precondition: len(chars) >= 1; src must be non-nil.
// Postcondition: On success exactly one participant was Alive at termination
// and was credited the only Victory.
func RunDeathmatch(chars []*character.Character, src Source, opts Options) (*Result, error) {
	if len(chars) == 0 {
		return nil, fmt.Errorf("deathmatch needs at least 1 fighter: %w", ErrNotEnoughParticipants)
	}

	participants := make([]*Participant, len(chars))
	for i, c := range chars {
		participants[i] = &Participant{Character: c, Status: Alive}
	}

	res := &Result{}
	for countAlive(participants) > 1 {
		if res.Passes >= opts.maxPasses() {
			return nil, fmt.Errorf("deathmatch undecided after %d passes: %w", res.Passes, ErrStalled)
		}
		res.Passes++

		for _, p := range participants {
			if p.Status == Dead {
				continue
			}
			opponents := aliveExcept(participants, p)
			if len(opponents) == 0 {
				break
			}
			target := opponents[src.Intn(len(opponents))]
			source, ok := chooseAction(p.Character, src)
			if !ok {
				break
			}
			o := ResolveAttack(p.Character, target.Character, source, src)
			res.Log.attack(o)
			if o.Defeated {
				target.Status = Dead
				target.Character.Defeats++
				res.Defeated = append(res.Defeated, target.Character)
				res.Log.defeated(target.Character.Name)
			}
		}
	}

	for _, p := range participants {
		if p.Status == Alive {
			p.Character.Victories++
			res.Winner = p.Character
		}
	}
	res.Log.winner(res.Winner.Name, res.Winner.HitPoints)

	resetAfterBattle(chars)
	return res, nil
}

func countAlive(participants []*Participant) int {
	n := 0
	for _, p := range participants {
		if p.Status == Alive {
			n++
		}
	}
	return n
}

func aliveExcept(participants []*Participant, self *Participant) []*Participant {
	var out []*Participant
	for _, p := range participants {
		if p != self && p.Status == Alive {
			out = append(out, p)
		}
	}
	return out
}
