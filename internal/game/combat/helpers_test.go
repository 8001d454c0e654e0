package combat_test

import (
	"github.com/cory-johannsen/arena/internal/game/character"
)

// scriptSource replays vals in order (each reduced modulo n) and returns 0
// once exhausted.
type scriptSource struct {
	vals  []int
	calls []int
}

func script(vals ...int) *scriptSource { return &scriptSource{vals: vals} }

func (s *scriptSource) Intn(n int) int {
	s.calls = append(s.calls, n)
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0] % n
	s.vals = s.vals[1:]
	return v
}

// panicSource fails the test if any draw is made.
type panicSource struct{}

func (panicSource) Intn(int) int { panic("unexpected draw") }

func fighter(id int64, name string, weaponDamage int) *character.Character {
	c := &character.Character{
		ID:        id,
		Name:      name,
		Class:     character.ClassKnight,
		HitPoints: character.DefaultHitPoints,
	}
	if weaponDamage > 0 {
		c.Weapon = &character.Weapon{Name: name + "'s blade", Damage: weaponDamage}
	}
	return c
}
