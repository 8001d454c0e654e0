package combat

import (
	"fmt"
	"strings"
)

// Log is the append-only narrative of one battle.
type Log struct {
	lines []string
}

// Add appends a formatted line.
func (l *Log) Add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the lines in order.
func (l *Log) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines.
func (l *Log) Len() int { return len(l.lines) }

// String joins the lines with newlines.
func (l *Log) String() string {
	return strings.Join(l.lines, "\n")
}

func (l *Log) attack(o Outcome) {
	l.Add("%s attacks %s using %s with %d damage.", o.Attacker, o.Opponent, o.Source, DisplayDamage(o.Damage))
}

func (l *Log) defeated(name string) {
	l.Add("%s has been defeated!", name)
}

func (l *Log) winner(name string, hp int) {
	l.Add("%s wins with %d HP left!", name, hp)
}
