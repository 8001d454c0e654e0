// Package dice provides the randomness abstraction used by the arena combat
// engine.
package dice

// Source is the randomness provider for combat draws.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Draw returns a uniform integer in [0, n) from src, or 0 when n <= 0.
//
// Precondition: src must be non-nil.
// Postcondition: Returns 0 if n <= 0; otherwise 0 <= result < n.
func Draw(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	return src.Intn(n)
}
