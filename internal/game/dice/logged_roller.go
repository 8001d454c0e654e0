package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every draw made during an encounter is
// logged at debug level with its bound and result.
//
// Roller satisfies Source; it inherits the concurrency guarantees of src.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the result.
//
// Precondition: n > 0.
// Postcondition: result logged; 0 <= result < n.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice draw",
		zap.Int("bound", n),
		zap.Int("result", v),
	)
	return v
}
