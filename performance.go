package multiview

import (
	"sync"
	"time"
)

// Performance is a render-quality governor.
//
// Hosts call Regress when the frame rate drops or the user starts a costly
// interaction. The scalar then sits at its minimum until no regression has
// been reported for the debounce period, and returns to its maximum after
// that. The scheduler multiplies every view's resolved pixel ratio by the
// current scalar.
//
// Performance is safe for concurrent use.
type Performance struct {
	min, max float64
	debounce time.Duration

	mu        sync.Mutex
	regressed time.Time
}

// NewPerformance creates a governor. min and max are clamped to (0, 1] and
// ordered.
func NewPerformance(min, max float64, debounce time.Duration) *Performance {
	min, max = clampUnit(min), clampUnit(max)
	if min > max {
		min, max = max, min
	}
	return &Performance{min: min, max: max, debounce: debounce}
}

// Regress drops the scalar to its minimum as of now.
func (p *Performance) Regress(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regressed = now
}

// Current returns the scalar at now.
func (p *Performance) Current(now time.Time) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.regressed.IsZero() && now.Sub(p.regressed) < p.debounce {
		return p.min
	}
	return p.max
}

// Bounds returns the minimum and maximum scalar.
func (p *Performance) Bounds() (min, max float64) {
	return p.min, p.max
}

func clampUnit(v float64) float64 {
	switch {
	case v <= 0:
		return 0.1
	case v > 1:
		return 1
	default:
		return v
	}
}
