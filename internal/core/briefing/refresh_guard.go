package briefing

import "sync/atomic"

// RefreshGuard serializes overlapping refreshes: only the resolution holding
// the latest token may publish its result.
type RefreshGuard struct {
	latest atomic.Uint64
}

// Begin issues a new token, superseding all earlier ones
func (g *RefreshGuard) Begin() uint64 {
	return g.latest.Add(1)
}

// Complete reports whether token is still the latest
func (g *RefreshGuard) Complete(token uint64) bool {
	return g.latest.Load() == token
}
