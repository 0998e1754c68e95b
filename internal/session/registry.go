package session

import (
	"sort"
	"sync"

	"RangeTrader/internal/model"
)

// Registry owns at most one TrackedSession per symbol for a single tracking
// participant. The mutex guards the map and all state of registry-owned
// sessions: evaluation and settlement must go through the Evaluate and
// Settle methods here, never the package functions directly, so that the
// scheduled cycle and command handlers cannot mutate a session concurrently.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*model.TrackedSession
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*model.TrackedSession)}
}

// Track starts a tracking cycle for symbol with the given levels. An
// existing session for the symbol is replaced, latches and all.
func (r *Registry) Track(symbol string, levels *model.RangeLevels, exclusive bool) *model.TrackedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Start(symbol, levels, exclusive)
	r.sessions[symbol] = s
	return s
}

// Get returns the session for symbol, if any.
func (r *Registry) Get(symbol string) (*model.TrackedSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[symbol]
	return s, ok
}

// Evaluate runs one evaluation step on a registry-owned session under the
// registry lock and reports which latches flipped during this step. The
// flip results let the caller act on a fresh trigger without re-reading the
// session while other evaluators run.
func (r *Registry) Evaluate(s *model.TrackedSession, price float64) (breakoutFlipped, breakdownFlipped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		return false, false
	}
	hadBreakout := s.BreakoutTriggered
	hadBreakdown := s.BreakdownTriggered
	Evaluate(s, price)
	return s.BreakoutTriggered && !hadBreakout, s.BreakdownTriggered && !hadBreakdown
}

// Settle closes a registry-owned session under the registry lock.
func (r *Registry) Settle(s *model.TrackedSession, finalPrice, payoutSize, dollarsPerPoint float64) (model.Mode, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Settle(s, finalPrice, payoutSize, dollarsPerPoint)
}

// Status returns value snapshots of every session, sorted by symbol. The
// copies are safe to read and format while evaluators keep running.
func (r *Registry) Status() []model.TrackedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.TrackedSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Drop removes the session for symbol.
func (r *Registry) Drop(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, symbol)
}

// Active returns the sessions currently in the tracking state, sorted by
// symbol for stable iteration.
func (r *Registry) Active() []*model.TrackedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TrackedSession
	for _, s := range r.sessions {
		if s.Tracking {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// All returns every registered session, tracking or not, sorted by symbol.
func (r *Registry) All() []*model.TrackedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.TrackedSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
