package appstate

import "sync"

// Generation guards reload results against being applied out of order. A
// caller takes a ticket with Begin before starting a reload and hands it
// back with Commit; if another reload began in the meantime the older
// ticket is rejected and its result must be dropped.
type Generation struct {
	mu      sync.Mutex
	current uint64
}

// NewGeneration returns a guard starting at generation zero.
func NewGeneration() *Generation {
	return &Generation{}
}

// Begin marks the start of a new reload and returns its ticket. Any
// ticket issued earlier becomes stale.
func (g *Generation) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	return g.current
}

// Commit reports whether the reload identified by ticket is still the
// latest one. A false return means the result is stale and must not be
// applied.
func (g *Generation) Commit(ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ticket == g.current
}

// Current returns the latest ticket without starting a new reload.
func (g *Generation) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}
