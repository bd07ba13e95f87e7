package sports

import (
	"context"
	"sync"
)

// Ticket identifies one load started through a Generation.
type Ticket uint64

// Generation tags loads with an increasing ticket. Starting a load cancels
// the context of the previous one, and only the latest ticket is current.
type Generation struct {
	mu      sync.Mutex
	current Ticket
	cancel  context.CancelFunc
}

// Begin starts a new generation derived from parent.
func (g *Generation) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.current++
	g.cancel = cancel
	return ctx, g.current
}

func (g *Generation) IsCurrent(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t == g.current
}

// End releases the context of t if it is still current.
func (g *Generation) End(t Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t == g.current && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
