package battle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericogr/duel-arena/internal/game"
)

// Restriction limits what a gate accepts for the current decision.
type Restriction int

const (
	AnyAction Restriction = iota
	// SwitchOnly accepts switches (and forfeits) only: leads and
	// replacements after a faint.
	SwitchOnly
)

// Gate is the per-participant decision future. The session opens it for a
// turn, exactly one Commit fills it, and Await hands the action back.
type Gate struct {
	mu       sync.Mutex
	turn     int
	open     bool
	restrict Restriction
	action   game.Action
	ready    chan struct{}
	signaled bool
	failure  error
	closed   bool
}

func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// signal wakes the waiter. Callers hold g.mu.
func (g *Gate) signal() {
	if !g.signaled {
		g.signaled = true
		close(g.ready)
	}
}

// Open resets the gate for a new decision. A transport failure reported
// earlier stays in place so the next Await returns it at once.
func (g *Gate) Open(turn int, r Restriction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.turn, g.open, g.restrict, g.action = turn, true, r, nil
	if g.failure == nil {
		g.ready = make(chan struct{})
		g.signaled = false
	}
}

// Commit stores the decision for turn. Committing after Close is a no-op.
func (g *Gate) Commit(turn int, a game.Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	if a == nil {
		return ErrNilAction
	}
	if !g.open || turn != g.turn {
		return fmt.Errorf("%w: turn %d, gate turn %d", ErrStaleDecision, turn, g.turn)
	}
	if g.action != nil {
		return ErrAlreadyCommitted
	}
	if g.restrict == SwitchOnly {
		switch a.(type) {
		case game.SwitchAction, game.ForfeitAction:
		default:
			return ErrActionNotAllowed
		}
	}
	g.action = a
	g.signal()
	return nil
}

// Await blocks until a decision is committed, the timeout elapses, the
// gate fails or closes, or ctx is done. A zero timeout waits without a
// deadline. A gate left without a decision is shut for the turn, so late
// commits are stale; a decided gate keeps refusing with ErrAlreadyCommitted.
func (g *Gate) Await(ctx context.Context, timeout time.Duration) (game.Action, error) {
	g.mu.Lock()
	ready := g.ready
	g.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ready:
	case <-expired:
	case <-ctx.Done():
		g.shut()
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.action != nil {
		return g.action, nil
	}
	g.open = false
	switch {
	case g.failure != nil:
		return nil, g.failure
	case g.closed:
		return nil, ErrGateClosed
	}
	return nil, ErrDecisionTimeout
}

func (g *Gate) shut() {
	g.mu.Lock()
	g.open = false
	g.mu.Unlock()
}

// Fail reports that the decision source is gone. The waiter, current or
// next, gets an error wrapping ErrTransport.
func (g *Gate) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.failure != nil {
		return
	}
	g.failure = fmt.Errorf("%w: %v", ErrTransport, err)
	g.signal()
}

// Close terminates the gate for good and releases any waiter.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed, g.open = true, false
	g.signal()
}

// Committed reports whether the current decision has been made.
func (g *Gate) Committed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.action != nil
}

// Status reports the turn and restriction of the gate and whether it is
// open for decisions.
func (g *Gate) Status() (turn int, restrict Restriction, open bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn, g.restrict, g.open && !g.closed
}
