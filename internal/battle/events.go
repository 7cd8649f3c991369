package battle

import (
	"sync"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/engine"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/logging"
)

// EventKind names what happened in a session.
type EventKind string

const (
	EventStateChanged      EventKind = "state_changed"
	EventDecisionRequested EventKind = "decision_requested"
	EventLog               EventKind = "log"
	EventTurnResolved      EventKind = "turn_resolved"
	EventBattleEnded       EventKind = "battle_ended"
)

// Event is pushed to subscribers. Side is game.NoSide for events meant for
// both sides.
type Event struct {
	Kind     EventKind       `json:"kind"`
	BattleID string          `json:"battle_id"`
	Turn     int             `json:"turn"`
	Side     int             `json:"side"`
	State    State           `json:"state,omitempty"`
	Lines    []string        `json:"lines,omitempty"`
	Choices  *engine.Choices `json:"choices,omitempty"`
	Outcome  *game.Outcome   `json:"outcome,omitempty"`
}

// broadcaster fans events out to subscriber channels. Slow subscribers
// lose events rather than stall the session.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			logging.Warn("dropping battle event for slow subscriber", logging.Fields{
				constants.LogFieldBattleID:  e.BattleID,
				constants.LogFieldEventKind: string(e.Kind),
				constants.LogFieldKey:       id,
			})
		}
	}
}

// publishFinal delivers e to every subscriber, evicting the oldest queued
// event of a full channel. The terminal notification is never dropped.
func (b *broadcaster) publishFinal(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		for delivered := false; !delivered; {
			select {
			case ch <- e:
				delivered = true
			default:
				select {
				case <-ch:
				default:
				}
			}
		}
	}
}

// close ends every subscription after the terminal event went out.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
