package battle

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/logging"
)

// Registry maps battle ids to live sessions. At most one session per pair
// key runs at a time; a finished session removes itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	pairs    map[string]string
	group    singleflight.Group
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		pairs:    make(map[string]string),
	}
}

// Create builds and registers a session for pairKey. Concurrent calls for
// the same key share one build; once a session for the key is live,
// further calls fail with ErrBattleInProgress until it finishes. An empty
// pairKey is never deduplicated.
func (r *Registry) Create(pairKey string, build func() (*Session, error)) (*Session, error) {
	if pairKey == "" {
		s, err := build()
		if err != nil {
			return nil, err
		}
		r.add(s)
		return s, nil
	}

	created := false
	v, err, _ := r.group.Do(pairKey, func() (interface{}, error) {
		if _, ok := r.FindByPair(pairKey); ok {
			return nil, ErrBattleInProgress
		}
		s, err := build()
		if err != nil {
			return nil, err
		}
		r.add(s)
		created = true
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// Another caller won the race for this pair.
		return nil, ErrBattleInProgress
	}
	return v.(*Session), nil
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	if s.PairKey() != "" {
		r.pairs[s.PairKey()] = s.ID()
	}
	n := len(r.sessions)
	r.mu.Unlock()

	logging.Info("battle session registered", logging.Fields{
		constants.LogFieldBattleID: s.ID(),
		constants.LogFieldPairKey:  s.PairKey(),
		constants.LogFieldCount:    n,
	})
	s.OnFinish(func(s *Session) { r.Remove(s.ID()) })
}

// Remove drops the session with id. It reports whether anything was
// removed; removing twice is harmless.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	delete(r.sessions, id)
	if r.pairs[s.PairKey()] == id {
		delete(r.pairs, s.PairKey())
	}
	return true
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// FindByPair returns the live session for pairKey.
func (r *Registry) FindByPair(pairKey string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[pairKey]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns the live sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}
