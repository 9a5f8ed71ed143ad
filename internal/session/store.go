package session

import (
	"sync"
	"time"
)

// Phase is the lifecycle position of a session.
type Phase int

const (
	NoGame Phase = iota
	Active
)

func (p Phase) String() string {
	switch p {
	case NoGame:
		return "no-game"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// State is the in-progress game of one session.
type State struct {
	Solution   string
	Attempts   int
	StartedAt  time.Time
	LastActive time.Time
}

// UpdateFunc receives the current state of a session (ok is false in NoGame)
// and returns the state to store. Returning keep=false removes the entry.
type UpdateFunc func(cur State, ok bool) (next State, keep bool)

// Store maps session ids to game state.
//
// Every operation on an id runs under that id's own mutex, so a
// read-modify-write on one session never interleaves with another on the
// same session while different sessions proceed in parallel. Per-id slots
// are reference counted and dropped once no caller holds them and no game
// is stored, which keeps memory proportional to active games.
type Store struct {
	mu     sync.Mutex       // guards slots, active and every slot.refs
	slots  map[string]*slot // keyed by session id
	active int              // slots currently holding a game
}

type slot struct {
	mu    sync.Mutex
	refs  int
	state State
	ok    bool
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{slots: make(map[string]*slot)}
}

// Update applies fn to the session id atomically.
func (s *Store) Update(id string, fn UpdateFunc) {
	sl := s.acquire(id)
	defer s.release(id, sl)

	was := sl.ok
	sl.state, sl.ok = fn(sl.state, sl.ok)
	if !sl.ok {
		sl.state = State{}
	}

	if was != sl.ok {
		s.mu.Lock()
		if sl.ok {
			s.active++
		} else {
			s.active--
		}
		s.mu.Unlock()
	}
}

// Get returns the state stored for id, if any.
func (s *Store) Get(id string) (State, bool) {
	var (
		st State
		ok bool
	)
	s.Update(id, func(cur State, found bool) (State, bool) {
		st, ok = cur, found
		return cur, found
	})
	return st, ok
}

// Len returns the number of sessions with a game in progress.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Sweep removes games whose LastActive is before cutoff and returns how many
// were removed.
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		s.Update(id, func(cur State, ok bool) (State, bool) {
			if ok && cur.LastActive.Before(cutoff) {
				removed++
				return State{}, false
			}
			return cur, ok
		})
	}
	return removed
}

func (s *Store) acquire(id string) *slot {
	s.mu.Lock()
	sl, ok := s.slots[id]
	if !ok {
		sl = &slot{}
		s.slots[id] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	return sl
}

// release must be called with sl.mu held. s.mu is taken before sl.mu is
// dropped so the emptiness check cannot race a concurrent writer.
func (s *Store) release(id string, sl *slot) {
	s.mu.Lock()
	sl.refs--
	if sl.refs == 0 && !sl.ok {
		delete(s.slots, id)
	}
	s.mu.Unlock()
	sl.mu.Unlock()
}
