// ABOUTME: Generic state container: a snapshot, a pure reducer and subscribers
// ABOUTME: Every Dispatch is one atomic commit observed in commit order

package state

import "sync"

// Reducer computes the next state from the current one and an event.
// Reducers must not mutate slices or maps reachable from the current state.
type Reducer[S, E any] func(S, E) S

// Store holds the committed state of one manager
type Store[S, E any] struct {
	mu     sync.Mutex
	state  S
	reduce Reducer[S, E]

	// Commits are numbered under mu; callbacks for commit n run only after
	// those for n-1 have returned
	seq     uint64
	serving uint64
	turn    *sync.Cond

	subsMu  sync.Mutex
	subs    map[int]func(S)
	nextSub int
}

// NewStore creates a store holding initial
func NewStore[S, E any](initial S, reduce Reducer[S, E]) *Store[S, E] {
	return &Store[S, E]{
		state:  initial,
		reduce: reduce,
		subs:   make(map[int]func(S)),
		turn:   sync.NewCond(&sync.Mutex{}),
	}
}

// Get returns the committed snapshot
func (s *Store[S, E]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies e and notifies subscribers with the resulting snapshot.
// Subscribers run after the state lock is released, so they may call Get,
// but they must not call Dispatch on the same store.
func (s *Store[S, E]) Dispatch(e E) S {
	s.mu.Lock()
	s.state = s.reduce(s.state, e)
	next := s.state
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	s.notify(seq, next)
	return next
}

// notify runs the subscribers for commit seq once every earlier commit has
// been delivered. The turn passes on even if a subscriber panics.
func (s *Store[S, E]) notify(seq uint64, next S) {
	s.turn.L.Lock()
	for s.serving != seq {
		s.turn.Wait()
	}
	s.turn.L.Unlock()

	defer func() {
		s.turn.L.Lock()
		s.serving++
		s.turn.Broadcast()
		s.turn.L.Unlock()
	}()

	for _, fn := range s.subscribers() {
		fn(next)
	}
}

// Subscribe registers fn for every future commit and returns a function that
// removes it
func (s *Store[S, E]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store[S, E]) subscribers() []func(S) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	fns := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}
