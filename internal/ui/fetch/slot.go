package fetch

import (
	"context"
	"sync"

	"github.com/obraportal/portal-client/internal/core/domain"
)

// Ticket identifies one request issued for a Slot.
type Ticket uint64

// Slot holds the state of one tracked resource. Only the most recently
// issued ticket may resolve it.
type Slot[T any] struct {
	mu    sync.Mutex
	scope *Scope
	seq   uint64
	state State[T]
}

func NewSlot[T any](scope *Scope) *Slot[T] {
	return &Slot[T]{scope: scope}
}

// Begin moves the slot to Loading and returns the ticket of the new request.
func (s *Slot[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = State[T]{phase: Loading}
	return Ticket(s.seq)
}

// Resolve settles the request identified by t. Stale tickets and results
// arriving after the scope unmounted are dropped and false is returned.
func (s *Slot[T]) Resolve(t Ticket, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) != s.seq || !s.scope.Mounted() {
		return false
	}
	if err != nil {
		s.state = State[T]{phase: Failed, message: domain.UserMessage(err)}
		return true
	}
	s.state = State[T]{phase: Loaded, data: data}
	return true
}

// Reset returns the slot to Idle and invalidates any in-flight request.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = State[T]{}
}

// Update replaces loaded data in place. It is a no-op unless Loaded.
func (s *Slot[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.phase != Loaded {
		return false
	}
	s.state.data = fn(s.state.data)
	return true
}

func (s *Slot[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status satisfies Tracked.
func (s *Slot[T]) Status() (Phase, string) {
	st := s.State()
	return st.phase, st.message
}

// Load issues a request for slot on scope.
func Load[T any](scope *Scope, slot *Slot[T], fn func(ctx context.Context) (T, error)) {
	t := slot.Begin()
	started := scope.Go(func(ctx context.Context) {
		data, err := fn(ctx)
		slot.Resolve(t, data, err)
	})
	if !started {
		slot.Reset()
	}
}
