package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scope is the lifetime of a mounted view. Loads started through Go run
// concurrently and are cancelled on Unmount.
type Scope struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	group   errgroup.Group
	mounted bool
}

func NewScope() *Scope {
	return &Scope{}
}

// Mount activates the scope. Mounting an already mounted scope is a no-op.
func (s *Scope) Mount(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted {
		return
	}
	s.ctx, s.cancel = context.WithCancel(parent)
	s.mounted = true
}

// Unmount cancels in-flight loads; their results will be ignored.
func (s *Scope) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.mounted = false
	s.cancel()
}

func (s *Scope) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Go runs fn on its own goroutine with the scope context. It reports false
// when the scope is not mounted and fn was not started.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return false
	}
	ctx := s.ctx
	s.group.Go(func() error {
		fn(ctx)
		return nil
	})
	s.mu.Unlock()
	return true
}

// Wait blocks until every load started so far has settled.
func (s *Scope) Wait() {
	_ = s.group.Wait()
}
