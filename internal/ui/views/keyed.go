// Package views holds the resource-bound screens of the portal. Each view
// owns its fetch slots and dialogs; rendering is decided by fetch.Decide.
package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// keyed is a single-slot view whose request needs one id (a building or a
// worker). Views that need no id set unkeyed.
type keyed[T any] struct {
	name    string
	scope   *fetch.Scope
	slot    *fetch.Slot[T]
	text    fetch.Copy
	unkeyed bool
	empty   func(T) bool
	load    func(ctx context.Context, key int64) (T, error)
	log     zerolog.Logger

	mu  sync.Mutex
	key *int64
}

func newKeyed[T any](name string, text fetch.Copy, empty func(T) bool, load func(context.Context, int64) (T, error), log zerolog.Logger) *keyed[T] {
	scope := fetch.NewScope()
	return &keyed[T]{
		name:  name,
		scope: scope,
		slot:  fetch.NewSlot[T](scope),
		text:  text,
		empty: empty,
		load:  load,
		log:   log.With().Str("view", name).Logger(),
	}
}

func isEmptyList[T any](v []T) bool { return len(v) == 0 }

// Mount activates the view and issues its request when the key is known.
func (k *keyed[T]) Mount(ctx context.Context) {
	k.scope.Mount(ctx)
	k.Reload()
}

// Unmount drops every in-flight result.
func (k *keyed[T]) Unmount() {
	k.scope.Unmount()
	k.slot.Reset()
}

// SetKey changes the key dependency and reloads when it differs.
func (k *keyed[T]) SetKey(id int64) {
	k.mu.Lock()
	if k.key != nil && *k.key == id {
		k.mu.Unlock()
		return
	}
	k.key = &id
	k.mu.Unlock()
	k.Reload()
}

// ClearKey puts the view back into waiting for its prerequisite.
func (k *keyed[T]) ClearKey() {
	k.mu.Lock()
	k.key = nil
	k.mu.Unlock()
	k.slot.Reset()
}

func (k *keyed[T]) Key() (int64, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.key == nil {
		return 0, k.unkeyed
	}
	return *k.key, true
}

// Reload re-issues the request. It is also the refresh callback of the
// view's dialogs.
func (k *keyed[T]) Reload() {
	if !k.scope.Mounted() {
		return
	}
	key, ok := k.Key()
	if !ok {
		k.slot.Reset()
		return
	}
	k.log.Debug().Int64("key", key).Msg("loading")
	fetch.Load(k.scope, k.slot, func(ctx context.Context) (T, error) {
		v, err := k.load(ctx, key)
		if err != nil && ctx.Err() == nil {
			k.log.Warn().Err(err).Int64("key", key).Msg("load failed")
		}
		return v, err
	})
}

// Wait blocks until in-flight loads settle.
func (k *keyed[T]) Wait() { k.scope.Wait() }

func (k *keyed[T]) State() fetch.State[T] { return k.slot.State() }

func (k *keyed[T]) Render() fetch.Render {
	_, ok := k.Key()
	data, loaded := k.slot.State().Data()
	return fetch.Decide(!ok, loaded && k.empty(data), k.text, k.slot)
}

// Items returns the loaded data, or the zero value when not loaded.
func (k *keyed[T]) Items() T {
	data, _ := k.slot.State().Data()
	return data
}
