package approuter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Router is implemented by every generated router.
type Router interface {
	// Resolve returns a RouteFunc bound to the router for key.
	Resolve(key RouteKey) (any, bool)
}

type binder[R any] func(router R, obs Observer, table string) any

type observerSlot struct {
	obs Observer
}

// Table stores the routes declared for router type R. Generated code fills
// it from init; after that it is only read.
type Table[R any] struct {
	name     string
	mu       sync.RWMutex
	routes   map[RouteKey]binder[R]
	observer atomic.Pointer[observerSlot]
}

// NewTable creates an empty table.
func NewTable[R any](name string) *Table[R] {
	return &Table[R]{
		name:   name,
		routes: make(map[RouteKey]binder[R]),
	}
}

// Register adds the route for message M sent by S. fn is usually a method
// expression such as (*AppRouter).RouteMySourceMyMessage.
func Register[S, M, Resp, R any](t *Table[R], fn func(R, context.Context, *M) (Resp, error)) error {
	if fn == nil {
		return fmt.Errorf("approuter: nil route for %s", KeyOf[S, M, Resp]())
	}
	key := KeyOf[S, M, Resp]()
	bind := func(router R, obs Observer, table string) any {
		if obs == nil {
			return RouteFunc[M, Resp](func(ctx context.Context, msg *M) (Resp, error) {
				return fn(router, ctx, msg)
			})
		}
		return RouteFunc[M, Resp](func(ctx context.Context, msg *M) (Resp, error) {
			start := time.Now()
			ctx = obs.RouteStarted(ctx, table, key)
			out, err := fn(router, ctx, msg)
			obs.RouteFinished(ctx, table, key, time.Since(start), err)
			return out, err
		})
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.routes[key]; ok {
		return fmt.Errorf("%w: %s in %s", ErrDuplicateRoute, key, t.name)
	}
	t.routes[key] = bind
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func MustRegister[S, M, Resp, R any](t *Table[R], fn func(R, context.Context, *M) (Resp, error)) {
	if err := Register[S, M, Resp](t, fn); err != nil {
		panic(err)
	}
}

// Resolve returns the route for key bound to router.
func (t *Table[R]) Resolve(router R, key RouteKey) (any, bool) {
	t.mu.RLock()
	bind, ok := t.routes[key]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	var obs Observer
	if slot := t.observer.Load(); slot != nil {
		obs = slot.obs
	}
	return bind(router, obs, t.name), true
}

// Observe installs o for routes resolved after the call. A nil o removes
// the current observer.
func (t *Table[R]) Observe(o Observer) {
	if o == nil {
		t.observer.Store(nil)
		return
	}
	t.observer.Store(&observerSlot{obs: o})
}

func (t *Table[R]) Name() string {
	return t.name
}

func (t *Table[R]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// Keys returns the registered keys ordered by their string form.
func (t *Table[R]) Keys() []RouteKey {
	t.mu.RLock()
	keys := make([]RouteKey, 0, len(t.routes))
	for key := range t.routes {
		keys = append(keys, key)
	}
	t.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
