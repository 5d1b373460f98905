package reqscope

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Provider describes how to build, check and dispose of one kind of resource.
// Release and Valid are optional.
type Provider[T any] struct {
	Create  func(ctx context.Context) (T, error)
	Release func(T) error
	Valid   func(T) bool
}

// Scope caches resources for the lifetime of a single request.
// Close releases them in reverse acquisition order.
type Scope struct {
	mu      sync.Mutex
	entries map[any]*entry
	order   []any
	closed  bool
}

type entry struct {
	value   any
	release func() error
}

type scopeKey struct{}

// New attaches a fresh Scope to ctx. The caller owns the scope and must Close it.
func New(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{entries: make(map[any]*entry)}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// FromContext returns the Scope attached to ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// Len reports how many resources the scope currently holds.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases every cached resource, newest first, and marks the scope
// closed. Release errors are joined. Calling Close again is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	order := s.order
	entries := s.entries
	s.order = nil
	s.entries = nil
	s.mu.Unlock()

	var errs []error
	for _, key := range slices.Backward(order) {
		if err := entries[key].release(); err != nil {
			errs = append(errs, fmt.Errorf("release %v: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Get returns the resource cached under key in the scope carried by ctx.
// A missing resource, or one that p.Valid rejects, is (re)built with
// p.Create; the rejected one is released first.
//
// The scope lock is held while Create runs, so concurrent callers for the
// same request share one resource. Create must not call Get on the same scope.
//
//	conn, err := reqscope.Get(ctx, connKey{}, reqscope.Provider[*pgxpool.Conn]{
//		Create:  pool.Acquire,
//		Release: func(c *pgxpool.Conn) error { c.Release(); return nil },
//	})
func Get[T any](ctx context.Context, key any, p Provider[T]) (T, error) {
	var zero T

	s, ok := FromContext(ctx)
	if !ok {
		return zero, ErrNoScope
	}
	if p.Create == nil {
		return zero, ErrNilConstructor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return zero, ErrScopeClosed
	}

	if e, found := s.entries[key]; found {
		v, ok := e.value.(T)
		if !ok {
			return zero, fmt.Errorf("%w: key %v holds %T", ErrTypeMismatch, key, e.value)
		}
		if p.Valid == nil || p.Valid(v) {
			return v, nil
		}

		s.drop(key)
		if err := e.release(); err != nil {
			return zero, fmt.Errorf("release stale %v: %w", key, err)
		}
	}

	v, err := p.Create(ctx)
	if err != nil {
		return zero, err
	}

	s.entries[key] = &entry{value: v, release: releaser(p.Release, v)}
	s.order = append(s.order, key)

	return v, nil
}

// drop forgets key without releasing it. The caller holds s.mu.
func (s *Scope) drop(key any) {
	delete(s.entries, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func releaser[T any](release func(T) error, v T) func() error {
	if release == nil {
		return func() error { return nil }
	}
	return func() error { return release(v) }
}
