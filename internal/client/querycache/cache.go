// Package querycache implements the client-side list cache behind the
// optimistic mutation engine: fingerprint-keyed entries holding either the
// last confirmed server response or a single speculative edit, with
// in-flight fetch cancellation, whole-namespace invalidation, placeholder
// identities for speculative creations, and a keystroke debouncer.
package querycache

import (
	"context"
	"strings"
	"sync"
)

// List is a cached page of entity records plus the pagination metadata the
// server sent with it.
type List[T any] struct {
	Items    []T
	LastPage int
	Total    int
}

// Clone returns a copy whose Items slice can be mutated without touching the
// original. Records themselves are treated as immutable values.
func (l List[T]) Clone() List[T] {
	out := l
	out.Items = make([]T, len(l.Items))
	copy(out.Items, l.Items)
	return out
}

type entry[T any] struct {
	list   List[T]
	ok     bool
	stale  bool
	cancel context.CancelFunc
	fetch  context.Context
}

// Store is a per-entity-type list cache. A given fingerprint's slot is only
// ever written by the fetch that owns it or by one speculative mutation at a
// time; CancelInflight before speculating serializes the writers.
type Store[T any] struct {
	mu          sync.Mutex
	entries     map[string]*entry[T]
	placeholder int64
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: map[string]*entry[T]{}}
}

func (s *Store[T]) get(f Fingerprint) *entry[T] {
	e, ok := s.entries[f.Key()]
	if !ok {
		e = &entry[T]{}
		s.entries[f.Key()] = e
	}
	return e
}

// Get returns the cached list for f. A stale (invalidated) or absent entry
// reports ok=false, signalling the caller to refetch.
func (s *Store[T]) Get(f Fingerprint) (List[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[f.Key()]
	if !ok || !e.ok || e.stale {
		return List[T]{}, false
	}
	return e.list, true
}

// Set stores a confirmed or speculative value for f.
func (s *Store[T]) Set(f Fingerprint, list List[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(f)
	e.list = list
	e.ok = true
	e.stale = false
}

// Snapshot returns a defensive copy of the current value for f, suitable for
// verbatim restoration after a failed mutation.
func (s *Store[T]) Snapshot(f Fingerprint) (List[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[f.Key()]
	if !ok || !e.ok || e.stale {
		return List[T]{}, false
	}
	return e.list.Clone(), true
}

// Restore puts a snapshot back into f's slot, replacing whatever speculative
// value is there.
func (s *Store[T]) Restore(f Fingerprint, prev List[T]) {
	s.Set(f, prev)
}

// CancelInflight aborts any fetch currently owning f's slot, so a late
// response cannot overwrite a speculative or newer value.
func (s *Store[T]) CancelInflight(f Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[f.Key()]; ok && e.cancel != nil {
		e.cancel()
		e.cancel = nil
		e.fetch = nil
	}
}

// BeginFetch registers a new fetch for f, cancelling any previous one, and
// returns the context the request must run under.
func (s *Store[T]) BeginFetch(ctx context.Context, f Fingerprint) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(f)
	if e.cancel != nil {
		e.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.fetch = fctx
	return fctx
}

// CompleteFetch stores a fetched list into f's slot, but only if fctx still
// owns the slot: a fetch that was cancelled or superseded loses the race and
// its result is dropped.
func (s *Store[T]) CompleteFetch(fctx context.Context, f Fingerprint, list List[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[f.Key()]
	if !ok || e.fetch != fctx || fctx.Err() != nil {
		return false
	}
	e.cancel = nil
	e.fetch = nil
	e.list = list
	e.ok = true
	e.stale = false
	return true
}

// Invalidate marks every cached entry of the entity namespace stale, so all
// open views refetch authoritative data on next read.
func (s *Store[T]) Invalidate(entity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, entity+"|") {
			e.stale = true
		}
	}
}

// PlaceholderID returns a synthetic primary key for a speculative creation:
// negative and strictly decreasing, guaranteed disjoint from real keys.
func (s *Store[T]) PlaceholderID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeholder--
	return s.placeholder
}
