// pkg/memcache/sessions.go
package mem

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionStore keeps one value per key for a sliding TTL.
type SessionStore[T any] interface {
	// Get returns the value for key if present and not expired.
	Get(key string) (T, bool)

	// Set stores value and restarts the key's TTL.
	Set(key string, value T)

	Delete(key string)

	// Lock serializes work on one key; call the returned func to release it.
	Lock(key string) func()
}

type Sessions[T any] struct {
	cache *cache.Cache
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessions[T any](ttl time.Duration) *Sessions[T] {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Sessions[T]{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
		locks: make(map[string]*keyLock),
	}
}

func (s *Sessions[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := s.cache.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (s *Sessions[T]) Set(key string, value T) {
	s.cache.Set(key, value, s.ttl)
}

func (s *Sessions[T]) Delete(key string) {
	s.cache.Delete(key)
}

func (s *Sessions[T]) Len() int {
	return s.cache.ItemCount()
}

func (s *Sessions[T]) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
