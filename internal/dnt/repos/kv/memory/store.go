// Package memory is an in-process kv.Store. It is the fallback when the
// persistent store cannot be opened and the default in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
)

// Prefix namespaces every key held by the store.
const Prefix = "dnt:"

type memStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	version uint64
	closed  bool
}

// New returns an empty store.
func New() kv.Store {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, kv.ErrClosed
	}
	v, ok := s.data[Prefix+key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *memStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[Prefix+key] = v
	s.version++
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	if _, ok := s.data[Prefix+key]; ok {
		delete(s.data, Prefix+key)
		s.version++
	}
	return nil
}

func (s *memStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, kv.ErrClosed
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, strings.TrimPrefix(k, Prefix))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memStore) Stats() kv.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return kv.Stats{Keys: uint64(len(s.data)), Version: s.version}
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
