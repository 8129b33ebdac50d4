package kv

import (
	"context"
	"errors"
	"sort"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
)

// fallbackStore sends every operation to primary and retries it against
// secondary when primary fails.
type fallbackStore struct {
	primary   Store
	secondary Store
	logger    log.Logger
}

// Fallback composes two stores. A nil logger uses the global logger.
func Fallback(primary, secondary Store, logger log.Logger) Store {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &fallbackStore{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallbackStore) degrade(op, key string, err error) {
	f.logger.Warn(map[string]any{
		"op":    op,
		"key":   key,
		"error": err.Error(),
	}, "primary store failed, using fallback")
}

func (f *fallbackStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, found, err := f.primary.Get(ctx, key)
	if err == nil {
		return v, found, nil
	}
	f.degrade("get", key, err)
	return f.secondary.Get(ctx, key)
}

func (f *fallbackStore) Put(ctx context.Context, key string, value []byte) error {
	err := f.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	f.degrade("put", key, err)
	return f.secondary.Put(ctx, key, value)
}

func (f *fallbackStore) Delete(ctx context.Context, key string) error {
	err := f.primary.Delete(ctx, key)
	if err == nil {
		return nil
	}
	f.degrade("delete", key, err)
	return f.secondary.Delete(ctx, key)
}

// Keys returns the primary's keys, or the secondary's if primary fails.
func (f *fallbackStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := f.primary.Keys(ctx)
	if err == nil {
		return keys, nil
	}
	f.degrade("keys", "", err)
	keys, err = f.secondary.Keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Stats reports the primary's counts when it keeps any.
func (f *fallbackStore) Stats() Stats {
	if sr, ok := f.primary.(StatsReporter); ok {
		return sr.Stats()
	}
	return Stats{}
}

func (f *fallbackStore) Close() error {
	return errors.Join(f.primary.Close(), f.secondary.Close())
}
