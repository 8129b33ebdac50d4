package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv/memory"
)

var errBroken = errors.New("storage unavailable")

type brokenStore struct{ closed bool }

func (b *brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBroken
}
func (b *brokenStore) Put(context.Context, string, []byte) error { return errBroken }
func (b *brokenStore) Delete(context.Context, string) error      { return errBroken }
func (b *brokenStore) Keys(context.Context) ([]string, error)    { return nil, errBroken }
func (b *brokenStore) Close() error                              { b.closed = true; return nil }

type warnLogger struct{ warns int }

func (l *warnLogger) Info(map[string]any, string)  {}
func (l *warnLogger) Error(map[string]any, string) {}
func (l *warnLogger) Debug(map[string]any, string) {}
func (l *warnLogger) Warn(map[string]any, string)  { l.warns++ }
func (l *warnLogger) Panic(map[string]any, string) {}
func (l *warnLogger) Fatal(map[string]any, string) {}

func TestFallback_DegradesToSecondary(t *testing.T) {
	ctx := context.Background()
	primary := &brokenStore{}
	secondary := memory.New()
	logger := &warnLogger{}
	s := kv.Fallback(primary, secondary, logger)

	require.NoError(t, s.Put(ctx, "debug:enabled", []byte("true")))
	v, found, err := s.Get(ctx, "debug:enabled")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", string(v))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"debug:enabled"}, keys)

	require.NoError(t, s.Delete(ctx, "debug:enabled"))
	assert.Equal(t, 4, logger.warns)

	require.NoError(t, s.Close())
	assert.True(t, primary.closed)
}

func TestFallback_PrefersPrimary(t *testing.T) {
	ctx := context.Background()
	primary := memory.New()
	secondary := memory.New()
	s := kv.Fallback(primary, secondary, &warnLogger{})

	require.NoError(t, s.Put(ctx, "k", []byte("1")))
	_, found, err := secondary.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	v, _, _ := primary.Get(ctx, "k")
	assert.Equal(t, "1", string(v))
}

func TestFallback_BothFail(t *testing.T) {
	s := kv.Fallback(&brokenStore{}, &brokenStore{}, &warnLogger{})
	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errBroken)
}

func TestFallback_Stats(t *testing.T) {
	ctx := context.Background()
	primary := memory.New()
	s := kv.Fallback(primary, memory.New(), &warnLogger{})
	require.NoError(t, s.Put(ctx, "a", []byte("1")))
	require.NoError(t, s.Put(ctx, "b", []byte("2")))

	sr, ok := s.(kv.StatsReporter)
	require.True(t, ok)
	assert.Equal(t, primary.(kv.StatsReporter).Stats(), sr.Stats())
	assert.Equal(t, uint64(2), sr.Stats().Keys)

	assert.Equal(t, kv.Stats{}, kv.Fallback(&brokenStore{}, memory.New(), nil).(kv.StatsReporter).Stats())
}
