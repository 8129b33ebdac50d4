package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "dnt.db")
}

func TestBoltStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := tempDB(t)
	st, err := Open(path, 0)
	require.NoError(t, err)

	_, found, err := st.Get(ctx, "ruleFlags")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.Put(ctx, "ruleFlags", []byte(`{"topic:open-new-tab":false}`)))
	require.NoError(t, st.Put(ctx, "blacklist", []byte(`["spam.example"]`)))

	v, found, err := st.Get(ctx, "ruleFlags")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"topic:open-new-tab":false}`, string(v))

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blacklist", "ruleFlags"}, keys)

	require.NoError(t, st.Delete(ctx, "blacklist"))
	require.NoError(t, st.Delete(ctx, "blacklist"))

	stats := st.(kv.StatsReporter).Stats()
	assert.Equal(t, uint64(1), stats.Keys)
	assert.Equal(t, uint64(3), stats.Version, "a no-op delete does not bump the version")
	require.NoError(t, st.Close())

	// reopen: data persisted
	st, err = Open(path, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, found, err = st.Get(ctx, "ruleFlags")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBoltStore_LockTimeout(t *testing.T) {
	path := tempDB(t)
	st, err := Open(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = Open(path, 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bberrors.ErrTimeout))
}

func TestBoltStore_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "dnt.db"), 0)
	assert.Error(t, err)
}

func TestBoltStore_CanceledContext(t *testing.T) {
	st, err := Open(tempDB(t), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, st.Put(ctx, "k", []byte("1")), context.Canceled)
	_, err = st.Keys(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
