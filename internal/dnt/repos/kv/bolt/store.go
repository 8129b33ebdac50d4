// Package bolt is a kv.Store persisted in a bbolt file.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
)

var (
	bucketData = []byte("dnt")
	bucketMeta = []byte("meta")
	keyVersion = []byte("version")
)

// DefaultTimeout bounds how long Open waits for the file lock.
const DefaultTimeout = time.Second

// boltStore implements kv.Store using bbolt.
type boltStore struct {
	db *bbolt.DB
}

// Open opens (or creates) a database at path and ensures buckets exist.
// A timeout <= 0 uses DefaultTimeout.
func Open(path string, timeout time.Duration) (kv.Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketData); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise store %s: %w", path, err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

func (s *boltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketData)
		if b == nil {
			return nil
		}
		// values are only valid for the life of the transaction
		if v := b.Get([]byte(key)); v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (s *boltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketData).Put([]byte(key), value); err != nil {
			return err
		}
		return bumpVersion(tx)
	})
}

func (s *boltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketData)
		if b.Get([]byte(key)) == nil {
			return nil
		}
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		return bumpVersion(tx)
	})
}

func (s *boltStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketData)
		if b == nil {
			return nil
		}
		// cursor order is byte-sorted
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (s *boltStore) Stats() kv.Stats {
	st := kv.Stats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketData); b != nil {
			st.Keys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
		}
		return nil
	})
	return st
}

func bumpVersion(tx *bbolt.Tx) error {
	b := tx.Bucket(bucketMeta)
	var n uint64
	if v := b.Get(keyVersion); len(v) == 8 {
		n = binary.BigEndian.Uint64(v)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n+1)
	return b.Put(keyVersion, buf)
}
