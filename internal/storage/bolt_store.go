package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atonixcorp/atonix-go/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	runBucket    = "runs"
	keyTimeBytes = 8
)

// storedRun is the on-disk value: the run plus its retention deadline.
type storedRun struct {
	Run       domain.Run `json:"run"`
	ExpiresAt int64      `json:"expires_at"`
}

// boltStore implements a Store backed by BoltDB. Keys are the big-endian
// start time in unix nanoseconds followed by the run ID, so cursor order is
// chronological.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	runTTL          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		runTTL:          opts.RunTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record persists run. A zero StartedAt is replaced with the current time.
func (b *boltStore) Record(run domain.Run) error {
	if b == nil || b.db == nil {
		return nil
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}

	value, err := json.Marshal(storedRun{Run: run, ExpiresAt: now.Add(b.runTTL).Unix()})
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket missing")
		}
		return bucket.Put(runKey(run), value)
	})
}

// Recent returns up to limit unexpired runs, newest first.
func (b *boltStore) Recent(limit int) ([]domain.Run, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	runs := make([]domain.Run, 0, limit)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil && len(runs) < limit; k, v = cursor.Prev() {
			rec, ok := decodeRun(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				continue
			}
			runs = append(runs, rec.Run)
		}
		return nil
	})
	return runs, err
}

// maybeCleanupExpired removes expired runs on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucket))
		if bucket == nil {
			return fmt.Errorf("run bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; {
			rec, ok := decodeRun(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				key := append([]byte(nil), k...)
				if err := cursor.Delete(); err != nil {
					return err
				}
				// Next after Delete skips an element; re-seek instead.
				k, v = cursor.Seek(key)
				continue
			}
			k, v = cursor.Next()
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func runKey(run domain.Run) []byte {
	key := make([]byte, keyTimeBytes, keyTimeBytes+len(run.ID))
	binary.BigEndian.PutUint64(key, uint64(run.StartedAt.UnixNano()))
	return append(key, run.ID...)
}

// decodeRun decodes a stored run; malformed values report ok=false.
func decodeRun(value []byte) (storedRun, bool) {
	var rec storedRun
	if err := json.Unmarshal(value, &rec); err != nil {
		return storedRun{}, false
	}
	if rec.ExpiresAt <= 0 {
		return storedRun{}, false
	}
	return rec, true
}
