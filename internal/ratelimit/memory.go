package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
)

const bucketTable = "bucket"

// bucket is the memdb row for one client key
type bucket struct {
	Key  string
	Hits []int64 // unix nanos, oldest first
	Last int64
}

// MemoryStore keeps buckets in process memory. Writes go through memdb
// write transactions, which are serialized, so Hit is atomic per process.
type MemoryStore struct {
	db *memdb.MemDB
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() (*MemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			bucketTable: {
				Name: bucketTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit table: %w", err)
	}

	return &MemoryStore{db: db}, nil
}

// Hit implements Store
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, max int) (Result, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bucketTable, "id", key)
	if err != nil {
		return Result{}, err
	}

	var hits []int64
	if raw != nil {
		for _, ts := range raw.(*bucket).Hits {
			if withinWindow(time.Unix(0, ts), now, window) {
				hits = append(hits, ts)
			}
		}
	}

	res := Result{Allowed: len(hits) < max}
	if res.Allowed {
		hits = append(hits, now.UnixNano())
	}
	res.Count = len(hits)
	if len(hits) > 0 {
		res.Oldest = time.Unix(0, hits[0]).UTC()
	}

	// Rows are immutable once inserted, so always write a fresh one
	row := &bucket{Key: key, Hits: hits, Last: now.UnixNano()}
	if len(hits) > 0 {
		row.Last = hits[len(hits)-1]
	}
	if err := txn.Insert(bucketTable, row); err != nil {
		return Result{}, err
	}

	txn.Commit()
	return res, nil
}

// Sweep deletes every bucket whose newest admission has left the window
// and returns how many were removed.
func (s *MemoryStore) Sweep(now time.Time, window time.Duration) (int, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(bucketTable, "id")
	if err != nil {
		return 0, err
	}

	var stale []*bucket
	for obj := it.Next(); obj != nil; obj = it.Next() {
		b := obj.(*bucket)
		if !withinWindow(time.Unix(0, b.Last), now, window) {
			stale = append(stale, b)
		}
	}

	for _, b := range stale {
		if err := txn.Delete(bucketTable, b); err != nil {
			return 0, err
		}
	}

	txn.Commit()
	return len(stale), nil
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(bucketTable, "id")
	if err != nil {
		return 0
	}

	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}
