// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist keeps the article collection in a single key-value slot.
// The whole collection is written as one JSON document after every change.
// Writes are conditional on the revision last read, and a lost race is
// merged rather than overwritten.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/pdiddy/article-console/pkg/types"
)

// DefaultKey is the slot key holding the serialized collection.
const DefaultKey = "solutionmots_articles"

// ErrConflict reports a conditional Put that lost to another writer.
var ErrConflict = errors.New("slot changed since it was read")

// Entry is a stored value and the revision it was written at.
type Entry struct {
	Value    string
	Revision string
}

// Slot is a string-keyed durable store with optimistic concurrency. Get
// reports ok=false, with a nil error, when the key has never been written.
// Put writes only while the stored revision still equals rev ("" meaning the
// key is absent) and returns the new revision, or ErrConflict.
type Slot interface {
	Get(ctx context.Context, key string) (e Entry, ok bool, err error)
	Put(ctx context.Context, key, value, rev string) (string, error)
	Close() error
}

// Open returns the Slot selected by cfg.Backend. An empty backend means
// sqlite.
func Open(cfg types.StorageConfig) (Slot, error) {
	switch cfg.Backend {
	case "", types.StorageSQLite:
		return NewSQLiteSlot(cfg.Path)
	case types.StorageS3:
		return NewObjectSlot(cfg.S3)
	case types.StorageMemory:
		return NewMemorySlot(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// MemorySlot is an in-process Slot that forgets everything on exit.
type MemorySlot struct {
	mu      sync.Mutex
	entries map[string]Entry
	puts    int
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{entries: map[string]Entry{}}
}

func (m *MemorySlot) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemorySlot) Put(_ context.Context, key, value, rev string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[key].Revision != rev {
		return "", ErrConflict
	}
	m.puts++
	next := strconv.Itoa(m.puts)
	m.entries[key] = Entry{Value: value, Revision: next}
	return next, nil
}

// Puts reports how many writes the slot has accepted.
func (m *MemorySlot) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

func (m *MemorySlot) Close() error { return nil }
