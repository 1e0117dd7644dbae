// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pdiddy/article-console/pkg/types"
)

// maxSaveAttempts bounds how often Save re-merges after losing a
// conditional write.
const maxSaveAttempts = 5

// Adapter reads and writes the article collection through a Slot. It
// remembers the revision it last read or wrote, and the collection the
// manager held at that point, so a write that races another process is
// merged instead of overwriting it.
type Adapter struct {
	slot   Slot
	key    string
	logger *slog.Logger

	mu     sync.Mutex
	rev    string
	stored []types.Article
	base   []types.Article
}

// NewAdapter returns an Adapter writing under key, or DefaultKey when key
// is empty.
func NewAdapter(slot Slot, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

// Key returns the slot key in use.
func (a *Adapter) Key() string { return a.key }

// Load returns the stored collection. A missing key or a corrupt document
// yields an empty collection. A slot that cannot be read is an error, so the
// caller never mistakes an outage for an empty store.
func (a *Adapter) Load(ctx context.Context) ([]types.Article, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readLocked(ctx); err != nil {
		return nil, err
	}
	a.base = a.stored
	a.logger.Debug("articles loaded", "count", len(a.stored))
	return append([]types.Article{}, a.stored...), nil
}

// readLocked refreshes rev and stored from the slot.
func (a *Adapter) readLocked(ctx context.Context) error {
	e, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		return fmt.Errorf("reading articles: %w", err)
	}
	a.rev = e.Revision
	a.stored = []types.Article{}
	if !ok || e.Value == "" {
		return nil
	}

	var articles []types.Article
	if err := json.Unmarshal([]byte(e.Value), &articles); err != nil {
		a.logger.Warn("stored articles are corrupt, starting empty", "key", a.key, "error", err)
		return nil
	}
	if articles != nil {
		a.stored = articles
	}
	return nil
}

// Save writes the collection. If another writer got there first, the
// changes since the last Load or Save are merged onto what it stored and
// the write is retried.
func (a *Adapter) Save(ctx context.Context, articles []types.Article) error {
	if articles == nil {
		articles = []types.Article{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for attempt := 1; ; attempt++ {
		target := Merge(a.base, articles, a.stored)
		data, err := json.Marshal(target)
		if err != nil {
			return fmt.Errorf("marshaling articles: %w", err)
		}

		rev, err := a.slot.Put(ctx, a.key, string(data), a.rev)
		if err == nil {
			a.rev, a.stored, a.base = rev, target, articles
			return nil
		}
		if !errors.Is(err, ErrConflict) || attempt == maxSaveAttempts {
			return fmt.Errorf("saving articles: %w", err)
		}

		a.logger.Info("articles changed in storage, merging", "key", a.key, "attempt", attempt)
		if err := a.readLocked(ctx); err != nil {
			return fmt.Errorf("saving articles: %w", err)
		}
	}
}

// Subscriber adapts Save to the manager's mutation hook. Failures are
// logged and the in-memory collection is kept.
func (a *Adapter) Subscriber(ctx context.Context) func([]types.Article) {
	return func(articles []types.Article) {
		if err := a.Save(ctx, articles); err != nil {
			a.logger.Error("persisting articles", "count", len(articles), "error", err)
		}
	}
}
