// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"fmt"

	"github.com/pdiddy/article-console/internal/parse"
	"github.com/pdiddy/article-console/pkg/types"
)

// ImportSummary reports the outcome of an Import call.
type ImportSummary struct {
	Added    int
	Skipped  int
	Rejected []error
}

// Import validates articles and prepends the acceptable ones, keeping their
// relative order. Articles whose ID already exists are skipped.
func (m *Manager) Import(articles []types.Article) ImportSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	var summary ImportSummary
	seen := make(map[string]bool, len(m.articles)+len(articles))
	for _, a := range m.articles {
		seen[a.ID] = true
	}

	var accepted []types.Article
	for i, a := range articles {
		a = clone(a)
		if err := m.normalize(&a); err != nil {
			summary.Rejected = append(summary.Rejected, fmt.Errorf("article %d (%q): %w", i, a.Title, err))
			continue
		}
		if seen[a.ID] {
			summary.Skipped++
			continue
		}
		seen[a.ID] = true
		accepted = append(accepted, a)
	}

	if len(accepted) == 0 {
		return summary
	}
	m.articles = append(accepted, m.articles...)
	summary.Added = len(accepted)
	m.publishLocked()
	return summary
}

func (m *Manager) normalize(a *types.Article) error {
	if a.Status == "" {
		a.Status = types.StatusDraft
	}
	if !a.Status.Valid() {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if a.Status == types.StatusPublished && !a.HasImage() {
		return ErrImageRequired
	}
	if a.ID == "" {
		a.ID = m.newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now()
	}
	a.TotalScore = parse.ClampScore(a.TotalScore)
	return nil
}
