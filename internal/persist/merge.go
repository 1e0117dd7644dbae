// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"encoding/json"

	"github.com/pdiddy/article-console/pkg/types"
)

// Merge replays the changes that turned base into ours on top of theirs,
// the collection another writer stored meanwhile. Articles are matched by
// ID:
//
//   - added in ours: prepended, in ours order
//   - removed in ours: removed, even if theirs changed them
//   - changed in ours: ours wins
//   - anything else: theirs, in theirs order
//
// When theirs equals base the result equals ours.
func Merge(base, ours, theirs []types.Article) []types.Article {
	baseByID := index(base)
	oursByID := index(ours)

	out := make([]types.Article, 0, len(ours)+len(theirs))
	added := map[string]bool{}
	for _, a := range ours {
		if _, ok := baseByID[a.ID]; !ok {
			out = append(out, a)
			added[a.ID] = true
		}
	}

	for _, t := range theirs {
		if added[t.ID] {
			continue
		}
		b, inBase := baseByID[t.ID]
		o, inOurs := oursByID[t.ID]
		switch {
		case inBase && !inOurs:
			// Removed here.
		case inBase && !sameArticle(b, o):
			out = append(out, o)
		default:
			out = append(out, t)
		}
	}
	return out
}

func index(articles []types.Article) map[string]types.Article {
	m := make(map[string]types.Article, len(articles))
	for _, a := range articles {
		m[a.ID] = a
	}
	return m
}

// sameArticle compares the stored form, so timestamps that differ only in
// location or monotonic reading are equal.
func sameArticle(a, b types.Article) bool {
	x, errA := json.Marshal(a)
	y, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(x) == string(y)
}
