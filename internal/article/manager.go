// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article owns the article collection and its lifecycle.
//
// Manager is the only mutation surface for articles. Each operation applies
// its read-modify-write against the latest in-memory collection under one
// lock, so async results completing out of order never act on a stale
// snapshot. Persistence subscribes to mutations instead of being called
// from each call site.
package article

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/article-console/internal/parse"
	"github.com/pdiddy/article-console/pkg/types"
)

var (
	// ErrNotFound reports that no article has the requested identifier.
	ErrNotFound = errors.New("article not found")

	// ErrImageRequired blocks publishing an article without a featured image.
	ErrImageRequired = errors.New("a featured image is required before publishing")
)

// View is the screen the operator is looking at.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewNewArticle    View = "new-article"
	ViewReview        View = "review"
	ViewKnowledgeBase View = "knowledge-base"
)

// Subscriber receives a copy of the collection after every mutation.
type Subscriber func(articles []types.Article)

// Manager holds the canonical article collection, most recent first.
type Manager struct {
	mu          sync.Mutex
	articles    []types.Article
	selectedID  string
	view        View
	hydrated    bool
	subscribers []Subscriber

	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager returns an empty Manager that is not hydrated until the first
// successful Reload.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		view:  ViewDashboard,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to run after every mutation. Subscribers run under
// the manager lock, so they observe mutations in order and must not call
// back into the Manager.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Hydrated reports whether the initial load has completed.
func (m *Manager) Hydrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hydrated
}

// Reload replaces the collection with the one load returns, holding the
// manager lock across the call so no mutation lands between the read and
// the install. The first successful Reload hydrates the manager; until
// then mutations are applied in memory but never published to subscribers.
// On error the collection and hydration state are unchanged. A selection
// that no longer exists is cleared. Subscribers are not called.
func (m *Manager) Reload(load func() ([]types.Article, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	articles, err := load()
	if err != nil {
		return err
	}
	m.articles = cloneAll(articles)
	m.hydrated = true
	if m.selectedID != "" && m.indexLocked(m.selectedID) < 0 {
		m.selectedID = ""
		if m.view == ViewReview {
			m.view = ViewDashboard
		}
	}
	return nil
}

// CreateFromGeneration builds a draft from generated fields, prepends it to
// the collection, and selects it for review.
func (m *Manager) CreateFromGeneration(query string, fields types.GeneratedFields) types.Article {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := types.Article{
		ID:                m.newID(),
		Query:             query,
		Title:             fields.Title,
		MetaTitle:         fields.MetaTitle,
		MetaDescription:   fields.MetaDescription,
		Slug:              fields.Slug,
		HTML:              fields.HTML,
		TotalScore:        parse.ClampScore(fields.TotalScore),
		EvaluationSummary: fields.EvaluationSummary,
		ChangesMade:       fields.ChangesMade,
		Status:            types.StatusDraft,
		CreatedAt:         m.now(),
	}

	m.articles = append([]types.Article{a}, m.articles...)
	m.selectedID = a.ID
	m.view = ViewReview
	m.publishLocked()
	return clone(a)
}

// AttachImage sets the three image fields of the article with id. It
// returns false, changing nothing, when the article no longer exists.
func (m *Manager) AttachImage(id, url, description, promptUsed string) bool {
	return m.update(id, func(a *types.Article) bool {
		a.ImageURL = strPtr(url)
		a.ImageDescription = strPtr(description)
		a.ImagePromptUsed = strPtr(promptUsed)
		return true
	})
}

// EditMetadata replaces the four metadata fields as a whole.
func (m *Manager) EditMetadata(id string, meta types.Metadata) bool {
	return m.update(id, func(a *types.Article) bool {
		a.Title = meta.Title
		a.MetaTitle = meta.MetaTitle
		a.MetaDescription = meta.MetaDescription
		a.Slug = meta.Slug
		return true
	})
}

// EditContent replaces the HTML body.
func (m *Manager) EditContent(id, html string) bool {
	return m.update(id, func(a *types.Article) bool {
		a.HTML = html
		return true
	})
}

// CanPublish reports whether Publish would succeed for id. It returns nil
// for an already published article.
func (m *Manager) CanPublish(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	return publishable(m.articles[i])
}

// Publish moves a draft or pending article to published. It is a no-op for
// an article that is already published, and returns ErrImageRequired,
// leaving the status untouched, when no image is attached.
func (m *Manager) Publish(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	a := &m.articles[i]
	if a.Status == types.StatusPublished {
		return nil
	}
	if err := publishable(*a); err != nil {
		return err
	}
	a.Status = types.StatusPublished
	m.publishLocked()
	return nil
}

func publishable(a types.Article) error {
	if !a.HasImage() {
		return ErrImageRequired
	}
	return nil
}

// Delete removes the article with id. Deleting the selected article clears
// the selection and returns to the dashboard.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	m.articles = append(m.articles[:i:i], m.articles[i+1:]...)
	if m.selectedID == id {
		m.selectedID = ""
		m.view = ViewDashboard
	}
	m.publishLocked()
	return true
}

// Get returns a copy of the article with id.
func (m *Manager) Get(id string) (types.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return types.Article{}, false
	}
	return clone(m.articles[i]), true
}

// List returns a copy of the whole collection, most recent first.
func (m *Manager) List() []types.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.articles)
}

// Len returns the number of articles.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.articles)
}

// Filter returns the articles matching f, keeping collection order.
func (m *Manager) Filter(f types.StatusFilter) []types.Article {
	return FilterArticles(m.List(), f)
}

// Counts tallies the collection by status.
func (m *Manager) Counts() types.StatusCounts {
	return CountArticles(m.List())
}

// Select makes id the active selection and opens it for review.
func (m *Manager) Select(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexLocked(id) < 0 {
		return false
	}
	m.selectedID = id
	m.view = ViewReview
	return true
}

// Selected resolves the selection against the current collection.
func (m *Manager) Selected() (types.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedID == "" {
		return types.Article{}, false
	}
	i := m.indexLocked(m.selectedID)
	if i < 0 {
		return types.Article{}, false
	}
	return clone(m.articles[i]), true
}

// SelectedID returns the raw selected identifier, which may be empty.
func (m *Manager) SelectedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedID
}

// ClearSelection drops the selection and returns to the dashboard.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedID = ""
	m.view = ViewDashboard
}

// View returns the current screen.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// SetView switches screens without touching the selection.
func (m *Manager) SetView(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = v
}

// update applies fn to the article with id and publishes the result when
// fn reports a change.
func (m *Manager) update(id string, fn func(a *types.Article) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return false
	}
	if !fn(&m.articles[i]) {
		return false
	}
	m.publishLocked()
	return true
}

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range m.articles {
		if m.articles[i].ID == id {
			return i
		}
	}
	return -1
}

// publishLocked hands a snapshot to every subscriber once hydrated.
func (m *Manager) publishLocked() {
	if !m.hydrated || len(m.subscribers) == 0 {
		return
	}
	snapshot := cloneAll(m.articles)
	for _, fn := range m.subscribers {
		fn(snapshot)
	}
}

// FilterArticles is the pure status filter over any collection.
func FilterArticles(articles []types.Article, f types.StatusFilter) []types.Article {
	out := make([]types.Article, 0, len(articles))
	for _, a := range articles {
		if f.Matches(a.Status) {
			out = append(out, a)
		}
	}
	return out
}

// CountArticles tallies articles by status.
func CountArticles(articles []types.Article) types.StatusCounts {
	c := types.StatusCounts{All: len(articles)}
	for _, a := range articles {
		switch a.Status {
		case types.StatusDraft:
			c.Draft++
		case types.StatusPublished:
			c.Published++
		case types.StatusPending:
			c.Pending++
		}
	}
	return c
}

func strPtr(s string) *string {
	return &s
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}

// clone copies a so callers never share the image field pointers.
func clone(a types.Article) types.Article {
	a.ImageURL = clonePtr(a.ImageURL)
	a.ImageDescription = clonePtr(a.ImageDescription)
	a.ImagePromptUsed = clonePtr(a.ImagePromptUsed)
	return a
}

func cloneAll(articles []types.Article) []types.Article {
	out := make([]types.Article, len(articles))
	for i, a := range articles {
		out[i] = clone(a)
	}
	return out
}
