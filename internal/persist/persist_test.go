// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-console/internal/article"
	"github.com/pdiddy/article-console/pkg/types"
)

// --- test helpers ---

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSQLiteSlot(t *testing.T) *SQLiteSlot {
	t.Helper()
	slot, err := NewSQLiteSlot(filepath.Join(t.TempDir(), "data", "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })
	return slot
}

func sampleWithImage() []types.Article {
	img := "https://x/img.png"
	return []types.Article{
		{
			ID:         "a-1",
			Query:      "zebres bipedes",
			Title:      "Zebres Bipedes",
			HTML:       "<h1>Zebres</h1>",
			TotalScore: 87,
			ImageURL:   &img,
			Status:     types.StatusPublished,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "a-2",
			Query:     "fruit tropical",
			Title:     "Fruit Tropical",
			Status:    types.StatusDraft,
			CreatedAt: time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC),
		},
	}
}

// failingSlot errors on every call.
type failingSlot struct{}

func (failingSlot) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("disk on fire")
}
func (failingSlot) Put(context.Context, string, string, string) (string, error) {
	return "", errors.New("disk on fire")
}
func (failingSlot) Close() error { return nil }

// flakySlot fails the next readFailures reads, then behaves like its
// MemorySlot.
type flakySlot struct {
	*MemorySlot
	readFailures int
}

func (f *flakySlot) Get(ctx context.Context, key string) (Entry, bool, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return Entry{}, false, errors.New("i/o timeout")
	}
	return f.MemorySlot.Get(ctx, key)
}

func storedIDs(t *testing.T, slot Slot) []string {
	t.Helper()
	got, err := NewAdapter(slot, "", quietLogger()).Load(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	return ids
}

func loadInto(t *testing.T, m *article.Manager, a *Adapter) {
	t.Helper()
	require.NoError(t, m.Reload(func() ([]types.Article, error) { return a.Load(context.Background()) }))
}

// --- slots ---

func TestSQLiteSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := testSQLiteSlot(t)

	_, ok, err := slot.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	rev1, err := slot.Put(ctx, "k", "first", "")
	require.NoError(t, err)
	rev2, err := slot.Put(ctx, "k", "second", rev1)
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)

	e, ok, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Entry{Value: "second", Revision: rev2}, e)

	updated, err := time.Parse(time.RFC3339Nano, e.Revision)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), updated, time.Minute)
}

func TestSlotConditionalPut(t *testing.T) {
	slots := map[string]func(t *testing.T) Slot{
		"sqlite": func(t *testing.T) Slot { return testSQLiteSlot(t) },
		"memory": func(*testing.T) Slot { return NewMemorySlot() },
	}
	for name, open := range slots {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			slot := open(t)

			rev, err := slot.Put(ctx, "k", "v1", "")
			require.NoError(t, err)

			_, err = slot.Put(ctx, "k", "other", "")
			assert.ErrorIs(t, err, ErrConflict, "insert over an existing key")

			_, err = slot.Put(ctx, "k", "stale", "not-the-revision")
			assert.ErrorIs(t, err, ErrConflict, "update from a stale revision")

			_, err = slot.Put(ctx, "k", "v2", rev)
			require.NoError(t, err)

			_, err = slot.Put(ctx, "k", "v3", rev)
			assert.ErrorIs(t, err, ErrConflict, "a revision is good for one write")

			e, _, err := slot.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", e.Value)
		})
	}
}

func TestSQLiteSlotRevisionAdvancesOnCoarseClock(t *testing.T) {
	ctx := context.Background()
	slot := testSQLiteSlot(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot.now = func() time.Time { return fixed }

	rev1, err := slot.Put(ctx, "k", "a", "")
	require.NoError(t, err)
	rev2, err := slot.Put(ctx, "k", "b", rev1)
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)
}

func TestSQLiteSlotPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	slot, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	_, err = slot.Put(ctx, DefaultKey, `[]`, "")
	require.NoError(t, err)
	require.NoError(t, slot.Close())

	reopened, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	defer reopened.Close()

	e, ok, err := reopened.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, e.Value)
}

func TestOpen(t *testing.T) {
	slot, err := Open(types.StorageConfig{Backend: types.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemorySlot{}, slot)

	slot, err = Open(types.StorageConfig{Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSlot{}, slot)
	slot.Close()

	_, err = Open(types.StorageConfig{Backend: "floppy"})
	assert.Error(t, err)
}

func TestNewObjectSlotValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.ObjectStoreConfig
		wantErr string
	}{
		{"missing endpoint", types.ObjectStoreConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "set storage.s3.endpoint"},
		{"missing keys", types.ObjectStoreConfig{Endpoint: "localhost:9000", Bucket: "b"}, "storage.s3.access_key, storage.s3.secret_key"},
		{"missing bucket", types.ObjectStoreConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "set storage.s3.bucket"},
		{"blank fields", types.ObjectStoreConfig{Endpoint: " ", AccessKey: " ", SecretKey: " ", Bucket: " "}, "storage.s3.endpoint, storage.s3.access_key, storage.s3.secret_key, storage.s3.bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObjectSlot(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	slot, err := NewObjectSlot(types.ObjectStoreConfig{
		Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "articles", Prefix: "/console/",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, slot.cfg.Region)
	assert.Equal(t, "console/"+DefaultKey+".json", slot.objectKey(DefaultKey))
}

// --- adapter ---

func TestAdapterSaveLoad(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(testSQLiteSlot(t), "", quietLogger())
	assert.Equal(t, DefaultKey, a.Key())

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "absent key loads empty")

	want := sampleWithImage()
	require.NoError(t, a.Save(ctx, want))
	got, err = a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Nil(t, got[1].ImageURL, "absent image stays nil")
}

func TestAdapterLoad(t *testing.T) {
	ctx := context.Background()

	corrupt := NewMemorySlot()
	_, err := corrupt.Put(ctx, DefaultKey, `{not json`, "")
	require.NoError(t, err)
	a := NewAdapter(corrupt, "", quietLogger())
	got, err := a.Load(ctx)
	require.NoError(t, err, "corrupt data loads empty")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, a.Save(ctx, sampleWithImage()), "corrupt data can be overwritten")

	_, err = NewAdapter(failingSlot{}, "", quietLogger()).Load(ctx)
	assert.ErrorContains(t, err, "disk on fire", "a read failure is not an empty store")

	assert.Error(t, NewAdapter(failingSlot{}, "", quietLogger()).Save(ctx, nil))
}

func TestReadFailureNeverOverwritesStorage(t *testing.T) {
	ctx := context.Background()
	slot := &flakySlot{MemorySlot: NewMemorySlot(), readFailures: 1}
	seed := append(sampleWithImage(), types.Article{ID: "a-3", Status: types.StatusDraft})
	require.NoError(t, NewAdapter(slot.MemorySlot, "", quietLogger()).Save(ctx, seed))

	adapter := NewAdapter(slot, "", quietLogger())
	m := article.NewManager()
	m.Subscribe(adapter.Subscriber(ctx))

	err := m.Reload(func() ([]types.Article, error) { return adapter.Load(ctx) })
	require.ErrorContains(t, err, "i/o timeout")
	assert.False(t, m.Hydrated())

	m.CreateFromGeneration("zebres bipedes", types.GeneratedFields{Title: "Zebres"})
	assert.Equal(t, []string{"a-1", "a-2", "a-3"}, storedIDs(t, slot.MemorySlot), "nothing saved while unloaded")

	loadInto(t, m, adapter)
	created := m.CreateFromGeneration("fruit tropical", types.GeneratedFields{Title: "Fruit"})
	assert.Equal(t, []string{created.ID, "a-1", "a-2", "a-3"}, storedIDs(t, slot.MemorySlot))
}

func TestAdapterSubscriberFollowsManager(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	adapter := NewAdapter(slot, "", quietLogger())

	m := article.NewManager()
	m.Subscribe(adapter.Subscriber(ctx))
	m.CreateFromGeneration("before hydrate", types.GeneratedFields{Title: "x"})
	assert.Equal(t, 0, slot.Puts(), "no write before hydration")

	loadInto(t, m, adapter)
	created := m.CreateFromGeneration("zebres bipedes", types.GeneratedFields{Title: "Zebres", TotalScore: 87})
	m.AttachImage(created.ID, "https://x/img.png", "", "")
	assert.Equal(t, 2, slot.Puts())

	reloaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, created.ID, reloaded[0].ID)
	require.NotNil(t, reloaded[0].ImageURL)
	assert.Equal(t, "https://x/img.png", *reloaded[0].ImageURL)

	m.Delete(created.ID)
	assert.Empty(t, storedIDs(t, slot), "delete persists an empty collection")
}

// openWriter is one process: its own connection, adapter, and manager.
func openWriter(t *testing.T, path string) *article.Manager {
	t.Helper()
	slot, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })

	adapter := NewAdapter(slot, "", quietLogger())
	m := article.NewManager()
	m.Subscribe(adapter.Subscriber(context.Background()))
	loadInto(t, m, adapter)
	return m
}

func TestConcurrentWritersOnOneDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	seed, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	require.NoError(t, NewAdapter(seed, "", quietLogger()).Save(ctx, []types.Article{
		{ID: "old", Title: "Old", Status: types.StatusDraft},
		{ID: "kept", Title: "Kept", Status: types.StatusDraft},
	}))
	require.NoError(t, seed.Close())

	t.Run("delete is not undone by a later create", func(t *testing.T) {
		a := openWriter(t, path)
		b := openWriter(t, path)

		require.True(t, b.Delete("old"))
		created := a.CreateFromGeneration("zebres bipedes", types.GeneratedFields{Title: "Zebres"})

		check, err := NewSQLiteSlot(path)
		require.NoError(t, err)
		defer check.Close()
		assert.Equal(t, []string{created.ID, "kept"}, storedIDs(t, check))
	})

	t.Run("image attach keeps a create from another writer", func(t *testing.T) {
		a := openWriter(t, path)
		b := openWriter(t, path)

		created := a.CreateFromGeneration("fruit tropical", types.GeneratedFields{Title: "Fruit"})
		require.True(t, b.AttachImage("kept", "https://x/kept.png", "", ""))

		check, err := NewSQLiteSlot(path)
		require.NoError(t, err)
		defer check.Close()
		got, err := NewAdapter(check, "", quietLogger()).Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, created.ID, got[0].ID)
		kept := got[2]
		assert.Equal(t, "kept", kept.ID)
		require.NotNil(t, kept.ImageURL)
		assert.Equal(t, "https://x/kept.png", *kept.ImageURL)
	})
}

func TestMerge(t *testing.T) {
	art := func(id, title string) types.Article {
		return types.Article{ID: id, Title: title, Status: types.StatusDraft}
	}
	base := []types.Article{art("x", "X"), art("y", "Y"), art("z", "Z")}

	tests := []struct {
		name   string
		ours   []types.Article
		theirs []types.Article
		want   []types.Article
	}{
		{
			name:   "no concurrent change returns ours",
			ours:   []types.Article{art("n", "N"), art("x", "X2"), art("z", "Z")},
			theirs: base,
			want:   []types.Article{art("n", "N"), art("x", "X2"), art("z", "Z")},
		},
		{
			name:   "their delete survives our create",
			ours:   []types.Article{art("n", "N"), art("x", "X"), art("y", "Y"), art("z", "Z")},
			theirs: []types.Article{art("x", "X"), art("z", "Z")},
			want:   []types.Article{art("n", "N"), art("x", "X"), art("z", "Z")},
		},
		{
			name:   "their create survives our edit",
			ours:   []types.Article{art("x", "X2"), art("y", "Y"), art("z", "Z")},
			theirs: []types.Article{art("t", "T"), art("x", "X"), art("y", "Y"), art("z", "Z")},
			want:   []types.Article{art("t", "T"), art("x", "X2"), art("y", "Y"), art("z", "Z")},
		},
		{
			name:   "our delete beats their edit",
			ours:   []types.Article{art("x", "X"), art("z", "Z")},
			theirs: []types.Article{art("x", "X"), art("y", "Y2"), art("z", "Z")},
			want:   []types.Article{art("x", "X"), art("z", "Z")},
		},
		{
			name:   "edit of an article they deleted is dropped",
			ours:   []types.Article{art("x", "X"), art("y", "Y2"), art("z", "Z")},
			theirs: []types.Article{art("x", "X"), art("z", "Z")},
			want:   []types.Article{art("x", "X"), art("z", "Z")},
		},
		{
			name:   "their edit kept where we changed nothing",
			ours:   base,
			theirs: []types.Article{art("x", "X"), art("y", "Y3"), art("z", "Z")},
			want:   []types.Article{art("x", "X"), art("y", "Y3"), art("z", "Z")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(base, tt.ours, tt.theirs))
		})
	}
}

// --- export ---

func TestExportDecode(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, sampleWithImage(), format))

			got, err := Decode(buf.Bytes(), format)
			require.NoError(t, err)
			assert.Equal(t, sampleWithImage(), got)
		})
	}
}

func TestExportUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleWithImage(), FormatJSON))
	out := buf.String()
	for _, key := range []string{`"slug_img"`, `"article_html"`, `"total_score"`, `"image_url": null`} {
		assert.True(t, strings.Contains(out, key), "missing %s", key)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, FormatYAML, FormatFromPath("out/articles.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("articles.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("articles"))
}
