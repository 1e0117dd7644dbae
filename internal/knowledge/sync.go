// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdiddy/article-console/internal/notify"
	"github.com/pdiddy/article-console/pkg/types"
)

// AcceptedExtensions lists the file types offered for upload.
var AcceptedExtensions = []string{".pdf", ".docx", ".txt"}

// AcceptedType reports whether name has an accepted extension.
func AcceptedType(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range AcceptedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Sync keeps a local mirror of one knowledge base. The mirror is replaced
// wholesale by Refresh and only pruned locally after a confirmed delete.
type Sync struct {
	store  DocumentStore
	kbID   string
	logger *slog.Logger

	mu        sync.Mutex
	docs      []types.KnowledgeDocument
	loading   int
	uploading int
}

// NewSync returns a Sync for knowledge base kbID.
func NewSync(store DocumentStore, kbID string, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sync{store: store, kbID: kbID, logger: logger}
}

// KnowledgeBaseID returns the mirrored knowledge base.
func (s *Sync) KnowledgeBaseID() string { return s.kbID }

// Documents returns a copy of the mirror.
func (s *Sync) Documents() []types.KnowledgeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.KnowledgeDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// Loading reports whether a list or delete is in flight.
func (s *Sync) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Uploading reports whether an upload is in flight.
func (s *Sync) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading > 0
}

// Refresh replaces the mirror with the store's listing. On failure the
// mirror is left as it was.
func (s *Sync) Refresh(ctx context.Context) (notice notify.Notice) {
	defer s.track(&s.loading)()
	defer recoverNotice(&notice, "Error loading knowledge base documents.")

	docs, err := s.store.List(ctx, s.kbID)
	if err != nil {
		s.logger.Warn("listing documents failed", "error", err)
		return notify.Error(message(err, "Failed to load documents."))
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return notify.Info(fmt.Sprintf("%d document(s) in the knowledge base.", len(docs)))
}

// Upload sends the file at path and, once accepted, refreshes the mirror.
// A failed refresh does not turn a successful upload into an error.
func (s *Sync) Upload(ctx context.Context, path string) (notice notify.Notice) {
	name := filepath.Base(path)
	done := s.track(&s.uploading)
	defer func() {
		done()
		if notice.Kind == notify.KindSuccess {
			if n := s.Refresh(ctx); n.IsError() {
				s.logger.Warn("refresh after upload failed", "error", n.Message)
			}
		}
	}()
	defer recoverNotice(&notice, "Error uploading document.")

	f, err := os.Open(path)
	if err != nil {
		return notify.Error(fmt.Sprintf("Upload failed: %v", err))
	}
	defer f.Close()

	if err := s.store.Upload(ctx, s.kbID, name, f); err != nil {
		s.logger.Warn("upload failed", "file", name, "error", err)
		return notify.Error(message(err, "Upload failed."))
	}
	return notify.Success(fmt.Sprintf("%q uploaded and training started.", name))
}

// Delete removes documents by file name and prunes them from the mirror.
func (s *Sync) Delete(ctx context.Context, fileNames ...string) (notice notify.Notice) {
	if len(fileNames) == 0 {
		return notify.Error("No document selected.")
	}
	defer s.track(&s.loading)()
	defer recoverNotice(&notice, "Error deleting document.")

	if err := s.store.Delete(ctx, s.kbID, fileNames); err != nil {
		s.logger.Warn("delete failed", "files", fileNames, "error", err)
		return notify.Error(message(err, "Delete failed."))
	}

	removed := make(map[string]bool, len(fileNames))
	for _, n := range fileNames {
		removed[n] = true
	}
	s.mu.Lock()
	kept := make([]types.KnowledgeDocument, 0, len(s.docs))
	for _, d := range s.docs {
		if !removed[d.FileName] {
			kept = append(kept, d)
		}
	}
	s.docs = kept
	s.mu.Unlock()

	if len(fileNames) == 1 {
		return notify.Success(fmt.Sprintf("%q deleted.", fileNames[0]))
	}
	return notify.Success(fmt.Sprintf("%d documents deleted.", len(fileNames)))
}

func (s *Sync) track(counter *int) func() {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		*counter--
		s.mu.Unlock()
	}
}

// message prefers the store's own explanation over fallback.
func message(err error, fallback string) string {
	if err == nil || errors.Is(err, ErrUnspecified) {
		return fallback
	}
	return err.Error()
}

func recoverNotice(n *notify.Notice, msg string) {
	if p := recover(); p != nil {
		*n = notify.Error(msg)
	}
}
