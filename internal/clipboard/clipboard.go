// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clipboard sends article HTML to the system clipboard.
package clipboard

import (
	"log/slog"
	"sync"

	"github.com/atotto/clipboard"
)

// Sink accepts text and reports whether it was delivered.
type Sink interface {
	Write(text string) bool
}

// SystemSink writes to the OS clipboard. On platforms without clipboard
// support every write reports false.
type SystemSink struct {
	Logger *slog.Logger
}

func (s SystemSink) Write(text string) bool {
	if clipboard.Unsupported {
		return false
	}
	if err := clipboard.WriteAll(text); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("clipboard write failed", "error", err)
		}
		return false
	}
	return true
}

// MemorySink keeps the last written text. It is used by tests and headless
// runs.
type MemorySink struct {
	mu   sync.Mutex
	text string
	Fail bool
}

func (m *MemorySink) Write(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return false
	}
	m.text = text
	return true
}

// Text returns the last successfully written text.
func (m *MemorySink) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
