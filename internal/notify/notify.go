// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify carries the transient status messages shown after each
// user action.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible unless replaced or dismissed.
const DefaultTTL = 5 * time.Second

// Kind classifies a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notice is a single status message.
type Notice struct {
	Kind    Kind   `json:"type"`
	Message string `json:"message"`
}

func Success(msg string) Notice { return Notice{Kind: KindSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Kind: KindError, Message: msg} }
func Info(msg string) Notice    { return Notice{Kind: KindInfo, Message: msg} }

// IsError reports whether n reports a failure.
func (n Notice) IsError() bool { return n.Kind == KindError }

func (n Notice) String() string {
	return string(n.Kind) + ": " + n.Message
}

// Board holds at most one current notice. Posting replaces the current
// notice and restarts its expiry.
type Board struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	seq     uint64
	timer   *time.Timer
	onPost  func(Notice)
}

// NewBoard returns a Board whose notices expire after ttl. A non-positive
// ttl uses DefaultTTL. onPost, if set, sees every posted notice.
func NewBoard(ttl time.Duration, onPost func(Notice)) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, onPost: onPost}
}

// Post makes n the current notice.
func (b *Board) Post(n Notice) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.current = &n
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(seq) })
	b.mu.Unlock()

	if b.onPost != nil {
		b.onPost(n)
	}
}

// Current returns the visible notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss clears the current notice.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.current = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Board) expire(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		return
	}
	b.current = nil
	b.timer = nil
}
