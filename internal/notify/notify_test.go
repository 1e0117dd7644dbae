// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPostAndExpire(t *testing.T) {
	var posted []Notice
	b := NewBoard(20*time.Millisecond, func(n Notice) { posted = append(posted, n) })

	b.Post(Success("Article generated successfully!"))
	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, KindSuccess, n.Kind)
	assert.Len(t, posted, 1)

	require.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestBoardReplaceRestartsExpiry(t *testing.T) {
	b := NewBoard(60*time.Millisecond, nil)

	b.Post(Info("first"))
	time.Sleep(40 * time.Millisecond)
	b.Post(Error("second"))
	time.Sleep(40 * time.Millisecond)

	n, ok := b.Current()
	require.True(t, ok, "the first timer must not clear the replacement")
	assert.Equal(t, "second", n.Message)
	assert.True(t, n.IsError())
}

func TestBoardDismiss(t *testing.T) {
	b := NewBoard(0, nil)
	assert.Equal(t, DefaultTTL, b.ttl)

	b.Post(Info("Article deleted."))
	b.Dismiss()
	_, ok := b.Current()
	assert.False(t, ok)

	b.Dismiss()
}

func TestNoticeString(t *testing.T) {
	assert.Equal(t, "error: Upload failed.", Error("Upload failed.").String())
	assert.False(t, Success("ok").IsError())
}
