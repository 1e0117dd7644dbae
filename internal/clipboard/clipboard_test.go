// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySink(t *testing.T) {
	var s MemorySink
	assert.True(t, s.Write("<h1>Zebres</h1>"))
	assert.Equal(t, "<h1>Zebres</h1>", s.Text())

	s.Fail = true
	assert.False(t, s.Write("other"))
	assert.Equal(t, "<h1>Zebres</h1>", s.Text(), "failed write keeps previous text")
}

var _ Sink = SystemSink{}
var _ Sink = (*MemorySink)(nil)
