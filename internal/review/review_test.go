// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zebraHTML = `<h1>Zebres Bipedes</h1>
<p>La solution pour <strong>zebres bipedes</strong> est <strong>PIETONS</strong>.</p>
<h2>Explication</h2>
<p>Les   zebres bipedes designent les pietons.</p>
<h2>Autres reponses</h2>
<ul><li>PASSANTS</li><li><b>PIETONS</b></li></ul>
<p><a href="/mots-croises">Plus de solutions</a></p>`

func TestOutline(t *testing.T) {
	in, err := NewInspector(4)
	require.NoError(t, err)

	o, err := in.Outline(zebraHTML)
	require.NoError(t, err)

	assert.Equal(t, []Heading{
		{Level: 1, Text: "Zebres Bipedes"},
		{Level: 2, Text: "Explication"},
		{Level: 2, Text: "Autres reponses"},
	}, o.Headings)
	assert.Equal(t, 3, o.Paragraphs)
	assert.Equal(t, 2, o.ListItems)
	assert.Equal(t, 1, o.Links)
	assert.Equal(t, []string{"zebres bipedes", "PIETONS"}, o.Emphasized, "deduplicated in document order")
	assert.Greater(t, o.Words, 15)
}

func TestOutlineCaches(t *testing.T) {
	in, err := NewInspector(2)
	require.NoError(t, err)

	first, err := in.Outline(zebraHTML)
	require.NoError(t, err)
	again, err := in.Outline(zebraHTML)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, in.Cached())

	for _, html := range []string{"<p>a</p>", "<p>b</p>", "<p>c</p>"} {
		_, err := in.Outline(html)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, in.Cached(), "cache is bounded")
}

func TestOutlineResultsAreIndependent(t *testing.T) {
	in, err := NewInspector(2)
	require.NoError(t, err)

	first, err := in.Outline(zebraHTML)
	require.NoError(t, err)
	first.Headings[0].Text = "changed"
	first.Emphasized[0] = "changed"

	again, err := in.Outline(zebraHTML)
	require.NoError(t, err)
	assert.Equal(t, "Zebres Bipedes", again.Headings[0].Text)
	assert.Equal(t, "zebres bipedes", again.Emphasized[0])
}

func TestOutlineLenient(t *testing.T) {
	in, err := NewInspector(0)
	require.NoError(t, err)

	o, err := in.Outline("<h3>unclosed <p>text")
	require.NoError(t, err)
	require.Len(t, o.Headings, 1)
	assert.Equal(t, 3, o.Headings[0].Level)

	o, err = in.Outline("")
	require.NoError(t, err)
	assert.Zero(t, o.Words)
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandHigh},
		{87, BandHigh},
		{80, BandHigh},
		{79.9, BandMedium},
		{60, BandMedium},
		{59, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %v", tt.score)
	}
}
