// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review summarizes generated article HTML for the review screen:
// heading outline, word count, and the emphasized answer terms.
package review

import (
	"crypto/sha256"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of cached outlines.
const DefaultCacheSize = 128

// Heading is one h1-h6 element in document order.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Outline is the structural summary of an article body.
type Outline struct {
	Headings   []Heading `json:"headings" yaml:"headings"`
	Words      int       `json:"words" yaml:"words"`
	Paragraphs int       `json:"paragraphs" yaml:"paragraphs"`
	ListItems  int       `json:"list_items" yaml:"list_items"`
	Links      int       `json:"links" yaml:"links"`
	Emphasized []string  `json:"emphasized,omitempty" yaml:"emphasized,omitempty"`
}

// Inspector parses article HTML and caches outlines by content digest.
type Inspector struct {
	cache *lru.Cache[[sha256.Size]byte, Outline]
}

// NewInspector returns an Inspector holding up to size outlines.
func NewInspector(size int) (*Inspector, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[sha256.Size]byte, Outline](size)
	if err != nil {
		return nil, err
	}
	return &Inspector{cache: cache}, nil
}

// Outline returns the summary of html. Malformed markup is parsed leniently.
// The result is the caller's own copy.
func (in *Inspector) Outline(html string) (Outline, error) {
	key := sha256.Sum256([]byte(html))
	if o, ok := in.cache.Get(key); ok {
		return o.clone(), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Outline{}, err
	}

	var o Outline
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		o.Headings = append(o.Headings, Heading{
			Level: int(name[1] - '0'),
			Text:  collapse(s.Text()),
		})
	})
	o.Paragraphs = doc.Find("p").Length()
	o.ListItems = doc.Find("li").Length()
	o.Links = doc.Find("a[href]").Length()

	seen := map[string]bool{}
	doc.Find("strong, b, em").Each(func(_ int, s *goquery.Selection) {
		term := collapse(s.Text())
		if term != "" && !seen[term] {
			seen[term] = true
			o.Emphasized = append(o.Emphasized, term)
		}
	})
	o.Words = len(strings.Fields(doc.Find("body").Text()))

	in.cache.Add(key, o)
	return o.clone(), nil
}

func (o Outline) clone() Outline {
	o.Headings = slices.Clone(o.Headings)
	o.Emphasized = slices.Clone(o.Emphasized)
	return o
}

// Cached reports how many outlines are cached.
func (in *Inspector) Cached() int {
	return in.cache.Len()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Band is the qualitative bucket of a quality score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandFor buckets score: 80 and above is high, 60 and above medium.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	}
	return BandLow
}
