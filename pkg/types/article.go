// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the article console.
// Article and KnowledgeDocument are the two entities; the config structs
// describe how the console reaches its agents, document store, and storage.
package types

import "time"

// ArticleStatus is the lifecycle state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusPublished ArticleStatus = "published"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished:
		return true
	}
	return false
}

// Article is a generated, SEO-annotated article and its review state.
type Article struct {
	// ID is an opaque identifier assigned when the article is generated.
	ID string `json:"id" yaml:"id"`

	// Query is the crossword clue the article was generated from. Never changes.
	Query string `json:"query" yaml:"query"`

	// Title is the article headline.
	Title string `json:"title" yaml:"title"`

	// MetaTitle is the HTML <title> proposed for search engines.
	MetaTitle string `json:"meta_title" yaml:"meta_title"`

	// MetaDescription is the SEO meta description.
	MetaDescription string `json:"meta_description" yaml:"meta_description"`

	// Slug is the URL-safe slug, also used to name the featured image.
	Slug string `json:"slug_img" yaml:"slug_img"`

	// HTML is the article body.
	HTML string `json:"article_html" yaml:"article_html"`

	// TotalScore is the quality score from the evaluation pass, always in [0,100].
	TotalScore float64 `json:"total_score" yaml:"total_score"`

	// EvaluationSummary is the free-text verdict of the evaluation pass.
	EvaluationSummary string `json:"evaluation_summary" yaml:"evaluation_summary"`

	// ChangesMade lists what the improvement pass changed.
	ChangesMade string `json:"changes_made" yaml:"changes_made"`

	// ImageURL, ImageDescription and ImagePromptUsed stay nil until an image
	// generation succeeds.
	ImageURL         *string `json:"image_url" yaml:"image_url"`
	ImageDescription *string `json:"image_description" yaml:"image_description"`
	ImagePromptUsed  *string `json:"image_prompt_used" yaml:"image_prompt_used"`

	// Status is draft, pending, or published. Published requires an image.
	Status ArticleStatus `json:"status" yaml:"status"`

	// CreatedAt is stamped once at generation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// HasImage reports whether a featured image is attached.
func (a Article) HasImage() bool {
	return a.ImageURL != nil && *a.ImageURL != ""
}

// Metadata returns the editable metadata fields of a.
func (a Article) Metadata() Metadata {
	return Metadata{
		Title:           a.Title,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		Slug:            a.Slug,
	}
}

// Metadata is the set of fields replaced together by a metadata edit.
type Metadata struct {
	Title           string `json:"title" yaml:"title"`
	MetaTitle       string `json:"meta_title" yaml:"meta_title"`
	MetaDescription string `json:"meta_description" yaml:"meta_description"`
	Slug            string `json:"slug_img" yaml:"slug_img"`
}

// GeneratedFields is the defaulted content extracted from a generation reply.
// Every field already carries its fallback; nothing here is optional.
type GeneratedFields struct {
	Title             string
	MetaTitle         string
	MetaDescription   string
	Slug              string
	HTML              string
	TotalScore        float64
	EvaluationSummary string
	ChangesMade       string
}

// StatusFilter selects articles on the dashboard.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterDraft     StatusFilter = "draft"
	FilterPublished StatusFilter = "published"
	FilterPending   StatusFilter = "pending"
)

// Valid reports whether f is a known filter value.
func (f StatusFilter) Valid() bool {
	switch f {
	case FilterAll, FilterDraft, FilterPublished, FilterPending:
		return true
	}
	return false
}

// Matches reports whether an article with status s passes the filter.
func (f StatusFilter) Matches(s ArticleStatus) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return ArticleStatus(f) == s
}

// StatusCounts is the per-status tally shown next to the dashboard filters.
type StatusCounts struct {
	All       int `json:"all" yaml:"all"`
	Draft     int `json:"draft" yaml:"draft"`
	Published int `json:"published" yaml:"published"`
	Pending   int `json:"pending" yaml:"pending"`
}

// For returns the count matching filter f.
func (c StatusCounts) For(f StatusFilter) int {
	switch f {
	case FilterDraft:
		return c.Draft
	case FilterPublished:
		return c.Published
	case FilterPending:
		return c.Pending
	default:
		return c.All
	}
}
