// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console maps operator actions onto the article manager, the
// generation agents, and the knowledge base. Every action ends in exactly
// one notice, which is also posted to the notice board.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/article-console/internal/agent"
	"github.com/pdiddy/article-console/internal/article"
	"github.com/pdiddy/article-console/internal/clipboard"
	"github.com/pdiddy/article-console/internal/knowledge"
	"github.com/pdiddy/article-console/internal/notify"
	"github.com/pdiddy/article-console/internal/parse"
	"github.com/pdiddy/article-console/internal/progress"
	"github.com/pdiddy/article-console/internal/review"
	"github.com/pdiddy/article-console/pkg/types"
)

// Default agent and knowledge base identifiers.
const (
	DefaultArticleAgentID  = "6998726eafc03b530a027602"
	DefaultImageAgentID    = "69987280287fc1efe03969df"
	DefaultKnowledgeBaseID = "699871fee12ce168202ebc9c"
)

// Loader reads the durable article collection.
type Loader interface {
	Load(ctx context.Context) ([]types.Article, error)
}

// Deps are the collaborators a Console drives. Articles and Agents are
// required; the rest fall back to inert defaults.
type Deps struct {
	Articles  *article.Manager
	Agents    agent.Invoker
	Store     Loader
	Knowledge *knowledge.Sync
	Clipboard clipboard.Sink
	Inspector *review.Inspector
	Logger    *slog.Logger

	ArticleAgentID string
	ImageAgentID   string
	Progress       types.ProgressConfig

	// OnNotice sees every posted notice.
	OnNotice func(notify.Notice)
	// OnStage sees every progress stage change.
	OnStage func(progress.Stage)
}

// Console is the orchestrator behind the CLI and the interactive session.
type Console struct {
	articles  *article.Manager
	agents    agent.Invoker
	store     Loader
	knowledge *knowledge.Sync
	clip      clipboard.Sink
	inspector *review.Inspector
	board     *notify.Board
	progress  *progress.Controller
	logger    *slog.Logger

	articleAgentID string
	imageAgentID   string

	flight          sync.Mutex
	mu              sync.Mutex
	generating      int
	generatingImage int
	activeAgent     string
	draftQuery      string
	sample          bool
	sampleSelected  string
}

// New wires a Console.
func New(d Deps) (*Console, error) {
	if d.Articles == nil {
		return nil, errors.New("console: article manager is required")
	}
	if d.Agents == nil {
		return nil, errors.New("console: agent invoker is required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.SystemSink{Logger: d.Logger}
	}
	if d.Inspector == nil {
		in, err := review.NewInspector(review.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating inspector: %w", err)
		}
		d.Inspector = in
	}
	if d.ArticleAgentID == "" {
		d.ArticleAgentID = DefaultArticleAgentID
	}
	if d.ImageAgentID == "" {
		d.ImageAgentID = DefaultImageAgentID
	}

	return &Console{
		articles:       d.Articles,
		agents:         d.Agents,
		store:          d.Store,
		knowledge:      d.Knowledge,
		clip:           d.Clipboard,
		inspector:      d.Inspector,
		board:          notify.NewBoard(notify.DefaultTTL, d.OnNotice),
		progress:       progress.New(d.Progress, d.OnStage),
		logger:         d.Logger,
		articleAgentID: d.ArticleAgentID,
		imageAgentID:   d.ImageAgentID,
	}, nil
}

// Articles exposes the manager for read access.
func (c *Console) Articles() *article.Manager { return c.articles }

// Board exposes the notice board.
func (c *Console) Board() *notify.Board { return c.board }

// Dismiss clears the current notice.
func (c *Console) Dismiss() { c.board.Dismiss() }

func (c *Console) post(n notify.Notice) notify.Notice {
	c.board.Post(n)
	return n
}

// refresh reloads the collection from storage so the next mutation applies
// to what other processes stored meanwhile. A failed read keeps the
// in-memory collection; the conditional write still protects storage.
func (c *Console) refresh(ctx context.Context) {
	if c.store == nil {
		return
	}
	err := c.articles.Reload(func() ([]types.Article, error) {
		return c.store.Load(ctx)
	})
	if err != nil {
		c.logger.Warn("reloading articles failed", "error", err)
	}
}

// Generate runs the article agent for query and stores the result as a new
// draft. The returned article is only meaningful for a success notice.
func (c *Console) Generate(ctx context.Context, query string) (a types.Article, n notify.Notice) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Article{}, c.post(notify.Error("Please enter a crossword clue query."))
	}

	c.begin(&c.generating, c.articleAgentID)
	defer c.end(&c.generating)
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("generation panicked", "panic", p)
			a, n = types.Article{}, c.post(notify.Error("An unexpected error occurred during generation."))
		}
	}()

	log := c.logger.With("query", query)
	log.Info("generating article")
	res := c.agents.Invoke(ctx, query, c.articleAgentID)
	if !res.Succeeded() {
		msg := res.FailureMessage("Failed to generate article.")
		log.Warn("generation failed", "error", msg)
		return types.Article{}, c.post(notify.Error(msg))
	}

	c.refresh(ctx)
	a = c.articles.CreateFromGeneration(query, FieldsFrom(parse.FromRaw(res.Payload()), query))

	c.mu.Lock()
	c.draftQuery = ""
	c.mu.Unlock()

	log.Info("article generated", "id", a.ID, "score", a.TotalScore)
	return a, c.post(notify.Success("Article generated successfully!"))
}

// FieldsFrom applies the reply fallbacks to a parsed agent result.
func FieldsFrom(p parse.Result, query string) types.GeneratedFields {
	title := p.String("title", query)
	return types.GeneratedFields{
		Title:             title,
		MetaTitle:         p.String("meta_title", title),
		MetaDescription:   p.String("meta_description", ""),
		Slug:              p.String("slug_img", ""),
		HTML:              p.FirstString("", "improved_article_html", "article_html"),
		TotalScore:        parse.Score(p),
		EvaluationSummary: p.String("evaluation_summary", ""),
		ChangesMade:       p.String("changes_made", ""),
	}
}

// ImagePrompt is the message sent to the image agent for a.
func ImagePrompt(a types.Article) string {
	return fmt.Sprintf(`Generate a featured image for the crossword article: "%s". The slug is: %s`, a.Title, a.Slug)
}

// GenerateImage runs the image agent for article id and attaches the first
// returned image. A result for an article deleted meanwhile is discarded.
func (c *Console) GenerateImage(ctx context.Context, id string) (n notify.Notice) {
	a, ok := c.articles.Get(id)
	if !ok {
		return c.post(notify.Error("Article not found."))
	}

	c.begin(&c.generatingImage, c.imageAgentID)
	defer c.end(&c.generatingImage)
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("image generation panicked", "panic", p)
			n = c.post(notify.Error("An unexpected error occurred during image generation."))
		}
	}()

	log := c.logger.With("article_id", id)
	log.Info("generating image")
	res := c.agents.Invoke(ctx, ImagePrompt(a), c.imageAgentID)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Image generation failed."
		}
		log.Warn("image generation failed", "error", msg)
		return c.post(notify.Error(msg))
	}

	url := res.FirstArtifactURL()
	if url == "" {
		return c.post(notify.Error("Image generation completed but no image URL was returned."))
	}

	p := parse.FromRaw(res.Payload())
	c.refresh(ctx)
	if !c.articles.AttachImage(id, url, p.String("image_description", ""), p.String("image_prompt_used", "")) {
		log.Info("article deleted before image arrived, discarding", "url", url)
		return c.post(notify.Info("Article was deleted before the image was ready; image discarded."))
	}
	return c.post(notify.Success("Featured image generated!"))
}

// Regenerate prefills the new-article query with the article's original
// query and switches to the new-article view.
func (c *Console) Regenerate(id string) (string, bool) {
	a, ok := c.articles.Get(id)
	if !ok {
		return "", false
	}
	c.mu.Lock()
	c.draftQuery = a.Query
	c.mu.Unlock()
	c.articles.SetView(article.ViewNewArticle)
	return a.Query, true
}

// DraftQuery is the query prefilled on the new-article view.
func (c *Console) DraftQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftQuery
}

// SaveMetadata replaces the four metadata fields of id.
func (c *Console) SaveMetadata(ctx context.Context, id string, meta types.Metadata) notify.Notice {
	c.refresh(ctx)
	if !c.articles.EditMetadata(id, meta) {
		return c.post(notify.Error("Article not found."))
	}
	return c.post(notify.Success("Metadata saved."))
}

// SaveContent replaces the HTML body of id.
func (c *Console) SaveContent(ctx context.Context, id, html string) notify.Notice {
	c.refresh(ctx)
	if !c.articles.EditContent(id, html) {
		return c.post(notify.Error("Article not found."))
	}
	return c.post(notify.Success("Article content saved."))
}

// Publish marks id as published when it has an image.
func (c *Console) Publish(ctx context.Context, id string) notify.Notice {
	c.refresh(ctx)
	switch err := c.articles.Publish(id); {
	case errors.Is(err, article.ErrNotFound):
		return c.post(notify.Error("Article not found."))
	case errors.Is(err, article.ErrImageRequired):
		return c.post(notify.Error("Generate a featured image before publishing."))
	case err != nil:
		return c.post(notify.Error(err.Error()))
	}
	return c.post(notify.Success("Article marked as published!"))
}

// Delete removes id.
func (c *Console) Delete(ctx context.Context, id string) notify.Notice {
	c.refresh(ctx)
	if !c.articles.Delete(id) {
		return c.post(notify.Error("Article not found."))
	}
	return c.post(notify.Info("Article deleted."))
}

// View selects id for review. In sample mode the sample articles are
// selectable too; they are never written to the manager.
func (c *Console) View(id string) bool {
	if c.Sample() {
		if _, ok := findSample(id); ok {
			c.mu.Lock()
			c.sampleSelected = id
			c.mu.Unlock()
			return true
		}
	}
	c.mu.Lock()
	c.sampleSelected = ""
	c.mu.Unlock()
	return c.articles.Select(id)
}

// SelectedID is the article under review, which may be a sample article in
// sample mode.
func (c *Console) SelectedID() string {
	c.mu.Lock()
	id := c.sampleSelected
	c.mu.Unlock()
	if id != "" {
		return id
	}
	return c.articles.SelectedID()
}

// Lookup resolves id against the displayed collection: the sample articles
// first while sample mode is on, then the stored articles.
func (c *Console) Lookup(id string) (types.Article, bool) {
	if c.Sample() {
		if a, ok := findSample(id); ok {
			return a, true
		}
	}
	return c.articles.Get(id)
}

func findSample(id string) (types.Article, bool) {
	for _, a := range article.SampleArticles() {
		if a.ID == id {
			return a, true
		}
	}
	return types.Article{}, false
}

// CopyHTML sends the article body to the clipboard.
func (c *Console) CopyHTML(id string) notify.Notice {
	a, ok := c.Lookup(id)
	if !ok {
		return c.post(notify.Error("Article not found."))
	}
	if a.HTML == "" {
		return c.post(notify.Error("Article has no content to copy."))
	}
	if !c.clip.Write(a.HTML) {
		return c.post(notify.Error("Failed to copy to clipboard."))
	}
	return c.post(notify.Success("HTML copied to clipboard."))
}

// Inspect returns the review outline of id.
func (c *Console) Inspect(id string) (review.Outline, error) {
	a, ok := c.Lookup(id)
	if !ok {
		return review.Outline{}, article.ErrNotFound
	}
	return c.inspector.Outline(a.HTML)
}

// SetSample toggles the demo collection on the dashboard.
func (c *Console) SetSample(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sample = on
	if !on {
		c.sampleSelected = ""
	}
}

// Sample reports whether the demo collection is shown.
func (c *Console) Sample() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sample
}

// Dashboard returns the articles passing f and the per-status counts of
// the displayed collection, which is the demo data in sample mode.
func (c *Console) Dashboard(f types.StatusFilter) ([]types.Article, types.StatusCounts) {
	all := c.articles.List()
	if c.Sample() {
		all = article.SampleArticles()
	}
	return article.FilterArticles(all, f), article.CountArticles(all)
}

// LoadDocuments refreshes the knowledge base mirror. Only failures are
// posted.
func (c *Console) LoadDocuments(ctx context.Context) notify.Notice {
	if c.knowledge == nil {
		return c.post(notify.Error("Knowledge base is not configured."))
	}
	n := c.knowledge.Refresh(ctx)
	if n.IsError() {
		c.post(n)
	}
	return n
}

// UploadDocument uploads the file at path to the knowledge base.
func (c *Console) UploadDocument(ctx context.Context, path string) notify.Notice {
	if c.knowledge == nil {
		return c.post(notify.Error("Knowledge base is not configured."))
	}
	return c.post(c.knowledge.Upload(ctx, path))
}

// DeleteDocument removes documents from the knowledge base by file name.
func (c *Console) DeleteDocument(ctx context.Context, fileNames ...string) notify.Notice {
	if c.knowledge == nil {
		return c.post(notify.Error("Knowledge base is not configured."))
	}
	return c.post(c.knowledge.Delete(ctx, fileNames...))
}

// Documents returns the knowledge base mirror.
func (c *Console) Documents() []types.KnowledgeDocument {
	if c.knowledge == nil {
		return nil
	}
	return c.knowledge.Documents()
}

// Generating reports whether an article generation is in flight.
func (c *Console) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating > 0
}

// GeneratingImage reports whether an image generation is in flight.
func (c *Console) GeneratingImage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generatingImage > 0
}

// ActiveAgent returns the agent most recently invoked while any call is in
// flight, or "".
func (c *Console) ActiveAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeAgent
}

// Stage returns the current progress stage and whether it is running.
func (c *Console) Stage() (progress.Stage, bool) {
	return c.progress.Stage(), c.progress.Active()
}

// begin and end serialize on flight so progress Start and Stop follow the
// counter transitions in order. Progress callbacks run outside c.mu.
func (c *Console) begin(counter *int, agentID string) {
	c.flight.Lock()
	defer c.flight.Unlock()

	c.mu.Lock()
	*counter++
	c.activeAgent = agentID
	first := counter == &c.generating && c.generating == 1
	c.mu.Unlock()

	if first {
		c.progress.Start()
	}
}

func (c *Console) end(counter *int) {
	c.flight.Lock()
	defer c.flight.Unlock()

	c.mu.Lock()
	*counter--
	last := counter == &c.generating && c.generating == 0
	switch {
	case c.generating == 0 && c.generatingImage == 0:
		c.activeAgent = ""
	case c.generating > 0:
		c.activeAgent = c.articleAgentID
	default:
		c.activeAgent = c.imageAgentID
	}
	c.mu.Unlock()

	if last {
		c.progress.Stop()
	}
}
