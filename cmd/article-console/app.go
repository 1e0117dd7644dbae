// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/article-console/internal/agent"
	"github.com/pdiddy/article-console/internal/article"
	"github.com/pdiddy/article-console/internal/clipboard"
	"github.com/pdiddy/article-console/internal/console"
	"github.com/pdiddy/article-console/internal/knowledge"
	"github.com/pdiddy/article-console/internal/logging"
	"github.com/pdiddy/article-console/internal/notify"
	"github.com/pdiddy/article-console/internal/persist"
	"github.com/pdiddy/article-console/internal/progress"
	"github.com/pdiddy/article-console/pkg/types"
)

// app holds the wired components for one CLI invocation.
type app struct {
	cfg     types.ConsoleConfig
	logger  *slog.Logger
	slot    persist.Slot
	store   *persist.Adapter
	console *console.Console
}

// appOptions tune how a command observes the console.
type appOptions struct {
	// quietNotices suppresses printing notices to stderr.
	quietNotices bool
	// showStages prints progress stages to stderr.
	showStages bool
}

// newApp loads configuration, opens storage, hydrates the article manager,
// and wires the console.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	logger := logging.New(cfg.Logging)

	slot, err := persist.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	store := persist.NewAdapter(slot, cfg.Storage.Key, logging.Component(logger, "persist"))

	manager := article.NewManager()
	manager.Subscribe(store.Subscriber(ctx))
	err = manager.Reload(func() ([]types.Article, error) { return store.Load(ctx) })
	if err != nil {
		slot.Close()
		return nil, fmt.Errorf("loading articles: %w", err)
	}

	docs := knowledge.NewClient(cfg.DocumentStore, logging.Component(logger, "knowledge"))
	kb := knowledge.NewSync(docs, cfg.DocumentStore.KnowledgeBaseID, logging.Component(logger, "knowledge"))

	deps := console.Deps{
		Articles:       manager,
		Agents:         agent.NewClient(cfg.Agent, logging.Component(logger, "agent")),
		Store:          store,
		Knowledge:      kb,
		Clipboard:      clipboard.SystemSink{Logger: logger},
		Logger:         logging.Component(logger, "console"),
		ArticleAgentID: cfg.Agent.ArticleAgentID,
		ImageAgentID:   cfg.Agent.ImageAgentID,
		Progress:       cfg.Progress,
	}
	if !opts.quietNotices {
		deps.OnNotice = printNotice
	}
	if opts.showStages {
		deps.OnStage = func(s progress.Stage) {
			fmt.Fprintf(os.Stderr, "  [%d/3] %s...\n", int(s)+1, s.Label())
		}
	}

	c, err := console.New(deps)
	if err != nil {
		slot.Close()
		return nil, err
	}

	logger.Debug("console ready", "backend", cfg.Storage.Backend, "articles", manager.Len())
	return &app{cfg: cfg, logger: logger, slot: slot, store: store, console: c}, nil
}

// Close releases storage.
func (a *app) Close() error {
	return a.slot.Close()
}

func printNotice(n notify.Notice) {
	fmt.Fprintf(os.Stderr, "%s %s\n", noticeMarker(n.Kind), n.Message)
}

func noticeMarker(k notify.Kind) string {
	switch k {
	case notify.KindSuccess:
		return "[ok]"
	case notify.KindError:
		return "[error]"
	}
	return "[info]"
}

// noticeErr turns an error notice into a command error so the process exits
// non-zero. The notice itself has already been printed.
func noticeErr(n notify.Notice) error {
	if n.IsError() {
		return errSilent
	}
	return nil
}
