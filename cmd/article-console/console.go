// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-console/internal/article"
	"github.com/pdiddy/article-console/internal/console"
	"github.com/pdiddy/article-console/pkg/types"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive session",
	Long: `Console reads actions from stdin, one per line. Generations run in the
background so the operator can keep reviewing while the agents work. Type
"help" for the list of actions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{showStages: true})
		if err != nil {
			return err
		}
		defer a.Close()

		s := newSession(a.console, os.Stdout)
		return s.run(cmd.Context(), os.Stdin)
	},
}

const sessionHelp = `Actions:
  generate [query...]           generate a draft (no query reuses the regenerate prefill)
  image <id>                    generate and attach a featured image
  list [all|draft|published|pending]
  view <id>                     select an article for review
  show [id]                     show an article (default: the selection)
  edit <id> <field> <value...>  field is title, meta-title, meta-description, or slug
  content <id> <file>           replace the HTML body from a file
  publish <id> | delete <id> | copy <id>
  regenerate <id>               prefill a new generation with the article's query
  sample on|off                 show the built-in sample articles on the dashboard
  status                        show in-flight work and the current notice
  dismiss                       clear the current notice
  kb list | kb upload <file> | kb delete <file-name>...
  help | quit`

// errQuit ends a session.
var errQuit = errors.New("quit")

// session is one interactive console over a line-oriented input.
type session struct {
	c *console.Console

	mu  sync.Mutex
	out io.Writer

	wg sync.WaitGroup
}

func newSession(c *console.Console, out io.Writer) *session {
	return &session{c: c, out: out}
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// run reads lines until EOF or quit, then waits for background work.
func (s *session) run(ctx context.Context, in io.Reader) error {
	s.printf("article-console %s. Type \"help\" for actions.\n", version)
	scanner := bufio.NewScanner(in)
	for {
		s.printf("> ")
		if !scanner.Scan() {
			break
		}
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			s.printf("%v\n", err)
		}
	}
	s.wait()
	return scanner.Err()
}

// wait blocks until background generations finish.
func (s *session) wait() {
	if s.c.Generating() || s.c.GeneratingImage() {
		s.printf("Waiting for running generations...\n")
	}
	s.wg.Wait()
}

func (s *session) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// exec runs one input line.
func (s *session) exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	name, args := strings.ToLower(args[0]), args[1:]

	switch name {
	case "help", "?":
		s.printf("%s\n", sessionHelp)
	case "quit", "exit":
		return errQuit
	case "generate":
		query := strings.Join(args, " ")
		if query == "" {
			query = s.c.DraftQuery()
		}
		s.background(func() {
			art, n := s.c.Generate(ctx, query)
			if !n.IsError() {
				s.printf("Generated %s: %s\n", art.ID, art.Title)
			}
		})
	case "image":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		s.background(func() { s.c.GenerateImage(ctx, id) })
	case "list":
		return s.list(args)
	case "view":
		if len(args) != 1 {
			return errors.New("usage: view <id>")
		}
		if !s.c.View(args[0]) {
			return fmt.Errorf("article %s: %w", args[0], article.ErrNotFound)
		}
		return s.show(args[0])
	case "show":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		return s.show(id)
	case "edit":
		return s.edit(ctx, args)
	case "content":
		if len(args) != 2 {
			return errors.New("usage: content <id> <file>")
		}
		html, err := readInput(args[1])
		if err != nil {
			return err
		}
		s.c.SaveContent(ctx, args[0], html)
	case "publish", "delete", "copy":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		switch name {
		case "publish":
			s.c.Publish(ctx, id)
		case "delete":
			s.c.Delete(ctx, id)
		case "copy":
			s.c.CopyHTML(id)
		}
	case "regenerate":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		q, ok := s.c.Regenerate(id)
		if !ok {
			return fmt.Errorf("article %s: %w", id, article.ErrNotFound)
		}
		s.printf("Query prefilled: %s\nRun \"generate\" to start, or \"generate <query>\" to change it.\n", q)
	case "sample":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return errors.New("usage: sample on|off")
		}
		s.c.SetSample(args[0] == "on")
	case "status":
		s.status()
	case "dismiss":
		s.c.Dismiss()
	case "kb", "knowledge":
		return s.knowledge(ctx, args)
	default:
		return fmt.Errorf("unknown action %q (type \"help\")", name)
	}
	return nil
}

// resolve picks the article id from args, falling back to the selection.
func (s *session) resolve(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if id := s.c.SelectedID(); id != "" {
		return id, nil
	}
	return "", errors.New("no article selected: pass an id or use view <id>")
}

func (s *session) list(args []string) error {
	filter := types.FilterAll
	if len(args) > 0 {
		filter = types.StatusFilter(args[0])
	}
	if !filter.Valid() {
		return fmt.Errorf("unknown status %q: use all, draft, published, or pending", filter)
	}
	articles, counts := s.c.Dashboard(filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c.Sample() {
		fmt.Fprintln(s.out, "(sample articles)")
	}
	printArticleTable(s.out, articles, counts)
	return nil
}

func (s *session) show(id string) error {
	art, ok := s.c.Lookup(id)
	if !ok {
		return fmt.Errorf("article %s: %w", id, article.ErrNotFound)
	}
	outline, err := s.c.Inspect(id)
	if err != nil {
		return fmt.Errorf("inspecting article: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	printArticleDetail(s.out, art, outline)
	return nil
}

func (s *session) edit(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: edit <id> <field> <value...>")
	}
	art, ok := s.c.Articles().Get(args[0])
	if !ok {
		return fmt.Errorf("article %s: %w", args[0], article.ErrNotFound)
	}
	meta := art.Metadata()
	value := strings.Join(args[2:], " ")
	switch args[1] {
	case "title":
		meta.Title = value
	case "meta-title":
		meta.MetaTitle = value
	case "meta-description":
		meta.MetaDescription = value
	case "slug":
		meta.Slug = value
	default:
		return fmt.Errorf("unknown field %q: use title, meta-title, meta-description, or slug", args[1])
	}
	s.c.SaveMetadata(ctx, art.ID, meta)
	return nil
}

func (s *session) status() {
	var parts []string
	if s.c.Generating() {
		stage, _ := s.c.Stage()
		parts = append(parts, fmt.Sprintf("generating article (%s)", stage.Label()))
	}
	if s.c.GeneratingImage() {
		parts = append(parts, "generating image")
	}
	if agent := s.c.ActiveAgent(); agent != "" {
		parts = append(parts, "agent "+agent)
	}
	if len(parts) == 0 {
		parts = append(parts, "idle")
	}
	s.printf("Status: %s\n", strings.Join(parts, ", "))
	if n, ok := s.c.Board().Current(); ok {
		s.printf("Notice: %s %s\n", noticeMarker(n.Kind), n.Message)
	}
	if id := s.c.SelectedID(); id != "" {
		s.printf("Selected: %s\n", id)
	}
}

func (s *session) knowledge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: kb list | kb upload <file> | kb delete <file-name>...")
	}
	switch args[0] {
	case "list":
		if n := s.c.LoadDocuments(ctx); n.IsError() {
			return nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		printDocuments(s.out, s.c.Documents())
	case "upload":
		if len(args) != 2 {
			return errors.New("usage: kb upload <file>")
		}
		s.c.UploadDocument(ctx, args[1])
	case "delete":
		s.c.DeleteDocument(ctx, args[1:]...)
	default:
		return fmt.Errorf("unknown kb action %q", args[0])
	}
	return nil
}

// splitArgs splits a line on whitespace, honoring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		started bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			started = true
		case r == ' ' || r == '\t':
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
