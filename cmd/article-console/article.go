// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-console/internal/article"
	"github.com/pdiddy/article-console/internal/persist"
	"github.com/pdiddy/article-console/internal/review"
	"github.com/pdiddy/article-console/pkg/types"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "List, review, edit, and publish stored articles",
	Long: `Article manages the stored article collection. Every change is saved
immediately. Publishing requires a featured image (see the image command).`,
}

// --- list subcommand ---

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles with per-status counts",
	RunE:  runArticleList,
}

func runArticleList(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	sample, _ := cmd.Flags().GetBool("sample")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	filter := types.StatusFilter(status)
	if !filter.Valid() {
		return fmt.Errorf("unknown status %q: use all, draft, published, or pending", status)
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	a.console.SetSample(sample)
	articles, counts := a.console.Dashboard(filter)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Articles []types.Article   `json:"articles"`
			Counts   types.StatusCounts `json:"counts"`
		}{articles, counts})
	}
	printArticleTable(os.Stdout, articles, counts)
	return nil
}

func printArticleTable(w io.Writer, articles []types.Article, counts types.StatusCounts) {
	fmt.Fprintf(w, "all %d | draft %d | published %d | pending %d\n\n",
		counts.All, counts.Draft, counts.Published, counts.Pending)

	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-40s  %-5s  %-9s  %-5s  %s\n", "ID", "Title", "Score", "Status", "Image", "Created")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, art := range articles {
		image := "-"
		if art.HasImage() {
			image = "yes"
		}
		fmt.Fprintf(w, "%-36s  %-40s  %5.0f  %-9s  %-5s  %s\n",
			art.ID, truncate(art.Title, 40), art.TotalScore, art.Status, image, art.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d articles\n", len(articles))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- show subcommand ---

var articleShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an article's metadata, score, and outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showHTML, _ := cmd.Flags().GetBool("html")

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		art, ok := a.console.Articles().Get(args[0])
		if !ok {
			return fmt.Errorf("article %s: %w", args[0], article.ErrNotFound)
		}
		outline, err := a.console.Inspect(art.ID)
		if err != nil {
			return fmt.Errorf("inspecting article: %w", err)
		}
		printArticleDetail(os.Stdout, art, outline)
		if showHTML {
			fmt.Fprintf(os.Stdout, "\n%s\n", art.HTML)
		}
		return nil
	},
}

func printArticleDetail(w io.Writer, art types.Article, o review.Outline) {
	fmt.Fprintf(w, "ID:               %s\n", art.ID)
	fmt.Fprintf(w, "Query:            %s\n", art.Query)
	fmt.Fprintf(w, "Title:            %s\n", art.Title)
	fmt.Fprintf(w, "Meta title:       %s\n", art.MetaTitle)
	fmt.Fprintf(w, "Meta description: %s\n", art.MetaDescription)
	fmt.Fprintf(w, "Slug:             %s\n", art.Slug)
	fmt.Fprintf(w, "Status:           %s\n", art.Status)
	fmt.Fprintf(w, "Score:            %.0f (%s)\n", art.TotalScore, review.BandFor(art.TotalScore))
	fmt.Fprintf(w, "Created:          %s\n", art.CreatedAt.Format("2006-01-02 15:04:05"))
	if art.HasImage() {
		fmt.Fprintf(w, "Image:            %s\n", *art.ImageURL)
		if art.ImageDescription != nil && *art.ImageDescription != "" {
			fmt.Fprintf(w, "Image desc:       %s\n", *art.ImageDescription)
		}
	} else {
		fmt.Fprintln(w, "Image:            none (required to publish)")
	}
	if art.EvaluationSummary != "" {
		fmt.Fprintf(w, "\nEvaluation: %s\n", art.EvaluationSummary)
	}
	if art.ChangesMade != "" {
		fmt.Fprintf(w, "Changes:    %s\n", art.ChangesMade)
	}

	fmt.Fprintf(w, "\nOutline (%d words, %d paragraphs, %d list items, %d links)\n",
		o.Words, o.Paragraphs, o.ListItems, o.Links)
	for _, h := range o.Headings {
		fmt.Fprintf(w, "%sh%d %s\n", strings.Repeat("  ", h.Level-1), h.Level, h.Text)
	}
	if len(o.Emphasized) > 0 {
		fmt.Fprintf(w, "Emphasized: %s\n", strings.Join(o.Emphasized, ", "))
	}
}

// --- edit subcommand ---

var articleEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an article's title and SEO metadata",
	Long: `Edit replaces the four metadata fields together. Fields without a flag
keep their current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		art, ok := a.console.Articles().Get(args[0])
		if !ok {
			return fmt.Errorf("article %s: %w", args[0], article.ErrNotFound)
		}
		return noticeErr(a.console.SaveMetadata(cmd.Context(), art.ID, overlayMetadata(cmd, art.Metadata())))
	},
}

// overlayMetadata applies the flags the user set onto meta.
func overlayMetadata(cmd *cobra.Command, meta types.Metadata) types.Metadata {
	fields := []struct {
		flag string
		dst  *string
	}{
		{"title", &meta.Title},
		{"meta-title", &meta.MetaTitle},
		{"meta-description", &meta.MetaDescription},
		{"slug", &meta.Slug},
	}
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst, _ = cmd.Flags().GetString(f.flag)
		}
	}
	return meta
}

// --- content subcommand ---

var articleContentCmd = &cobra.Command{
	Use:   "content <id>",
	Short: "Replace an article's HTML body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		html, err := readInput(path)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		return noticeErr(a.console.SaveContent(cmd.Context(), args[0], html))
	},
}

// readInput reads path, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--file is required (use - for stdin)")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// --- publish, delete, copy subcommands ---

var articlePublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Mark an article as published (requires a featured image)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		return noticeErr(a.console.Publish(cmd.Context(), args[0]))
	},
}

var articleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		return noticeErr(a.console.Delete(cmd.Context(), args[0]))
	},
}

var articleCopyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Copy an article's HTML to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		return noticeErr(a.console.CopyHTML(args[0]))
	},
}

// --- export and import subcommands ---

var articleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export articles to YAML or JSON on stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		status, _ := cmd.Flags().GetString("status")

		format, err := persist.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		filter := types.StatusFilter(status)
		if !filter.Valid() {
			return fmt.Errorf("unknown status %q: use all, draft, published, or pending", status)
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		return persist.Export(os.Stdout, a.console.Articles().Filter(filter), format)
	},
}

var articleImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import articles from a YAML or JSON export",
	Long: `Import adds articles from an export file. Articles whose ID already
exists are skipped. Published articles without an image and unknown statuses
are rejected. Imported articles may be pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		articles, err := persist.Decode(data, persist.FormatFromPath(args[0]))
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		summary := a.console.Articles().Import(articles)
		for _, rerr := range summary.Rejected {
			fmt.Fprintf(os.Stderr, "rejected: %v\n", rerr)
		}
		fmt.Printf("Imported %d, skipped %d existing, rejected %d\n",
			summary.Added, summary.Skipped, len(summary.Rejected))
		if len(summary.Rejected) > 0 {
			return errSilent
		}
		return nil
	},
}

func init() {
	articleListCmd.Flags().String("status", "all", "filter by status: all, draft, published, pending")
	articleListCmd.Flags().Bool("sample", false, "show the built-in sample articles instead of stored ones")
	articleListCmd.Flags().Bool("json", false, "output as JSON")

	articleShowCmd.Flags().Bool("html", false, "also print the HTML body")

	articleEditCmd.Flags().String("title", "", "article title")
	articleEditCmd.Flags().String("meta-title", "", "SEO meta title")
	articleEditCmd.Flags().String("meta-description", "", "SEO meta description")
	articleEditCmd.Flags().String("slug", "", "URL slug (also names the featured image)")

	articleContentCmd.Flags().String("file", "", "HTML file to use as the new body, or - for stdin")

	articleExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	articleExportCmd.Flags().String("status", "all", "export only articles with this status")

	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleShowCmd)
	articleCmd.AddCommand(articleEditCmd)
	articleCmd.AddCommand(articleContentCmd)
	articleCmd.AddCommand(articlePublishCmd)
	articleCmd.AddCommand(articleDeleteCmd)
	articleCmd.AddCommand(articleCopyCmd)
	articleCmd.AddCommand(articleExportCmd)
	articleCmd.AddCommand(articleImportCmd)

	rootCmd.AddCommand(articleCmd)
}
