package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-console/internal/review"
	"github.com/pdiddy/article-console/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [query...]",
	Short: "Generate a draft article for a crossword clue",
	Long: `Generate sends the clue to the article agent, which writes, evaluates,
and improves an SEO article in one call. The result is stored as a draft.
Progress stages are printed to stderr while the agent works; they follow a
fixed schedule and do not reflect the agent's actual progress.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd.Context(), appOptions{showStages: true})
	if err != nil {
		return err
	}
	defer a.Close()

	art, n := a.console.Generate(cmd.Context(), strings.Join(args, " "))
	if n.IsError() {
		return errSilent
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(art)
	}
	printArticleSummary(art)
	return nil
}

func printArticleSummary(art types.Article) {
	fmt.Fprintf(os.Stdout, "ID:          %s\n", art.ID)
	fmt.Fprintf(os.Stdout, "Title:       %s\n", art.Title)
	fmt.Fprintf(os.Stdout, "Meta title:  %s\n", art.MetaTitle)
	fmt.Fprintf(os.Stdout, "Slug:        %s\n", art.Slug)
	fmt.Fprintf(os.Stdout, "Score:       %.0f (%s)\n", art.TotalScore, review.BandFor(art.TotalScore))
	fmt.Fprintf(os.Stdout, "Status:      %s\n", art.Status)
	if art.EvaluationSummary != "" {
		fmt.Fprintf(os.Stdout, "Evaluation:  %s\n", art.EvaluationSummary)
	}
	if art.ChangesMade != "" {
		fmt.Fprintf(os.Stdout, "Changes:     %s\n", art.ChangesMade)
	}
}

func init() {
	generateCmd.Flags().Bool("json", false, "print the generated article as JSON")

	rootCmd.AddCommand(generateCmd)
}
