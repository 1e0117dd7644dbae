// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-console/internal/knowledge"
	"github.com/pdiddy/article-console/pkg/types"
)

var knowledgeCmd = &cobra.Command{
	Use:     "knowledge",
	Aliases: []string{"kb"},
	Short:   "Manage the reference documents the agents read",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := noticeErr(a.console.LoadDocuments(cmd.Context())); err != nil {
			return err
		}
		docs := a.console.Documents()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		}
		printDocuments(os.Stdout, docs)
		return nil
	},
}

func printDocuments(w io.Writer, docs []types.KnowledgeDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents in the knowledge base.")
		return
	}
	fmt.Fprintf(w, "%-40s  %-6s  %10s  %-12s  %s\n", "File", "Type", "Size", "Status", "Uploaded")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range docs {
		size := "-"
		if d.FileSize != nil {
			size = formatSize(*d.FileSize)
		}
		status := d.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%-40s  %-6s  %10s  %-12s  %s\n", truncate(d.FileName, 40), d.FileType, size, status, d.UploadedAt)
	}
	fmt.Fprintf(w, "\n%d documents\n", len(docs))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

var knowledgeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a PDF, DOCX, or TXT file to the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !knowledge.AcceptedType(args[0]) {
			return fmt.Errorf("%s: unsupported file type (accepted: %s)",
				args[0], strings.Join(knowledge.AcceptedExtensions, ", "))
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		return noticeErr(a.console.UploadDocument(cmd.Context(), args[0]))
	},
}

var knowledgeDeleteCmd = &cobra.Command{
	Use:   "delete <file-name>...",
	Short: "Delete documents from the knowledge base by file name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		return noticeErr(a.console.DeleteDocument(cmd.Context(), args...))
	},
}

func init() {
	knowledgeListCmd.Flags().Bool("json", false, "output as JSON")

	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgeUploadCmd)
	knowledgeCmd.AddCommand(knowledgeDeleteCmd)

	rootCmd.AddCommand(knowledgeCmd)
}
