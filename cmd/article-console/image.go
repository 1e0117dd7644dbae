// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image <article-id>",
	Short: "Generate and attach a featured image",
	Long: `Image asks the image agent for a featured image based on the article's
title and slug, then attaches the returned image URL. An article needs an
image before it can be published.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(os.Stderr, "Generating featured image...")
		if err := noticeErr(a.console.GenerateImage(cmd.Context(), args[0])); err != nil {
			return err
		}
		if art, ok := a.console.Articles().Get(args[0]); ok && art.HasImage() {
			fmt.Println(*art.ImageURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
}
