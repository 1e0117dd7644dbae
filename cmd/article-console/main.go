// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-console CLI.
// Each operator action of the console is a subcommand; `console` opens an
// interactive session over the same actions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-console/internal/logging"
	"github.com/pdiddy/article-console/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// errSilent marks a failure whose notice was already printed.
var errSilent = errors.New("action failed")

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the article-console CLI.
var rootCmd = &cobra.Command{
	Use:   "article-console",
	Short: "Generate, review, and publish SEO articles for crossword clues",
	Long: `article-console drives the crossword article pipeline. A clue is sent to
the article agent, which writes, evaluates, and improves an SEO article; the
result is stored locally as a draft. Drafts are reviewed, edited, given a
featured image by the image agent, and marked as published.

The knowledge subcommands manage the reference documents the agents read.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir, logging.New(logConfig()))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			logging.New(logConfig()).Debug("loaded secrets", "keys", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-console.yaml or ~/.config/article-console/article-console.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "keep articles in memory only for this run")

	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("ephemeral", rootCmd.PersistentFlags().Lookup("ephemeral"))
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-console")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-console"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("ARTICLE_CONSOLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
