package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	static "github.com/goliatone/go-static"
)

const timeUnit = time.Millisecond

var (
	cfgFile   string
	logLevel  string
	logFormat string

	appConfig static.Config
)

var rootCmd = &cobra.Command{
	Use:   "static",
	Short: "Build static websites from frontmatter Markdown",
	Long: `static loads a directory of Markdown files with YAML frontmatter,
filters drafts, and renders posts, listings, feeds, and a sitemap into an
output directory. Unchanged pages are skipped using a content-hash manifest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "static.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console, pretty)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(previewCmd)
}

func initializeConfig() error {
	cfg, err := static.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

func newSite() (*static.Site, error) {
	return static.New(appConfig)
}
