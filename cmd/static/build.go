package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	static "github.com/goliatone/go-static"
)

var (
	buildForce  bool
	buildDryRun bool
	buildDrafts bool
	buildPaths  []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the output directory",
	Long: `build loads every Markdown document under the content directory,
renders post and listing pages through the configured theme, and writes the
result to the output directory together with feeds, sitemap, robots.txt, and
the build manifest used for incremental runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := newSite()
		if err != nil {
			return err
		}

		result, buildErr := site.Build(cmd.Context(), static.BuildOptions{
			Force:  buildForce,
			DryRun: buildDryRun,
			Drafts: buildDrafts,
			Paths:  buildPaths,
		})
		if result != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages (%d skipped, %d assets) in %s\n",
				result.PagesBuilt, result.PagesSkipped, result.AssetsBuilt, result.Duration.Round(timeUnit))
			for _, reported := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  error: %v\n", reported)
			}
		}
		if buildErr != nil {
			return errors.New("build completed with errors")
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "re-render every page, ignoring the manifest")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "render without writing artifacts")
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "include draft documents in the build")
	buildCmd.Flags().StringArrayVar(&buildPaths, "path", nil, "restrict the build to documents under a source path (repeatable)")
}
