package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated artifacts from the output directory",
	Long: `clean deletes every file recorded in the build manifest plus the
manifest itself. Files the generator never wrote are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := newSite()
		if err != nil {
			return err
		}
		if err := site.Clean(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleaned generated artifacts")
		return nil
	},
}
