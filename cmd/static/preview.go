package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a single Markdown file to HTML on stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := newSite()
		if err != nil {
			return err
		}
		doc, err := site.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "title: %s\n", doc.FrontMatter.Title)
		fmt.Fprintf(out, "date: %s\n", doc.FrontMatter.Date.Format("2006-01-02"))
		if doc.FrontMatter.Author != "" {
			fmt.Fprintf(out, "author: %s\n", doc.FrontMatter.Author)
		}
		if len(doc.FrontMatter.Tags) > 0 {
			fmt.Fprintf(out, "tags: %s\n", strings.Join(doc.FrontMatter.Tags, ", "))
		}
		if doc.FrontMatter.Draft {
			fmt.Fprintln(out, "draft: true")
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(doc.BodyHTML))
		return nil
	},
}
