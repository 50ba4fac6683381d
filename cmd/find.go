package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nomnom-app/nomnom/internal/api"
	"github.com/nomnom-app/nomnom/internal/tags"
)

func newFindCmd() *cobra.Command {
	var chosen []string

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Find memes by tag",
		Long: `Searches stored memes by tag.

With --tag flags, fetches every asset carrying at least one of the chosen
tags, newest first. With a query argument, fuzzy-matches the tag catalog and
prints suggestions instead — chosen tags pinned first — without searching.`,
		Example: `  # Fuzzy-suggest tags for a typo'd query
  nomnom find kove

  # Fetch everything tagged kobe or biden
  nomnom find --tag kobe --tag biden`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.New(serverURL)

			// Suggestion mode: rank the catalog against the query.
			if len(args) > 0 {
				catalog, err := client.Tags(cmd.Context())
				if err != nil {
					return err
				}

				selection := tags.NewSelection(chosen...)
				query := tags.SanitizeInput(args[0])
				visible := selection.VisibleList(tags.NewMatcher(), query, catalog)
				if len(visible) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no matching tags")
					return nil
				}
				for _, t := range visible {
					if selection.Contains(t) {
						fmt.Fprintf(cmd.OutOrStdout(), "* %s\n", t)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
					}
				}
				return nil
			}

			assets, err := client.Find(cmd.Context(), chosen)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no memes found")
				return nil
			}
			for _, asset := range assets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", asset.SecureURL, strings.Join(asset.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&chosen, "tag", nil, "Chosen tag (repeatable)")

	return cmd
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.New(serverURL)
			catalog, err := client.Tags(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range catalog {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
