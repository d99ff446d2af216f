package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/litfind/internal/catalog"
)

func newCleanCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove catalog entries whose files no longer exist",
		Long: `Clean drops every catalog entry whose PDF is missing on disk and prints the
removed locations. With --all the catalog is emptied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCatalog(cmd.Context(), func(actor *catalog.Actor) error {
				removed, err := actor.Clean(cmd.Context(), all)
				if err != nil {
					return fmt.Errorf("failed to clean catalog: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(removed) == 0 {
					fmt.Fprintln(out, "Nothing to remove.")
					return nil
				}
				for _, entry := range removed {
					fmt.Fprintf(out, "Removed %s\n", entry.Location)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "remove every entry")
	return cmd
}
