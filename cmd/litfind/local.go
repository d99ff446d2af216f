package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

func newLocalCmd(a *app) *cobra.Command {
	var (
		output  string
		numHits int
	)
	cmd := &cobra.Command{
		Use:   "local [terms...]",
		Short: "List catalog entries matching the terms",
		Long: `Local prints the catalog entries whose title or authors match every term.
Without terms the whole catalog is listed. With --output the first match is
copied to the given path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.Parse(strings.Join(args, " "))
			return a.withCatalog(cmd.Context(), func(actor *catalog.Actor) error {
				entries, err := actor.Query(cmd.Context(), q, numHits)
				if err != nil {
					return fmt.Errorf("failed to query catalog: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No matching papers.")
					return nil
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s\n    %s\n", e.Info, e.Location)
				}
				if output == "" {
					return nil
				}
				if err := copyEntry(entries[0], output); err != nil {
					return err
				}
				fmt.Fprintf(out, "Copied %s to %s\n", entries[0].Location, output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "copy the first match to this path")
	cmd.Flags().IntVarP(&numHits, "num-hits", "n", 50, "maximum number of entries to list")
	return cmd
}

func copyEntry(entry paper.LocalHit, dst string) error {
	if !entry.Exists() {
		return fmt.Errorf("%s no longer exists, run litfind clean", entry.Location)
	}
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(entry.Location))
	}

	src, err := os.Open(entry.Location)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return out.Close()
}
