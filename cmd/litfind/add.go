package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/pdfmeta"
	"github.com/csheth/litfind/internal/query"
)

type addOptions struct {
	title   string
	authors []string
	year    string
	url     string
	online  bool
}

func newAddCmd(a *app) *cobra.Command {
	var opts addOptions
	cmd := &cobra.Command{
		Use:   "add <pdf>",
		Short: "Add a PDF you already have to the catalog",
		Long: `Add reads the title and authors from the PDF's document information and
records the file in the catalog. Flags override what the file says. With
--online the title is looked up on DBLP and the best match supplies the
remaining metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.describePDF(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.withCatalog(cmd.Context(), func(actor *catalog.Actor) error {
				if err := actor.Save(cmd.Context(), entry); err != nil {
					return fmt.Errorf("failed to add %s: %w", entry.Location, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", entry.Info)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.title, "title", "", "paper title")
	cmd.Flags().StringSliceVar(&opts.authors, "authors", nil, "comma-separated author names")
	cmd.Flags().StringVar(&opts.year, "year", "", "publication year")
	cmd.Flags().StringVar(&opts.url, "url", "", "where the paper can be found online")
	cmd.Flags().BoolVar(&opts.online, "online", false, "complete the metadata from DBLP")
	return cmd
}

func (a *app) describePDF(ctx context.Context, path string, opts addOptions) (paper.LocalHit, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return paper.LocalHit{}, fmt.Errorf("%s is not a PDF", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return paper.LocalHit{}, err
	}
	if _, err := os.Stat(abs); err != nil {
		return paper.LocalHit{}, err
	}

	md, err := pdfmeta.Read(abs)
	if err != nil {
		// An unreadable info dictionary still leaves the flags.
		a.logger.Warn().Err(err).Str("path", abs).Msg("no pdf metadata")
	}

	info := paper.Info{
		Title:   paper.NewTitle(firstNonEmpty(opts.title, md.Title)),
		Authors: md.Authors,
		Year:    opts.year,
	}
	if len(opts.authors) > 0 {
		info.Authors = trimAll(opts.authors)
	}
	if doi, err := paper.ParseDOI(md.DOI); err == nil {
		id := paper.NewDOIIdentifier(doi)
		info.ID = &id
	}

	if opts.online && len(info.Title.Words) > 0 {
		if found, ok := a.lookupDblp(ctx, info.Title); ok {
			info = mergeInfo(info, found, opts)
		}
	}
	if len(info.Title.Words) == 0 {
		return paper.LocalHit{}, fmt.Errorf("no title found in %s, pass --title", path)
	}
	if info.ID == nil {
		id := paper.CustomFromTitle(info.Title)
		info.ID = &id
	}

	entry := paper.LocalHit{Info: info, Location: abs}
	if opts.url != "" {
		entry.URLs = []string{opts.url}
	}
	return entry, nil
}

// lookupDblp searches DBLP for title and returns the hit describing the
// same work, or the first hit when none matches exactly.
func (a *app) lookupDblp(ctx context.Context, title paper.Title) (paper.Info, bool) {
	res, err := a.dblp().Fetch(ctx, query.Parse(title.String()), 10)
	if err != nil || len(res.Hits) == 0 {
		a.logger.Warn().Err(err).Str("title", title.String()).Msg("no dblp match")
		return paper.Info{}, false
	}
	for _, h := range res.Hits {
		if h.Metadata().Title.Equal(title) {
			return h.Metadata(), true
		}
	}
	return res.Hits[0].Metadata(), true
}

// mergeInfo fills the local description from an online match. Explicit
// flags always win.
func mergeInfo(local, online paper.Info, opts addOptions) paper.Info {
	merged := online
	if opts.title != "" {
		merged.Title = local.Title
	}
	if len(opts.authors) > 0 || len(online.Authors) == 0 {
		merged.Authors = local.Authors
	}
	if opts.year != "" || online.Year == "" {
		merged.Year = local.Year
	}
	if online.ID == nil {
		merged.ID = local.ID
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
