package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/litfind/internal/aggregate"
	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		numHits int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search the catalog, arXiv and DBLP once and print the merged papers",
		Long: `Search sends the terms to every source at once, merges hits that describe
the same work and prints the papers newest first. A failing source is
reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.Parse(strings.Join(args, " "))
			if q.Empty() {
				return fmt.Errorf("no search terms")
			}
			return a.withCatalog(cmd.Context(), func(actor *catalog.Actor) error {
				fetchers := append([]remote.Fetcher{remote.NewLocal(actor)}, a.onlineFetchers()...)
				papers := a.searchAll(cmd.Context(), fetchers, q, numHits, cmd.ErrOrStderr())
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), papers)
				}
				return writeTable(cmd.OutOrStdout(), papers)
			})
		},
	}
	cmd.Flags().IntVarP(&numHits, "num-hits", "n", 0, "maximum hits per source (default: max_hits from the config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the papers as JSON")
	return cmd
}

// searchAll queries every source concurrently. A source error is reported
// and counts as zero hits.
func (a *app) searchAll(ctx context.Context, fetchers []remote.Fetcher, q query.Query, numHits int, errOut io.Writer) []paper.Paper {
	if numHits <= 0 {
		numHits = a.cfg.MaxHits
	}

	var (
		mu     sync.Mutex
		papers []paper.Paper
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			res, err := f.Fetch(ctx, q, numHits)
			if err != nil {
				a.logger.Warn().Err(err).Str("source", f.Source().String()).Msg("source failed")
				mu.Lock()
				fmt.Fprintf(errOut, "%s: %v\n", f.Source(), err)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			papers = aggregate.Merge(papers, res, q)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return papers
}

func writeTable(w io.Writer, papers []paper.Paper) error {
	if len(papers) == 0 {
		_, err := fmt.Fprintln(w, "No papers found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tYEAR\tTITLE\tAUTHORS\tSOURCES\tLINK")
	for i, p := range papers {
		info := p.Metadata()
		sources := make([]string, 0, len(p.Hits))
		for _, s := range p.Sources() {
			sources = append(sources, s.String())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, info.Year, info.Title, shortAuthors(info.Authors), strings.Join(sources, ","), paper.PrimaryTarget(p.Best()))
	}
	return tw.Flush()
}

func shortAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return "-"
	case 1, 2:
		return strings.Join(authors, ", ")
	default:
		return authors[0] + " et al."
	}
}

type jsonHit struct {
	Source string `json:"source"`
	Tag    string `json:"tag"`
	Target string `json:"target"`
}

type jsonPaper struct {
	Title   string    `json:"title"`
	Authors []string  `json:"authors"`
	Year    string    `json:"year,omitempty"`
	Venue   string    `json:"venue,omitempty"`
	ID      string    `json:"id,omitempty"`
	Hits    []jsonHit `json:"hits"`
}

func writeJSON(w io.Writer, papers []paper.Paper) error {
	out := make([]jsonPaper, 0, len(papers))
	for _, p := range papers {
		info := p.Metadata()
		jp := jsonPaper{
			Title:   info.Title.String(),
			Authors: info.Authors,
			Year:    info.Year,
			Venue:   info.Venue.Name,
		}
		if info.ID != nil {
			jp.ID = info.ID.String()
		}
		for _, h := range p.Hits {
			jp.Hits = append(jp.Hits, jsonHit{Source: h.Source().String(), Tag: h.Tag(), Target: paper.PrimaryTarget(h)})
		}
		out = append(out, jp)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
