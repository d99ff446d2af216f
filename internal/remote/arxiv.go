package remote

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

// ArxivBaseURL is the export API search endpoint.
const ArxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivVenue is the venue attached to every preprint.
var ArxivVenue = paper.Venue{Kind: paper.VenuePreprint, Name: "arXiv"}

// Arxiv searches the arXiv export API. The API asks for no more than one
// request every three seconds.
type Arxiv struct {
	client
}

// NewArxiv builds the preprint provider.
func NewArxiv(opts ...Option) *Arxiv {
	limiter := rate.NewLimiter(rate.Every(3*time.Second), 1)
	return &Arxiv{client: newClient(ArxivBaseURL, limiter, opts)}
}

func (a *Arxiv) Source() paper.Source { return paper.SourceArxiv }

// SearchURL builds the request for q.
func (a *Arxiv) SearchURL(q query.Query, maxHits int) string {
	return fmt.Sprintf("%s?search_query=%s&max_results=%d", a.baseURL, joinEscaped(q.Words(), "+AND+"), maxHits)
}

// Fetch runs the search and decodes the Atom feed.
func (a *Arxiv) Fetch(ctx context.Context, q query.Query, maxHits int) (Result, error) {
	res := Result{Source: paper.SourceArxiv, Query: q}
	body, err := a.get(ctx, a.SearchURL(q, maxHits))
	if err != nil {
		return res, fmt.Errorf("arxiv search: %w", err)
	}
	defer body.Close()

	var feed atomFeed
	if err := xml.NewDecoder(body).Decode(&feed); err != nil {
		return res, fmt.Errorf("failed to decode arxiv response: %w", err)
	}
	for _, entry := range feed.Entries {
		if hit, ok := entry.hit(); ok {
			res.Hits = append(res.Hits, hit)
		}
	}
	return res, nil
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// hit converts an entry. Entries without a title are skipped; every other
// missing field is left empty.
func (e atomEntry) hit() (paper.ArxivHit, bool) {
	title := normalizeWhitespace(e.Title)
	if title == "" {
		return paper.ArxivHit{}, false
	}

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := cleanAuthor(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	year, _, _ := strings.Cut(strings.TrimSpace(e.Published), "-")
	absURL := strings.TrimSpace(e.ID)

	info := paper.Info{
		Title:   paper.NewTitle(title),
		Venue:   ArxivVenue,
		Authors: authors,
		Year:    year,
		Summary: normalizeWhitespace(e.Summary),
	}
	if id, err := paper.ParseArxivID(absURL); err == nil {
		ident := paper.NewArxivIdentifier(id)
		info.ID = &ident
	}
	return paper.ArxivHit{Info: info, AbsURL: absURL}, true
}

func joinEscaped(words []string, sep string) string {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		escaped = append(escaped, url.QueryEscape(w))
	}
	return strings.Join(escaped, sep)
}
