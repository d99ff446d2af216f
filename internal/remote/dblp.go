package remote

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

// DblpBaseURL is the publication search endpoint.
const DblpBaseURL = "https://dblp.org/search/publ/api"

// Dblp searches the DBLP publication index.
type Dblp struct {
	client
}

// NewDblp builds the bibliography provider.
func NewDblp(opts ...Option) *Dblp {
	limiter := rate.NewLimiter(rate.Every(time.Second), 2)
	return &Dblp{client: newClient(DblpBaseURL, limiter, opts)}
}

func (d *Dblp) Source() paper.Source { return paper.SourceDblp }

// SearchURL builds the request for q.
func (d *Dblp) SearchURL(q query.Query, maxHits int) string {
	return fmt.Sprintf("%s?q=%s&h=%d", d.baseURL, joinEscaped(q.Words(), "+"), maxHits)
}

// Fetch runs the search and decodes the XML result.
func (d *Dblp) Fetch(ctx context.Context, q query.Query, maxHits int) (Result, error) {
	res := Result{Source: paper.SourceDblp, Query: q}
	body, err := d.get(ctx, d.SearchURL(q, maxHits))
	if err != nil {
		return res, fmt.Errorf("dblp search: %w", err)
	}
	defer body.Close()

	var doc dblpResult
	if err := xml.NewDecoder(body).Decode(&doc); err != nil {
		return res, fmt.Errorf("failed to decode dblp response: %w", err)
	}
	for _, h := range doc.Hits {
		if hit, ok := h.Info.hit(); ok {
			res.Hits = append(res.Hits, hit)
		}
	}
	return res, nil
}

type dblpResult struct {
	Hits []dblpHit `xml:"hits>hit"`
}

type dblpHit struct {
	Info dblpInfo `xml:"info"`
}

type dblpInfo struct {
	Authors []string `xml:"authors>author"`
	Title   string   `xml:"title"`
	Venue   []string `xml:"venue"`
	Year    string   `xml:"year"`
	Type    string   `xml:"type"`
	Key     string   `xml:"key"`
	DOI     string   `xml:"doi"`
	EE      []string `xml:"ee"`
	URL     string   `xml:"url"`
}

func (i dblpInfo) hit() (paper.DblpHit, bool) {
	title := strings.TrimSuffix(normalizeWhitespace(i.Title), ".")
	if title == "" {
		return paper.DblpHit{}, false
	}

	authors := make([]string, 0, len(i.Authors))
	for _, a := range i.Authors {
		if name := cleanAuthor(a); name != "" {
			authors = append(authors, name)
		}
	}

	venueName := ""
	if len(i.Venue) > 0 {
		venueName = strings.TrimSpace(i.Venue[0])
	}
	ee := ""
	if len(i.EE) > 0 {
		ee = strings.TrimSpace(i.EE[0])
	}

	info := paper.Info{
		Title:   paper.NewTitle(title),
		Venue:   paper.Venue{Kind: classifyVenue(i.Key, venueName, i.Type), Name: venueName},
		Authors: authors,
		Year:    strings.TrimSpace(i.Year),
	}
	id := dblpIdentifier(strings.TrimSpace(i.DOI), ee, info.Title)
	info.ID = &id

	return paper.DblpHit{
		Info:        info,
		ExternalURL: ee,
		ListingURL:  strings.TrimSpace(i.URL),
	}, true
}

// classifyVenue decides the venue kind from the record key, with CoRR (the
// arXiv mirror) treated as a preprint listing.
func classifyVenue(key, venue, kind string) paper.VenueKind {
	switch {
	case strings.HasPrefix(key, "journals/"):
		if strings.EqualFold(venue, "CoRR") {
			return paper.VenuePreprint
		}
		return paper.VenueJournal
	case strings.HasPrefix(key, "conf/"):
		return paper.VenueConference
	case strings.Contains(kind, "Journal"):
		return paper.VenueJournal
	default:
		return paper.VenueConference
	}
}

func dblpIdentifier(doi, ee string, title paper.Title) paper.Identifier {
	if doi != "" {
		if parsed, err := paper.ParseDOI(doi); err == nil {
			return paper.NewDOIIdentifier(parsed)
		}
	}
	if strings.Contains(strings.ToLower(ee), "arxiv") {
		if parsed, err := paper.ParseArxivID(ee); err == nil {
			return paper.NewArxivIdentifier(parsed)
		}
	}
	return paper.CustomFromTitle(title)
}
