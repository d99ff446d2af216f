package paper

import (
	"fmt"
	"os"
	"strings"
)

// Source identifies which provider produced a hit. The numeric order is the
// display priority inside a merged paper.
type Source int

const (
	SourceLocal Source = iota
	SourceArxiv
	SourceDblp
)

// Sources lists every provider in priority order.
var Sources = []Source{SourceLocal, SourceArxiv, SourceDblp}

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceArxiv:
		return "arxiv"
	case SourceDblp:
		return "dblp"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Hit is one provider's observation of a paper. The set of implementations
// is closed: LocalHit, ArxivHit and DblpHit.
type Hit interface {
	Metadata() Info
	Source() Source
	// Tag is the short label shown next to a paper for this variant.
	Tag() string
	sealed()
}

// LocalHit is an entry of the personal catalog.
type LocalHit struct {
	Info     Info
	Location string
	URLs     []string
}

func (h LocalHit) Metadata() Info { return h.Info }
func (h LocalHit) Source() Source { return SourceLocal }
func (LocalHit) sealed()          {}

func (h LocalHit) Tag() string {
	return fmt.Sprintf("Local(%s %s)", h.Info.Year, h.Info.Venue)
}

// Exists reports whether the stored file is still on disk.
func (h LocalHit) Exists() bool {
	if h.Location == "" {
		return false
	}
	_, err := os.Stat(h.Location)
	return err == nil
}

// ArxivHit is a search result from the preprint server.
type ArxivHit struct {
	Info   Info
	AbsURL string
}

func (h ArxivHit) Metadata() Info { return h.Info }
func (h ArxivHit) Source() Source { return SourceArxiv }
func (ArxivHit) sealed()          {}

func (h ArxivHit) Tag() string {
	return fmt.Sprintf("arXiv(%s)", h.Info.Year)
}

// PDFURL points at the downloadable PDF of the preprint.
func (h ArxivHit) PDFURL() string {
	url := strings.Replace(h.AbsURL, "/abs/", "/pdf/", 1)
	if !strings.HasSuffix(url, ".pdf") {
		url += ".pdf"
	}
	return url
}

// DblpHit is a search result from the bibliography index.
type DblpHit struct {
	Info        Info
	ExternalURL string
	ListingURL  string
}

func (h DblpHit) Metadata() Info { return h.Info }
func (h DblpHit) Source() Source { return SourceDblp }
func (DblpHit) sealed()          {}

func (h DblpHit) Tag() string {
	return fmt.Sprintf("DBLP(%s %s)", h.Info.Year, h.Info.Venue)
}

// BibURL is the BibTeX export of the listing.
func (h DblpHit) BibURL() string {
	if h.ListingURL == "" {
		return ""
	}
	return strings.TrimSuffix(h.ListingURL, ".html") + ".bib"
}

// PrimaryTarget is what "open" resolves to for a hit: the file of a local
// entry, the abstract page of a preprint, the external link of a listing.
func PrimaryTarget(h Hit) string {
	switch v := h.(type) {
	case LocalHit:
		return v.Location
	case ArxivHit:
		return v.AbsURL
	case DblpHit:
		if v.ExternalURL != "" {
			return v.ExternalURL
		}
		return v.ListingURL
	default:
		return ""
	}
}
