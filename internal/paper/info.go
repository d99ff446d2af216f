package paper

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/csheth/litfind/internal/query"
)

// VenueKind classifies where a paper appeared.
type VenueKind int

const (
	VenueConference VenueKind = iota
	VenueJournal
	VenuePreprint
)

func (k VenueKind) String() string {
	switch k {
	case VenueJournal:
		return "journal"
	case VenuePreprint:
		return "preprint"
	default:
		return "conference"
	}
}

// Venue is the publication outlet.
type Venue struct {
	Kind VenueKind
	Name string
}

func (v Venue) String() string {
	return v.Name
}

// Info is the source-independent metadata of a paper.
type Info struct {
	ID      *Identifier
	Title   Title
	Venue   Venue
	Authors []string
	Year    string
	Summary string
}

// SameWork is the catalog identity: identifiers when both sides have one,
// otherwise title, venue and year together.
func (i Info) SameWork(other Info) bool {
	if i.ID != nil && other.ID != nil {
		return i.ID.Equal(*other.ID)
	}
	return i.Title.Equal(other.Title) && i.Venue == other.Venue && i.Year == other.Year
}

// Tokens returns the lowercase token stream that queries are matched against.
func (i Info) Tokens() []string {
	text := strings.Join([]string{
		i.Title.Normalized(),
		strings.Join(i.Authors, " "),
		i.Venue.Name,
		i.Year,
	}, " ")
	return strings.Fields(strings.ToLower(text))
}

// Matches reports whether every query term matches a token of the paper.
// The empty query matches every paper.
func (i Info) Matches(q query.Query) bool {
	if q.Empty() {
		return true
	}
	return q.MatchAll(i.Tokens())
}

// DefaultFilename derives a short file stem: surname of the first author,
// initials of the others, two-digit year and the first two title words.
func (i Info) DefaultFilename() string {
	first := "unknown"
	if len(i.Authors) > 0 {
		if parts := strings.Fields(i.Authors[0]); len(parts) > 0 {
			first = strings.ToLower(parts[len(parts)-1])
		}
	}

	var initials strings.Builder
	for _, author := range i.Authors[min(1, len(i.Authors)):] {
		for _, r := range strings.TrimSpace(author) {
			initials.WriteRune(unicode.ToUpper(r))
			break
		}
	}

	year := ""
	if len(i.Year) >= 2 {
		year = i.Year[len(i.Year)-2:]
	}

	words := i.Title.Words
	if len(words) > 2 {
		words = words[:2]
	}
	title := strings.ToLower(strings.Join(words, ""))

	name := fmt.Sprintf("%s%s%s%s", first, initials.String(), year, title)
	return strings.ReplaceAll(name, "/", "-")
}

func (i Info) String() string {
	return fmt.Sprintf("%s. [%s]", i.Title, strings.Join(i.Authors, ", "))
}
