package paper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	arxivIDPattern   = regexp.MustCompile(`(\d{2})(\d{2})\.?(.+)`)
	arxivVersionTail = regexp.MustCompile(`v\d+$`)
	doiPattern       = regexp.MustCompile(`10\.(\d+)/(.+)`)
)

// ErrUnparsableIdentifier is returned when a locator carries no recognisable identifier.
var ErrUnparsableIdentifier = errors.New("unparsable identifier")

// IDKind tags the variant held by an Identifier.
type IDKind int

const (
	IDArxiv IDKind = iota + 1
	IDDoi
	IDCustom
)

// ArxivID is a new-style arXiv identifier such as 1706.03762.
type ArxivID struct {
	Year   int
	Month  int
	Number string
}

func (a ArxivID) String() string {
	return fmt.Sprintf("%02d%02d.%s", a.Year, a.Month, a.Number)
}

// DOI is a digital object identifier split into registrant and suffix.
type DOI struct {
	Registrant string
	Suffix     string
}

func (d DOI) String() string {
	return fmt.Sprintf("10.%s/%s", d.Registrant, d.Suffix)
}

// Identifier is a tagged union over the supported identifier schemes. Only
// the field selected by Kind is meaningful.
type Identifier struct {
	Kind   IDKind
	Arxiv  ArxivID
	DOI    DOI
	Custom string
}

// NewArxivIdentifier wraps an arXiv id.
func NewArxivIdentifier(id ArxivID) Identifier {
	return Identifier{Kind: IDArxiv, Arxiv: id}
}

// NewDOIIdentifier wraps a DOI.
func NewDOIIdentifier(doi DOI) Identifier {
	return Identifier{Kind: IDDoi, DOI: doi}
}

// NewCustomIdentifier wraps a free-form identifier.
func NewCustomIdentifier(value string) Identifier {
	return Identifier{Kind: IDCustom, Custom: value}
}

// CustomFromTitle builds the fallback identifier used when a provider offers
// nothing structured.
func CustomFromTitle(t Title) Identifier {
	return NewCustomIdentifier(strings.ReplaceAll(t.Normalized(), " ", "_"))
}

func (id Identifier) String() string {
	switch id.Kind {
	case IDArxiv:
		return id.Arxiv.String()
	case IDDoi:
		return id.DOI.String()
	default:
		return id.Custom
	}
}

// Equal compares the active variant only.
func (id Identifier) Equal(other Identifier) bool {
	if id.Kind != other.Kind {
		return false
	}
	switch id.Kind {
	case IDArxiv:
		return id.Arxiv == other.Arxiv
	case IDDoi:
		return strings.EqualFold(id.DOI.Registrant, other.DOI.Registrant) &&
			strings.EqualFold(id.DOI.Suffix, other.DOI.Suffix)
	default:
		return id.Custom == other.Custom
	}
}

// ParseArxivID reads the identifier from the last path segment of an
// abstract or PDF URL, or from a bare id. Version suffixes are dropped so
// that all revisions of a preprint compare equal.
func ParseArxivID(locator string) (ArxivID, error) {
	locator = strings.TrimSpace(locator)
	if idx := strings.LastIndex(locator, "/"); idx >= 0 {
		locator = locator[idx+1:]
	}
	locator = strings.TrimSuffix(locator, ".pdf")
	m := arxivIDPattern.FindStringSubmatch(locator)
	if m == nil {
		return ArxivID{}, fmt.Errorf("arxiv locator %q: %w", locator, ErrUnparsableIdentifier)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	number := arxivVersionTail.ReplaceAllString(m[3], "")
	if number == "" {
		return ArxivID{}, fmt.Errorf("arxiv locator %q: %w", locator, ErrUnparsableIdentifier)
	}
	return ArxivID{Year: year, Month: month, Number: number}, nil
}

// ParseDOI extracts a DOI from a raw DOI string or a doi.org URL.
func ParseDOI(raw string) (DOI, error) {
	m := doiPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return DOI{}, fmt.Errorf("doi %q: %w", raw, ErrUnparsableIdentifier)
	}
	return DOI{Registrant: m[1], Suffix: m[2]}, nil
}
