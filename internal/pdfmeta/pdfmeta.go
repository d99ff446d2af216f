// Package pdfmeta reads bibliographic hints out of PDF files.
package pdfmeta

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	doiPattern   = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
	authorSplit  = regexp.MustCompile(`\s*(?:;|,| and )\s*`)
	spacePattern = regexp.MustCompile(`\s+`)
)

const scanPages = 2

// Metadata is what could be recovered from a PDF. Any field may be empty.
type Metadata struct {
	Title   string
	Authors []string
	DOI     string
}

// Read extracts the Info dictionary Title and Author. When the dictionary
// has no title the first substantial line of page one is used. The first
// pages are scanned for a DOI.
func Read(path string) (Metadata, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var md Metadata
	info := r.Trailer().Key("Info")
	if !info.IsNull() {
		md.Title = clean(info.Key("Title").Text())
		md.Authors = splitAuthors(info.Key("Author").Text())
	}

	pages := r.NumPage()
	if pages > scanPages {
		pages = scanPages
	}
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if md.Title == "" && i == 1 {
			md.Title = firstLine(text)
		}
		if md.DOI == "" {
			md.DOI = strings.TrimRight(doiPattern.FindString(text), ".,;")
		}
	}
	return md, nil
}

func clean(s string) string {
	return spacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

func splitAuthors(raw string) []string {
	raw = clean(raw)
	if raw == "" {
		return nil
	}
	var authors []string
	for _, a := range authorSplit.Split(raw, -1) {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = clean(line)
		if len(line) > 20 && !strings.HasPrefix(strings.ToLower(line), "arxiv:") {
			return line
		}
	}
	return ""
}
