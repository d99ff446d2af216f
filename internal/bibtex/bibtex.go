// Package bibtex fetches BibTeX exports and places them on the clipboard.
package bibtex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

const maxEntrySize = 256 << 10

// writeClipboard is replaced in tests; CI machines have no clipboard.
var writeClipboard = clipboard.WriteAll

// Fetcher downloads .bib files.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a Fetcher. A nil client gets a short default timeout.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch returns the BibTeX entry served at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no bibliography url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("bib fetch failed: %s (%s)", resp.Status, string(body))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxEntrySize))
	if err != nil {
		return "", fmt.Errorf("read bib: %w", err)
	}
	entry := strings.TrimSpace(string(data))
	if !strings.HasPrefix(entry, "@") {
		return "", fmt.Errorf("response from %s is not a bibtex entry", url)
	}
	return entry, nil
}

// CopyToClipboard fetches url and writes the entry to the clipboard.
func (f *Fetcher) CopyToClipboard(ctx context.Context, url string) (string, error) {
	entry, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if err := writeClipboard(entry); err != nil {
		return "", fmt.Errorf("failed to access clipboard: %w", err)
	}
	return entry, nil
}
