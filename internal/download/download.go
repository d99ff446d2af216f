// Package download stores PDFs in the document directory.
package download

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	partialSuffix      = ".part"
	defaultHTTPTimeout = 90 * time.Second
)

// ErrNotPDF is returned when the server answered with something other than
// a PDF, typically an HTML error page.
var ErrNotPDF = errors.New("response is not a pdf")

var pdfMagic = []byte("%PDF")

// Downloader writes PDFs into dir. Files land under a temporary .part name
// keyed by the source URL and are renamed into place only when complete, so a
// failed download never leaves a file that looks finished and a resumed
// download never mixes bytes from two URLs.
type Downloader struct {
	dir    string
	client *http.Client
}

// New returns a Downloader for dir. A nil client gets a default timeout.
func New(dir string, client *http.Client) (*Downloader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Downloader{dir: dir, client: client}, nil
}

// Dir is the document directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// PathFor is where a file with the given stem is stored when the name is
// still free.
func (d *Downloader) PathFor(name string) string {
	return filepath.Join(d.dir, sanitizeName(name)+".pdf")
}

// freePath returns PathFor(name), or the first "<name>-N.pdf" that does not
// exist yet. Different papers can share a stem, so an existing file is never
// assumed to be the one being downloaded.
func (d *Downloader) freePath(name string) string {
	stem := sanitizeName(name)
	candidate := filepath.Join(d.dir, stem+".pdf")
	for n := 2; ; n++ {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
		candidate = filepath.Join(d.dir, fmt.Sprintf("%s-%d.pdf", stem, n))
	}
}

func (d *Downloader) partialPath(name, pdfURL string) string {
	sum := sha1.Sum([]byte(pdfURL))
	return filepath.Join(d.dir, sanitizeName(name)+"-"+hex.EncodeToString(sum[:4])+partialSuffix)
}

// Fetch downloads pdfURL and returns the path it was stored at, PathFor(name)
// or a numbered variant when that name is taken. An interrupted earlier
// attempt for the same URL is resumed with a range request when the server
// supports it.
func (d *Downloader) Fetch(ctx context.Context, pdfURL, name string) (string, error) {
	partialPath := d.partialPath(name, pdfURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}

	var partialSize int64
	if info, err := os.Stat(partialPath); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return d.saveBody(resp.Body, name, partialPath, false)
	case http.StatusPartialContent:
		return d.saveBody(resp.Body, name, partialPath, partialSize > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pdf download failed: %s (%s)", resp.Status, string(body))
	}
}

func (d *Downloader) saveBody(body io.Reader, name, partialPath string, appendExisting bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		head := make([]byte, len(pdfMagic))
		n, _ := io.ReadFull(body, head)
		if !bytes.Equal(head[:n], pdfMagic) {
			return "", ErrNotPDF
		}
		body = io.MultiReader(bytes.NewReader(head[:n]), body)
	}

	file, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	pdfPath := d.freePath(name)
	if err := os.Rename(partialPath, pdfPath); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func sanitizeName(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, ":", "-")
	value = strings.ReplaceAll(value, "..", "-")
	if value == "" {
		value = "paper"
	}
	return value
}
