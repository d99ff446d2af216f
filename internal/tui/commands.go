package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/remote"
)

// Downloader stores a PDF and returns its path.
type Downloader interface {
	Fetch(ctx context.Context, url, name string) (string, error)
}

// CatalogSaver records a downloaded paper.
type CatalogSaver interface {
	Save(ctx context.Context, entry paper.LocalHit) error
}

// BibCopier fetches a BibTeX entry onto the clipboard.
type BibCopier interface {
	CopyToClipboard(ctx context.Context, url string) (string, error)
}

// Opener opens a path or URL in the default application.
type Opener interface {
	Open(target string) error
}

type resultMsg struct {
	result remote.Result
}

type loadedMsg struct {
	result catalog.LoadResult
}

type downloadDoneMsg struct {
	title string
	path  string
	err   error
}

type clipboardDoneMsg struct {
	url   string
	entry string
	err   error
}

type openDoneMsg struct {
	target string
	err    error
}

// errNotCatalogued marks a download that succeeded while the catalog was
// unavailable.
var errNotCatalogued = errors.New("downloaded but not added to the catalog")

func waitForResult(ch <-chan remote.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return resultMsg{result: res}
	}
}

func waitForLoad(ch <-chan catalog.LoadResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return loadedMsg{result: res}
	}
}

// downloadJob fetches the PDF and only then records it, so the catalog
// never points at a file that does not exist.
func downloadJob(dl Downloader, saver CatalogSaver, info paper.Info, url string) jobRunner {
	title := info.Title.String()
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 3*time.Minute)
		defer cancel()
		path, err := dl.Fetch(ctx, url, info.DefaultFilename())
		if err != nil {
			err = fmt.Errorf("download failed: %w", err)
			return downloadDoneMsg{title: title, err: err}, err
		}
		if saver == nil {
			return downloadDoneMsg{title: title, path: path, err: errNotCatalogued}, errNotCatalogued
		}
		entry := paper.LocalHit{Info: info, Location: path, URLs: []string{url}}
		if err := saver.Save(ctx, entry); err != nil {
			err = fmt.Errorf("%w: %v", errNotCatalogued, err)
			return downloadDoneMsg{title: title, path: path, err: err}, err
		}
		return downloadDoneMsg{title: title, path: path}, nil
	}
}

func clipboardJob(bib BibCopier, url string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		entry, err := bib.CopyToClipboard(ctx, url)
		return clipboardDoneMsg{url: url, entry: entry, err: err}, err
	}
}

func openJob(o Opener, target string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := o.Open(target)
		return openDoneMsg{target: target, err: err}, err
	}
}
