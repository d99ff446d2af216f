// Package catalog persists the personal list of downloaded papers.
//
// The on-disk file is a 4-byte big-endian version tag followed by a gob
// encoded list of entries. Writes go to a temporary file in the same
// directory which is synced and renamed over the destination, so a crash
// mid-save leaves either the old or the new file, never a partial one.
package catalog

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

const (
	// FileName is the catalog file inside the data directory.
	FileName = "catalog.db"
	// CurrentVersion is the only format version this build reads and writes.
	CurrentVersion uint32 = 1

	versionTagSize = 4
)

var (
	// ErrUnsupportedVersion is returned when the file was written by an
	// incompatible build. There is no migration path.
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
	// ErrCorrupt is returned when the file cannot be decoded.
	ErrCorrupt = errors.New("corrupt catalog")
)

// rename is swapped in tests to simulate a crash before the final step.
var rename = os.Rename

// Catalog is the in-memory entry list. It is not safe for concurrent use;
// the Actor serialises access.
type Catalog struct {
	dir     string
	entries []paper.LocalHit
	dirty   bool
}

// Open loads the catalog in dir. A missing file yields an empty catalog and
// the directory is created.
func Open(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	c := &Catalog{dir: dir}

	data, err := os.ReadFile(c.Path())
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	entries, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Path(), err)
	}
	c.entries = entries
	return c, nil
}

func decode(data []byte) ([]paper.LocalHit, error) {
	if len(data) < versionTagSize {
		return nil, fmt.Errorf("%w: missing version tag", ErrCorrupt)
	}
	version := binary.BigEndian.Uint32(data[:versionTagSize])
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: found %d, want %d", ErrUnsupportedVersion, version, CurrentVersion)
	}
	var entries []paper.LocalHit
	if len(data) == versionTagSize {
		return entries, nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data[versionTagSize:])).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return entries, nil
}

func encode(w io.Writer, entries []paper.LocalHit) error {
	var tag [versionTagSize]byte
	binary.BigEndian.PutUint32(tag[:], CurrentVersion)
	if _, err := w.Write(tag[:]); err != nil {
		return err
	}
	if entries == nil {
		entries = []paper.LocalHit{}
	}
	return gob.NewEncoder(w).Encode(entries)
}

// Path is the location of the catalog file.
func (c *Catalog) Path() string {
	return filepath.Join(c.dir, FileName)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Dirty reports whether there are unsaved changes.
func (c *Catalog) Dirty() bool {
	return c.dirty
}

// Entries returns a copy of the entry list.
func (c *Catalog) Entries() []paper.LocalHit {
	return append([]paper.LocalHit(nil), c.entries...)
}

// Add records entry. An existing entry for the same work is relinked to the
// new location instead of being duplicated; its Info stays and it picks up
// any URLs it did not list yet.
func (c *Catalog) Add(entry paper.LocalHit) {
	c.dirty = true
	for i := range c.entries {
		if !c.entries[i].Info.SameWork(entry.Info) {
			continue
		}
		c.entries[i].Location = entry.Location
		c.entries[i].URLs = mergeURLs(c.entries[i].URLs, entry.URLs)
		return
	}
	c.entries = append(c.entries, entry)
}

func mergeURLs(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seen[u] = struct{}{}
	}
	for _, u := range extra {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		existing = append(existing, u)
	}
	return existing
}

// Query returns matching entries in catalog order. maxHits <= 0 means no cap.
func (c *Catalog) Query(q query.Query, maxHits int) []paper.LocalHit {
	var hits []paper.LocalHit
	for _, entry := range c.entries {
		if maxHits > 0 && len(hits) >= maxHits {
			break
		}
		if entry.Info.Matches(q) {
			hits = append(hits, entry)
		}
	}
	return hits
}

// FindByPath returns the entry stored at path.
func (c *Catalog) FindByPath(path string) (paper.LocalHit, bool) {
	for _, entry := range c.entries {
		if entry.Location == path {
			return entry, true
		}
	}
	return paper.LocalHit{}, false
}

// Clean drops every entry whose file is gone and returns the dropped ones.
// The order of the remaining entries is not preserved.
func (c *Catalog) Clean() []paper.LocalHit {
	var removed []paper.LocalHit
	for i := 0; i < len(c.entries); {
		if c.entries[i].Exists() {
			i++
			continue
		}
		removed = append(removed, c.entries[i])
		last := len(c.entries) - 1
		c.entries[i] = c.entries[last]
		c.entries = c.entries[:last]
	}
	if len(removed) > 0 {
		c.dirty = true
	}
	return removed
}

// Clear drops every entry and returns them.
func (c *Catalog) Clear() []paper.LocalHit {
	removed := c.entries
	c.entries = nil
	c.dirty = true
	return removed
}

// Save writes the catalog if it changed since the last save.
func (c *Catalog) Save() error {
	if !c.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(c.dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := encode(tmp, c.entries); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := rename(tmpPath, c.Path()); err != nil {
		cleanup()
		return fmt.Errorf("replace catalog: %w", err)
	}
	c.dirty = false
	return nil
}
