package ota

import (
	"errors"
	"fmt"
	"time"
)

// ErrBuildNotFound is returned when no metadata file carries the requested hash.
var ErrBuildNotFound = errors.New("build not found")

// CatalogEntry is one metadata file as found during a registry scan.
type CatalogEntry struct {
	Flavor   string
	Filename string
	Codename string
	Record   BuildRecord
}

// Catalog is the in-memory index of every metadata file found in one scan.
// It is built once per run and shared by the announce and digest steps.
type Catalog struct {
	entries []CatalogEntry
	byHash  map[string]int
}

// NewCatalog indexes entries in the given order. When two files share a hash,
// the first one wins.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries: entries,
		byHash:  make(map[string]int, len(entries)),
	}
	for i := range entries {
		h := entries[i].Record.Hash()
		if _, ok := c.byHash[h]; !ok {
			c.byHash[h] = i
		}
	}
	return c
}

// Len returns the number of metadata files in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Hashes returns the hash of every metadata file in scan order.
func (c *Catalog) Hashes() []string {
	hashes := make([]string, len(c.entries))
	for i := range c.entries {
		hashes[i] = c.entries[i].Record.Hash()
	}
	return hashes
}

// InfoFor returns the build info for the first file carrying hash.
func (c *Catalog) InfoFor(hash string) (*BuildInfo, error) {
	i, ok := c.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, hash)
	}
	e := &c.entries[i]
	r := &e.Record
	return &BuildInfo{
		Version:    string(r.Version),
		OEM:        r.OEM,
		DeviceName: r.Device,
		Codename:   e.Codename,
		Maintainer: r.Maintainer,
		Time:       time.Unix(int64(r.Timestamp), 0).UTC(),
		Download:   r.Download,
		Flavor:     e.Flavor,
		SizeGB:     GigabytesFromBytes(int64(r.Size)),
		MD5:        r.MD5,
		SHA256:     r.SHA256,
		Forum:      r.Forum,
		Telegram:   r.Telegram,
	}, nil
}

// Summaries returns a device summary for every metadata file in scan order.
func (c *Catalog) Summaries() []DeviceSummary {
	out := make([]DeviceSummary, len(c.entries))
	for i := range c.entries {
		e := &c.entries[i]
		out[i] = DeviceSummary{
			DeviceName: e.Record.Device,
			Codename:   e.Codename,
			Maintainer: e.Record.Maintainer,
			Version:    string(e.Record.Version),
		}
	}
	return out
}
