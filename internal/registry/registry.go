// Package registry scans the flavor directories of build metadata files and
// indexes them into an ota.Catalog.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"otabot/internal/fs"
	"otabot/internal/ota"
)

// DefaultExtension is the metadata file suffix scanned when none is configured.
const DefaultExtension = ".json"

// Scanner reads every metadata file of every flavor.
type Scanner struct {
	fsmgr   ota.FilesystemManager
	flavors []ota.Flavor
	ext     string
	ignore  *fs.IgnoreMatcher
}

// NewScanner creates a Scanner over flavors, in the order given.
// ignore patterns apply to every flavor directory in addition to the
// directory's own ignore file.
func NewScanner(fsmgr ota.FilesystemManager, flavors []ota.Flavor, ext string, ignore []string) *Scanner {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Scanner{
		fsmgr:   fsmgr,
		flavors: flavors,
		ext:     ext,
		ignore:  fs.NewIgnoreMatcher(ignore),
	}
}

// Scan reads and parses all metadata files. Any unreadable or malformed
// file fails the whole scan.
func (s *Scanner) Scan() (*ota.Catalog, error) {
	var entries []ota.CatalogEntry

	for _, flavor := range s.flavors {
		names, err := s.fsmgr.ListFiles(flavor.Dir, s.ext)
		if err != nil {
			return nil, fmt.Errorf("listing %s builds: %w", flavor.Name, err)
		}

		extra, err := s.readIgnoreFile(flavor.Dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s ignore file: %w", flavor.Name, err)
		}
		ignore := s.ignore.With(extra)

		for _, name := range names {
			if ignore.Match(flavor.Dir, name) {
				continue
			}

			path := filepath.Join(flavor.Dir, name)
			data, err := s.fsmgr.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading metadata: %w", err)
			}
			record, err := ota.ParseMetadata(data)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}

			entries = append(entries, ota.CatalogEntry{
				Flavor:   flavor.Name,
				Filename: name,
				Codename: ota.CodenameFromFilename(name),
				Record:   *record,
			})
		}
	}

	return ota.NewCatalog(entries), nil
}

// readIgnoreFile returns the patterns of dir's ignore file, or nil if it has none.
func (s *Scanner) readIgnoreFile(dir string) ([]string, error) {
	data, err := s.fsmgr.ReadFile(filepath.Join(dir, fs.IgnoreFileName))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return fs.ParseIgnorePatterns(bytes.NewReader(data))
}
