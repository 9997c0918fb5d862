package fs

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the per-directory file listing metadata files to skip.
const IgnoreFileName = ".otaignore"

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // true = match against "<dir>/<name>"; false = match against the name only
}

// IgnoreMatcher decides which metadata files a registry scan skips.
// Patterns without '/' match the file name. Patterns with '/' match
// "<flavor dir basename>/<file name>", so "gapps/test.json" skips one flavor's file.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// With returns a matcher holding m's patterns followed by extra.
func (m *IgnoreMatcher) With(extra []string) *IgnoreMatcher {
	more := NewIgnoreMatcher(extra)
	return &IgnoreMatcher{
		patterns: append(append([]ignorePattern{}, m.patterns...), more.patterns...),
	}
}

// Match reports whether the file name inside dir should be skipped.
func (m *IgnoreMatcher) Match(dir, name string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	rel := filepath.Base(filepath.Clean(dir)) + "/" + name

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, rel)
		} else {
			matched, err = filepath.Match(p.pattern, name)
		}
		if err != nil {
			// Bad pattern: skip rather than fail the scan.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnorePatterns returns the raw lines of an ignore file.
func ParseIgnorePatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
