package ota

import (
	"context"
	"regexp"
	"strings"
)

// VersionSource fetches the reference ROM version that devices are compared
// against. An empty string means the version could not be determined.
type VersionSource interface {
	ReferenceVersion(ctx context.Context) (string, error)
}

// ParseReferenceVersion extracts "major.minor" from a makefile-style version
// file holding lines like "PRODUCT_VERSION_MAJOR = 14". It returns "" if
// either key is missing.
func ParseReferenceVersion(content, majorKey, minorKey string) string {
	major := findAssignment(content, majorKey)
	minor := findAssignment(content, minorKey)
	if major == "" || minor == "" {
		return ""
	}
	return major + "." + minor
}

func findAssignment(content, key string) string {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*[:?]?=[ \t]*(.+)$`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
