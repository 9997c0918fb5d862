package ota

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Flavor is a build variant with its own directory of metadata files.
type Flavor struct {
	Name string // e.g. "Gapps", "Vanilla"
	Dir  string
}

// BuildRecord is the first response entry of a device metadata file.
// It is written by the external build pipeline and never modified here.
type BuildRecord struct {
	Version    flexString `json:"version"`
	OEM        string     `json:"oem"`
	Device     string     `json:"device"`
	Maintainer string     `json:"maintainer"`
	Timestamp  flexInt    `json:"timestamp"`
	Download   string     `json:"download"`
	Size       flexInt    `json:"size"`
	MD5        string     `json:"md5"`
	SHA256     string     `json:"sha256"`
	Forum      string     `json:"forum"`
	Telegram   string     `json:"telegram"`
}

// Hash returns the content hash that identifies this build.
func (r *BuildRecord) Hash() string {
	return r.MD5
}

type metadataDocument struct {
	Response []BuildRecord `json:"response"`
}

// ParseMetadata decodes a metadata document and returns its first response entry.
func ParseMetadata(data []byte) (*BuildRecord, error) {
	var doc metadataDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	if len(doc.Response) == 0 {
		return nil, fmt.Errorf("metadata has no response entries")
	}
	return &doc.Response[0], nil
}

// CodenameFromFilename derives a device codename from its metadata file name:
// everything before the first dot.
func CodenameFromFilename(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// flexInt accepts either a JSON number or a string holding an integer.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", string(data), err)
	}
	*n = flexInt(v)
	return nil
}

// flexString accepts either a JSON string or a number. Numbers keep their
// literal text, so 14.2 and "14.2" decode alike.
type flexString string

func (v *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid version %s: %w", string(data), err)
		}
		*v = flexString(n.String())
	}
	return nil
}

// BuildInfo is the announcement-ready view of a single build.
type BuildInfo struct {
	Version    string
	OEM        string
	DeviceName string
	Codename   string
	Maintainer string
	Time       time.Time
	Download   string
	Flavor     string
	SizeGB     float64
	MD5        string
	SHA256     string
	Forum      string
	Telegram   string
}

// SizeString formats SizeGB the way the download page shows it: always at
// least one decimal ("2.0", "1.53").
func (b *BuildInfo) SizeString() string {
	s := strconv.FormatFloat(b.SizeGB, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// GigabytesFromBytes converts a byte count to decimal gigabytes rounded to 2 places.
func GigabytesFromBytes(size int64) float64 {
	return math.Round(float64(size)/1e9*100) / 100
}

// DeviceSummary is the projection of a build used by the status digest.
type DeviceSummary struct {
	DeviceName string
	Codename   string
	Maintainer string
	Version    string
}
