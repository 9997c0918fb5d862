package testutil

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// Build describes a metadata fixture. Zero fields get plausible defaults.
type Build struct {
	Codename   string
	MD5        string
	Version    string
	OEM        string
	Device     string
	Maintainer string
	Timestamp  int64
	Size       int64
}

// MetadataJSON renders b in the build pipeline's metadata format.
func MetadataJSON(b Build) []byte {
	if b.Version == "" {
		b.Version = "14.2"
	}
	if b.OEM == "" {
		b.OEM = "Xiaomi"
	}
	if b.Device == "" {
		b.Device = "Device " + b.Codename
	}
	if b.Maintainer == "" {
		b.Maintainer = "maint_" + b.Codename
	}
	if b.Timestamp == 0 {
		b.Timestamp = 1705314600
	}
	if b.Size == 0 {
		b.Size = 2000000000
	}
	doc := map[string]any{
		"response": []map[string]any{{
			"version":    b.Version,
			"oem":        b.OEM,
			"device":     b.Device,
			"maintainer": b.Maintainer,
			"timestamp":  b.Timestamp,
			"download":   fmt.Sprintf("https://sourceforge.net/projects/droidx/files/%s.zip", b.Codename),
			"size":       b.Size,
			"md5":        b.MD5,
			"sha256":     "sha-" + b.MD5,
			"forum":      "https://xdaforums.com/" + b.Codename,
			"telegram":   "https://t.me/droidx_" + b.Codename,
			"filename":   b.Codename + ".zip",
		}},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

// AddBuild writes b as <dir>/<codename>.json into the mock filesystem.
func AddBuild(m *MockFilesystemManager, dir string, b Build) {
	m.AddFile(filepath.Join(dir, b.Codename+".json"), MetadataJSON(b))
}
