package testutil

import (
	"fmt"
	"path/filepath"

	"otabot/internal/ota"
)

// RenderedBanner is one Render call recorded by StubBannerRenderer.
type RenderedBanner struct {
	Vendor, DeviceName, Codename string
}

// StubBannerRenderer writes a placeholder file into a mock filesystem so the
// service's cleanup can be observed.
type StubBannerRenderer struct {
	fsmgr    *MockFilesystemManager
	dir      string
	Rendered []RenderedBanner
	Err      error
}

func NewStubBannerRenderer(fsmgr *MockFilesystemManager, dir string) *StubBannerRenderer {
	return &StubBannerRenderer{fsmgr: fsmgr, dir: dir}
}

func (r *StubBannerRenderer) Render(vendor, deviceName, codename string) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.Rendered = append(r.Rendered, RenderedBanner{vendor, deviceName, codename})
	path := filepath.Join(r.dir, fmt.Sprintf("%s_banner.png", codename))
	r.fsmgr.AddFile(path, []byte("png"))
	return path, nil
}

var _ ota.BannerRenderer = (*StubBannerRenderer)(nil)
