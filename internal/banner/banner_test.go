package banner

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"otabot/internal/fs"
	"otabot/internal/testutil"
)

func templatePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1080, 1440))); err != nil {
		t.Fatalf("encoding template: %v", err)
	}
	return buf.Bytes()
}

// writeAssets creates a blank template and a font file in dir.
func writeAssets(t *testing.T, dir string) (tmpl, fontPath string) {
	t.Helper()

	tmpl = filepath.Join(dir, "template.png")
	if err := os.WriteFile(tmpl, templatePNG(t), 0644); err != nil {
		t.Fatalf("writing template: %v", err)
	}

	fontPath = filepath.Join(dir, "regular.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0644); err != nil {
		t.Fatalf("writing font: %v", err)
	}
	return tmpl, fontPath
}

func hasColor(img image.Image, r image.Rectangle, want color.RGBA) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if got == want {
				return true
			}
		}
	}
	return false
}

func TestDeviceFontSize(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"Pixel 7", 140},
		{"ABCDEFGHIJKL", 140},  // 12
		{"ABCDEFGHIJKLM", 100}, // 13
		{"Redmi Note 10 Pro", 100},
		{"ÄÖÜäöüßÄÖÜäö", 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviceFontSize(tt.name); got != tt.want {
				t.Errorf("DeviceFontSize(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	tmpl, fontPath := writeAssets(t, dir)
	outDir := filepath.Join(dir, "out")

	r, err := NewRenderer(fs.NewOSFilesystemManager(), tmpl, fontPath, fontPath, outDir, DefaultLayout)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	path, err := r.Render("XIAOMI", "Poco F5", "marble")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("Render() path %q is not absolute", path)
	}
	if filepath.Base(path) != "marble_banner.png" {
		t.Errorf("Render() file = %q, want marble_banner.png", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening banner: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding banner: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, 1080, 1440) {
		t.Errorf("banner bounds = %v, want template bounds", img.Bounds())
	}

	vendor := DefaultLayout.Vendor
	if !hasColor(img, image.Rect(vendor.X, vendor.Y, 1080, vendor.Y+80), vendor.Color) {
		t.Error("vendor line not drawn in its colour")
	}
	device := DefaultLayout.Device
	if !hasColor(img, image.Rect(device.X, device.Y, 1080, device.Y+180), device.Color) {
		t.Error("device line not drawn in its colour")
	}
	code := DefaultLayout.Codename
	if !hasColor(img, image.Rect(code.X, code.Y, 1080, 1440), code.Color) {
		t.Error("codename line not drawn in its colour")
	}
}

func TestRenderer_Render_overwrites(t *testing.T) {
	dir := t.TempDir()
	tmpl, fontPath := writeAssets(t, dir)

	r, err := NewRenderer(fs.NewOSFilesystemManager(), tmpl, fontPath, fontPath, dir, DefaultLayout)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	first, err := r.Render("Google", "Pixel 7", "panther")
	if err != nil {
		t.Fatalf("first Render() error = %v", err)
	}
	second, err := r.Render("Google", "Pixel 7 Pro", "panther")
	if err != nil {
		t.Fatalf("second Render() error = %v", err)
	}
	if first != second {
		t.Errorf("Render() paths differ: %q vs %q", first, second)
	}
}

func TestNewRenderer_missingAssets(t *testing.T) {
	dir := t.TempDir()
	tmpl, fontPath := writeAssets(t, dir)

	tests := []struct {
		name     string
		tmpl     string
		title    string
		codename string
		wantErr  string
	}{
		{"template", filepath.Join(dir, "nope.png"), fontPath, fontPath, "template"},
		{"title font", tmpl, filepath.Join(dir, "nope.otf"), fontPath, "font"},
		{"codename font", tmpl, fontPath, filepath.Join(dir, "nope.otf"), "font"},
		{"template not png", fontPath, fontPath, fontPath, "decoding"},
		{"font not a font", tmpl, tmpl, fontPath, "parsing font"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(fs.NewOSFilesystemManager(), tt.tmpl, tt.title, tt.codename, dir, DefaultLayout)
			if err == nil {
				t.Fatal("NewRenderer() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRenderer_Render_throughFilesystemManager(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/repo/assets/template.png", templatePNG(t))
	fsmgr.AddFile("/repo/assets/fonts/title.ttf", goregular.TTF)
	fsmgr.AddFile("/repo/assets/fonts/codename.ttf", goregular.TTF)

	r, err := NewRenderer(fsmgr, "/repo/assets/template.png",
		"/repo/assets/fonts/title.ttf", "/repo/assets/fonts/codename.ttf",
		"/repo/assets", DefaultLayout)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	path, err := r.Render("XIAOMI", "Poco F5", "marble")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if path != "/repo/assets/marble_banner.png" {
		t.Errorf("Render() path = %q, want /repo/assets/marble_banner.png", path)
	}

	data, ok := fsmgr.Contents(path)
	if !ok {
		t.Fatal("banner not written through the filesystem manager")
	}
	if _, err := png.Decode(strings.NewReader(data)); err != nil {
		t.Errorf("written banner is not a PNG: %v", err)
	}

	if err := fsmgr.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if fsmgr.Exists(path) {
		t.Error("banner still present after Remove")
	}
}
