// Package banner draws per-device promotional banners onto a fixed template.
package banner

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"otabot/internal/config"
	"otabot/internal/ota"
)

// Device names up to this many characters use the large font size.
const longNameThreshold = 12

const (
	deviceSizeLarge = 140
	deviceSizeSmall = 100
)

// TextStyle places one line of text. X and Y are the top-left corner of the
// line's ascender box, in template pixels.
type TextStyle struct {
	X, Y  int
	Size  float64
	Color color.RGBA
}

// Layout positions the three banner lines. Device.Size is ignored; it is
// chosen per name by DeviceFontSize.
type Layout struct {
	Vendor   TextStyle
	Device   TextStyle
	Codename TextStyle
}

// DefaultLayout matches the 1080px-wide DroidX-UI template.
var DefaultLayout = Layout{
	Vendor:   TextStyle{X: 85, Y: 590, Size: 60, Color: color.RGBA{255, 69, 0, 255}},
	Device:   TextStyle{X: 80, Y: 680, Color: color.RGBA{238, 238, 238, 255}},
	Codename: TextStyle{X: 80, Y: 1320, Size: 40, Color: color.RGBA{51, 51, 51, 255}},
}

// DeviceFontSize returns the device name font size: large for names of up to
// 12 characters, smaller for longer names so they stay on the template.
func DeviceFontSize(name string) float64 {
	if utf8.RuneCountInString(name) <= longNameThreshold {
		return deviceSizeLarge
	}
	return deviceSizeSmall
}

// Renderer draws banners from a template image and two fonts loaded once.
// Assets are read and banners written through the filesystem manager that
// the service later removes them with.
type Renderer struct {
	fsmgr        ota.FilesystemManager
	template     image.Image
	titleFont    *opentype.Font
	codenameFont *opentype.Font
	layout       Layout
	outputDir    string
}

var _ ota.BannerRenderer = (*Renderer)(nil)

// NewRenderer loads the template and fonts. Missing or unreadable assets are
// returned as errors; callers treat them as fatal at startup.
func NewRenderer(fsmgr ota.FilesystemManager, templatePath, titleFontPath, codenameFontPath, outputDir string, layout Layout) (*Renderer, error) {
	tmpl, err := loadTemplate(fsmgr, templatePath)
	if err != nil {
		return nil, err
	}
	title, err := loadFont(fsmgr, titleFontPath)
	if err != nil {
		return nil, err
	}
	codename, err := loadFont(fsmgr, codenameFontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		fsmgr:        fsmgr,
		template:     tmpl,
		titleFont:    title,
		codenameFont: codename,
		layout:       layout,
		outputDir:    outputDir,
	}, nil
}

// NewRendererFromConfig creates a Renderer with the default layout.
func NewRendererFromConfig(cfg config.BannerConfig, fsmgr ota.FilesystemManager) (*Renderer, error) {
	return NewRenderer(
		fsmgr,
		cfg.TemplatePath,
		filepath.Join(cfg.FontDir, cfg.TitleFont),
		filepath.Join(cfg.FontDir, cfg.CodenameFont),
		cfg.OutputDir,
		DefaultLayout,
	)
}

func loadTemplate(fsmgr ota.FilesystemManager, path string) (image.Image, error) {
	data, err := fsmgr.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening banner template: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding banner template %s: %w", path, err)
	}
	return img, nil
}

func loadFont(fsmgr ota.FilesystemManager, path string) (*opentype.Font, error) {
	data, err := fsmgr.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return f, nil
}

// Render draws vendor, device name and the upper-cased codename onto a copy
// of the template and writes <outputDir>/<codename>_banner.png, creating
// outputDir if needed.
func (r *Renderer) Render(vendor, deviceName, codename string) (string, error) {
	bounds := r.template.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, r.template, bounds.Min, draw.Src)

	device := r.layout.Device
	device.Size = DeviceFontSize(deviceName)

	lines := []struct {
		font  *opentype.Font
		style TextStyle
		text  string
	}{
		{r.titleFont, r.layout.Vendor, vendor},
		{r.titleFont, device, deviceName},
		{r.codenameFont, r.layout.Codename, strings.ToUpper(codename)},
	}
	for _, l := range lines {
		if err := drawText(canvas, l.font, l.style, l.text); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", fmt.Errorf("encoding banner: %w", err)
	}

	out := filepath.Join(r.outputDir, filepath.Base(codename)+"_banner.png")
	if err := r.fsmgr.WriteFile(out, buf.Bytes()); err != nil {
		return "", fmt.Errorf("writing banner: %w", err)
	}

	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("resolving banner path: %w", err)
	}
	return abs, nil
}

func drawText(dst draw.Image, f *opentype.Font, style TextStyle, text string) error {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("creating %vpx face: %w", style.Size, err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.Color),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(style.X),
			Y: fixed.I(style.Y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
	return nil
}
