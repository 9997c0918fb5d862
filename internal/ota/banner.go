package ota

// BannerRenderer draws a promotional banner for a device and returns the
// absolute path of the written image. The caller owns the file.
type BannerRenderer interface {
	Render(vendor, deviceName, codename string) (string, error)
}
