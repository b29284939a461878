package render

import "image/color"

// Page colors and geometry around the rasterized mockup.
var (
	// PageBackground fills the area behind the mockup and the banner.
	PageBackground = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF6, A: 0xFF}
	// BannerForeground is the color of the info banner text.
	BannerForeground = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}

	// DefaultViewportHeight resolves vh margins when the caller has no viewport.
	DefaultViewportHeight = 1080

	// Kiosk canvas size; scaled to the framebuffer.
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

const (
	pagePadding    = 16
	minPageWidth   = 360
	bannerFontSize = 14
	bannerGap      = 8
	maxIconBytes   = 8 << 20
)
