// Package contrast picks foreground colors that stay legible on a background.
package contrast

import (
	"image/color"
	"math"
)

const (
	Dark  = "#000"
	Light = "#fff"

	// yiqThreshold splits perceived brightness into light and dark backgrounds.
	yiqThreshold = 128
)

// ContrastingColor returns Dark for light backgrounds and Light for dark ones.
// Input that cannot be parsed yields Dark.
func ContrastingColor(background string) string {
	c, err := ParseColor(background)
	if err != nil {
		return Dark
	}
	if Brightness(c) >= yiqThreshold {
		return Dark
	}
	return Light
}

// Brightness is the YIQ luma of c in the 0..255 range.
// Translucent colors are composited over white first.
func Brightness(c color.NRGBA) float64 {
	r, g, b := overWhite(c)
	return (r*299 + g*587 + b*114) / 1000
}

// RelativeLuminance is the WCAG 2 relative luminance of c in the 0..1 range.
func RelativeLuminance(c color.NRGBA) float64 {
	r, g, b := overWhite(c)
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

// Ratio is the WCAG contrast ratio between two colors, from 1 to 21.
func Ratio(a, b color.NRGBA) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func overWhite(c color.NRGBA) (r, g, b float64) {
	alpha := float64(c.A) / 255
	blend := func(ch uint8) float64 {
		return float64(ch)*alpha + 255*(1-alpha)
	}
	return blend(c.R), blend(c.G), blend(c.B)
}

func linearize(channel float64) float64 {
	v := channel / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
