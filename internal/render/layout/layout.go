// Package layout holds small rectangle helpers used to place mockup elements.
// All helpers work in logical (CSS) pixels.
package layout

import (
	"image"
	"math"
)

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	topHeightPx = clamp(topHeightPx, 0, rect.Dy())
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// AnchorTopLeft returns a rectangle of size (widthPx,heightPx) placed in the top-left of rect.
func AnchorTopLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+widthPx, rect.Min.Y+heightPx)
}

// AnchorTopRight returns a rectangle of size (widthPx,heightPx) placed in the top-right of rect.
func AnchorTopRight(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	return image.Rect(rect.Max.X-widthPx, rect.Min.Y, rect.Max.X, rect.Min.Y+heightPx)
}

// CenterIn returns a rectangle of size (widthPx,heightPx) centered in rect.
// The size is not clamped: content larger than rect overflows evenly on both sides.
func CenterIn(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	x := rect.Min.X + (rect.Dx()-widthPx)/2
	y := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(x, y, x+widthPx, y+heightPx)
}

// CenterHorizontally places a (widthPx,heightPx) box at topY, centered on rect's x axis.
func CenterHorizontally(rect image.Rectangle, topY, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	x := rect.Min.X + (rect.Dx()-widthPx)/2
	return image.Rect(x, topY, x+widthPx, topY+heightPx)
}

// Scale multiplies every coordinate of rect by factor, rounding outward so
// scaled neighbours never leave a gap between them.
func Scale(rect image.Rectangle, factor float64) image.Rectangle {
	rect = Normalize(rect)
	return image.Rect(
		int(math.Floor(float64(rect.Min.X)*factor)),
		int(math.Floor(float64(rect.Min.Y)*factor)),
		int(math.Ceil(float64(rect.Max.X)*factor)),
		int(math.Ceil(float64(rect.Max.Y)*factor)),
	)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
