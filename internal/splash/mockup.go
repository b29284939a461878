package splash

import (
	"encoding/json"
	"image"
	"strconv"
)

// ElementKind identifies the role of an element inside a mockup.
type ElementKind string

const (
	ElementChrome    ElementKind = "chrome"     // device artwork behind everything
	ElementScreen    ElementKind = "screen"     // area painted with the background color
	ElementStatusBar ElementKind = "status-bar" // iOS status bar artwork
	ElementPhoneBar  ElementKind = "phone-bar"  // Android status/navigation bar
	ElementIcon      ElementKind = "icon"
	ElementAppName   ElementKind = "app-name"
	ElementCollapse  ElementKind = "collapse" // Windows minimize bar
	ElementClose     ElementKind = "close"    // Windows close glyph
)

// Element is one positioned piece of a mockup, in container coordinates
// (CSS pixels, before scaling).
type Element struct {
	Kind   ElementKind
	Bounds image.Rectangle

	// Fill colors screens, bars and window glyphs.
	Fill string
	// Radius rounds the corners of filled rectangles and artwork.
	Radius int

	// Src is an asset path (see IsAsset) or a caller-provided icon URL.
	Src string
	Alt string

	Text       string
	Color      string
	FontSize   int
	FontWeight int
}

type elementJSON struct {
	Kind       ElementKind `json:"kind"`
	X          int         `json:"x"`
	Y          int         `json:"y"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Fill       string      `json:"fill,omitempty"`
	Radius     int         `json:"radius,omitempty"`
	Src        string      `json:"src,omitempty"`
	Alt        string      `json:"alt,omitempty"`
	Text       string      `json:"text,omitempty"`
	Color      string      `json:"color,omitempty"`
	FontSize   int         `json:"fontSize,omitempty"`
	FontWeight int         `json:"fontWeight,omitempty"`
}

// MarshalJSON flattens Bounds into x/y/width/height.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{
		Kind:       e.Kind,
		X:          e.Bounds.Min.X,
		Y:          e.Bounds.Min.Y,
		Width:      e.Bounds.Dx(),
		Height:     e.Bounds.Dy(),
		Fill:       e.Fill,
		Radius:     e.Radius,
		Src:        e.Src,
		Alt:        e.Alt,
		Text:       e.Text,
		Color:      e.Color,
		FontSize:   e.FontSize,
		FontWeight: e.FontWeight,
	})
}

// Unit is the unit of a Length.
type Unit string

const (
	UnitPx Unit = "px"
	// UnitVh is a percentage of the viewport height.
	UnitVh Unit = "vh"
)

// Length is a CSS-style length.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }
func Vh(v float64) Length { return Length{Value: v, Unit: UnitVh} }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// Pixels resolves l against a viewport of viewportHeight pixels.
func (l Length) Pixels(viewportHeight int) float64 {
	if l.Unit == UnitVh {
		return l.Value * float64(viewportHeight) / 100
	}
	return l.Value
}

// Mockup is the laid-out splash screen preview for one platform.
type Mockup struct {
	Platform Platform `json:"platform"`
	// Info is the descriptive text shown in the banner next to the preview.
	Info string `json:"info"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Scale magnifies the whole container; it is above 1 only in fullscreen.
	Scale     float64 `json:"scale"`
	MarginTop Length  `json:"marginTop"`

	ContrastColor string    `json:"contrastColor"`
	Elements      []Element `json:"elements"`
}

// Find returns every element of the given kind in paint order.
func (m *Mockup) Find(kind ElementKind) []Element {
	if m == nil {
		return nil
	}
	var out []Element
	for _, e := range m.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first element of the given kind.
func (m *Mockup) First(kind ElementKind) (Element, bool) {
	found := m.Find(kind)
	if len(found) == 0 {
		return Element{}, false
	}
	return found[0], true
}

// Bounds is the unscaled container rectangle.
func (m *Mockup) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}
