package splash

import (
	"image"

	"github.com/rook-computer/splashpreview/internal/render/layout"
)

const (
	windowsInfo = "While the PWA is loading, Windows uses the background color, name and " +
		"icon for displaying the splash screen."

	windowsWidth  = 250
	windowsHeight = 170

	windowsFullscreenScale = 3
	// Top margin outside fullscreen, in pixels; fullscreen uses a share of
	// the viewport height instead.
	windowsMarginPx         = 50
	windowsFullscreenMargin = 20

	windowsIconSize    = 30
	windowsIconGap     = 5
	windowsFontSize    = 10
	windowsFontWeight  = 600
	windowsGlyphSize   = 4
	windowsGlyphInset  = 2
	windowsCollapseGap = 3
)

// windowsScreen is the application window drawn on the desktop artwork.
var windowsScreen = image.Rect(75, 45, 175, 100)

func renderWindows(f frame) *Mockup {
	m := &Mockup{
		Platform:      Windows,
		Info:          windowsInfo,
		Width:         windowsWidth,
		Height:        windowsHeight,
		Scale:         f.scale(windowsFullscreenScale),
		MarginTop:     Px(windowsMarginPx),
		ContrastColor: f.contrast,
	}
	if f.fullscreen {
		m.MarginTop = Vh(windowsFullscreenMargin)
	}

	m.Elements = append(m.Elements,
		Element{Kind: ElementChrome, Bounds: m.Bounds(), Src: AssetWindowsDesktop, Alt: "Window's desktop"},
		Element{Kind: ElementScreen, Bounds: windowsScreen, Fill: f.in.background()},
	)

	// Window actions sit in the top-right corner, close glyph outermost.
	actions := layout.Inset(windowsScreen, windowsGlyphInset)
	closeGlyph := layout.AnchorTopRight(actions, windowsGlyphSize, windowsGlyphSize)
	collapseY := closeGlyph.Min.Y + (windowsGlyphSize-1)/2
	collapseX := closeGlyph.Min.X - windowsCollapseGap - windowsGlyphSize
	m.Elements = append(m.Elements,
		Element{Kind: ElementCollapse, Bounds: image.Rect(collapseX, collapseY, collapseX+windowsGlyphSize, collapseY+1), Fill: f.contrast},
		Element{Kind: ElementClose, Bounds: closeGlyph, Fill: f.contrast},
	)

	// Icon and name form one centered row.
	name := f.in.name()
	textWidth := f.measurer.MeasureText(name, windowsFontSize, windowsFontWeight)
	textHeight := lineHeight(windowsFontSize)
	rowWidth, rowHeight := textWidth, textHeight
	hasIcon := f.in.IconURL != ""
	if hasIcon {
		rowWidth += windowsIconSize + windowsIconGap
		if windowsIconSize > rowHeight {
			rowHeight = windowsIconSize
		}
	}
	row := layout.CenterIn(windowsScreen, rowWidth, rowHeight)
	textX := row.Min.X
	if hasIcon {
		iconY := row.Min.Y + (rowHeight-windowsIconSize)/2
		m.Elements = append(m.Elements, Element{
			Kind:   ElementIcon,
			Bounds: image.Rect(row.Min.X, iconY, row.Min.X+windowsIconSize, iconY+windowsIconSize),
			Src:    f.in.IconURL,
			Alt:    "App's splash screen",
		})
		textX += windowsIconSize + windowsIconGap
	}
	textY := row.Min.Y + (rowHeight-textHeight)/2
	m.Elements = append(m.Elements, Element{
		Kind:       ElementAppName,
		Bounds:     image.Rect(textX, textY, textX+textWidth, textY+textHeight),
		Text:       name,
		Color:      f.contrast,
		FontSize:   windowsFontSize,
		FontWeight: windowsFontWeight,
	})
	return m
}
