package splash

import (
	"image"

	"github.com/rook-computer/splashpreview/internal/render/layout"
)

const (
	iosInfo = "When launching the PWA, iOS uses the background color, name and icon for displaying " +
		"the splash screen while the content loads."

	iosWidth           = 220
	iosHeight          = 440
	iosMarginPx        = 30
	iosFullscreenScale = 1.5

	iosStatusBarTop    = 2
	iosStatusBarHeight = 19
	iosIconSize        = 80
	iosIconGap         = 10
	iosFontSize        = 16
	iosFontWeight      = 700
	iosNameGap         = 30
)

var iosScreen = image.Rect(16, 66, 204, 346)

func renderIOS(f frame) *Mockup {
	m := &Mockup{
		Platform:      IOS,
		Info:          iosInfo,
		Width:         iosWidth,
		Height:        iosHeight,
		Scale:         f.scale(iosFullscreenScale),
		MarginTop:     Px(iosMarginPx),
		ContrastColor: f.contrast,
	}

	_, belowNotch := layout.SplitHorizontal(iosScreen, iosStatusBarTop)
	statusBar := layout.AnchorTopLeft(belowNotch, iosScreen.Dx(), iosStatusBarHeight)
	m.Elements = []Element{
		{Kind: ElementChrome, Bounds: m.Bounds(), Src: AssetIOSPhone, Alt: "Iphone"},
		{Kind: ElementScreen, Bounds: iosScreen, Fill: f.in.background()},
		{Kind: ElementStatusBar, Bounds: statusBar, Src: AssetIOSStatusBar, Alt: "iOS status bar"},
	}

	// Icon and name are stacked and centered vertically; the status bar is
	// not part of that column.
	name := f.in.name()
	nameWidth := f.measurer.MeasureText(name, iosFontSize, iosFontWeight)
	nameHeight := lineHeight(iosFontSize)
	columnHeight := nameHeight + iosNameGap
	hasIcon := f.in.IconURL != ""
	if hasIcon {
		columnHeight += iosIconSize + iosIconGap
	}
	y := iosScreen.Min.Y + (iosScreen.Dy()-columnHeight)/2
	if hasIcon {
		m.Elements = append(m.Elements, Element{
			Kind:   ElementIcon,
			Bounds: layout.CenterHorizontally(iosScreen, y, iosIconSize, iosIconSize),
			Src:    f.in.IconURL,
			Alt:    "App's splash screen",
		})
		y += iosIconSize + iosIconGap
	}
	m.Elements = append(m.Elements, Element{
		Kind:       ElementAppName,
		Bounds:     layout.CenterHorizontally(iosScreen, y, nameWidth, nameHeight),
		Text:       name,
		Color:      f.contrast,
		FontSize:   iosFontSize,
		FontWeight: iosFontWeight,
	})
	return m
}
