package splash

import (
	"image"

	"github.com/rook-computer/splashpreview/internal/render/layout"
)

const (
	androidInfo = "When launching the PWA, Android uses the background color, theme color, name and " +
		"icon for displaying the splash screen."

	androidWidth           = 220
	androidHeight          = 480
	androidMarginPx        = 10
	androidFullscreenScale = 1.7

	androidScreenTop    = 29
	androidScreenHeight = 400
	androidRadius       = 8
	androidBarHeight    = 14
	androidIconSize     = 90
	androidFontSize     = 16
	androidFontWeight   = 700
	androidNameGap      = 30
)

func renderAndroid(f frame) *Mockup {
	m := &Mockup{
		Platform:      Android,
		Info:          androidInfo,
		Width:         androidWidth,
		Height:        androidHeight,
		Scale:         f.scale(androidFullscreenScale),
		MarginTop:     Px(androidMarginPx),
		ContrastColor: f.contrast,
	}

	screen := image.Rect(0, androidScreenTop, androidWidth, androidScreenTop+androidScreenHeight)
	theme := f.in.theme()

	topBar, rest := layout.SplitHorizontal(screen, androidBarHeight)

	// The icon sits half the screen width plus half its own size below the bar.
	iconTop := rest.Min.Y + androidWidth/2 + androidIconSize/2
	icon := layout.CenterHorizontally(screen, iconTop, androidIconSize, androidIconSize)
	iconSrc := f.in.IconURL
	if iconSrc == "" {
		iconSrc = AssetAndroidNoIcon
	}

	name := f.in.name()
	nameWidth := f.measurer.MeasureText(name, androidFontSize, androidFontWeight)
	nameBox := layout.CenterHorizontally(screen, icon.Max.Y, nameWidth, lineHeight(androidFontSize))

	bottomBarTop := nameBox.Max.Y + androidNameGap
	bottomBar := image.Rect(screen.Min.X, bottomBarTop, screen.Max.X, bottomBarTop+androidBarHeight)

	m.Elements = []Element{
		{Kind: ElementChrome, Bounds: m.Bounds(), Src: AssetAndroidPhone, Radius: androidRadius, Alt: "Application mobile preview"},
		{Kind: ElementScreen, Bounds: screen, Fill: f.in.background(), Radius: androidRadius},
		{Kind: ElementPhoneBar, Bounds: topBar, Fill: theme},
		{Kind: ElementIcon, Bounds: icon, Src: iconSrc, Alt: "App's splash screen"},
		{Kind: ElementAppName, Bounds: nameBox, Text: name, Color: f.contrast, FontSize: androidFontSize, FontWeight: androidFontWeight},
		{Kind: ElementPhoneBar, Bounds: bottomBar, Fill: theme},
	}
	return m
}
