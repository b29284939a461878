package splash

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer makes text widths predictable.
type fixedMeasurer int

func (w fixedMeasurer) MeasureText(string, int, int) int { return int(w) }

func TestWindowsDefaults(t *testing.T) {
	p := New()
	m, ok := p.Render(Windows, StyleInputs{})
	require.True(t, ok)
	require.NotNil(t, m)

	screen, found := m.First(ElementScreen)
	require.True(t, found)
	assert.Equal(t, "#FFF", screen.Fill)

	assert.Equal(t, "#000", m.ContrastColor)
	name, found := m.First(ElementAppName)
	require.True(t, found)
	assert.Equal(t, "PWA App", name.Text)
	assert.Equal(t, "#000", name.Color)

	assert.Empty(t, m.Find(ElementIcon))
	assert.Equal(t, 1.0, m.Scale)
	assert.Equal(t, Px(50), m.MarginTop)
}

func TestWindowsGlyphsUseContrastColor(t *testing.T) {
	p := New(WithContrastFunc(func(string) string { return "#fff" }))
	m, ok := p.Render(Windows, StyleInputs{BackgroundColor: "#101010"})
	require.True(t, ok)

	closeGlyph, _ := m.First(ElementClose)
	collapse, _ := m.First(ElementCollapse)
	assert.Equal(t, "#fff", closeGlyph.Fill)
	assert.Equal(t, "#fff", collapse.Fill)
	assert.Equal(t, image.Rect(169, 47, 173, 51), closeGlyph.Bounds)
	assert.Equal(t, image.Rect(162, 48, 166, 49), collapse.Bounds)

	screen, _ := m.First(ElementScreen)
	assert.Equal(t, "#101010", screen.Fill)
}

func TestWindowsIconBesideName(t *testing.T) {
	p := New(WithMeasurer(fixedMeasurer(40)))
	m, ok := p.Render(Windows, StyleInputs{IconURL: "https://example.com/icon.png", AppName: "Notes"})
	require.True(t, ok)

	icon, found := m.First(ElementIcon)
	require.True(t, found)
	name, _ := m.First(ElementAppName)

	assert.Equal(t, "https://example.com/icon.png", icon.Src)
	assert.Equal(t, "Notes", name.Text)
	// Row is 30 + 5 + 40 = 75 wide, centered in the 100px window.
	assert.Equal(t, image.Rect(87, 57, 117, 87), icon.Bounds)
	assert.Equal(t, 122, name.Bounds.Min.X)
	assert.True(t, name.Bounds.In(windowsScreen))
}

func TestWindowsFullscreen(t *testing.T) {
	p := New(WithFullscreen(StaticFullscreen(true)))
	m, ok := p.Render(Windows, StyleInputs{})
	require.True(t, ok)
	assert.Equal(t, 3.0, m.Scale)
	assert.Equal(t, Vh(20), m.MarginTop)
	assert.Equal(t, 216.0, m.MarginTop.Pixels(1080))
}

func TestAndroidThemeBarsAndPlaceholder(t *testing.T) {
	p := New()
	m, ok := p.Render(Android, StyleInputs{ThemeColor: "#FF0000"})
	require.True(t, ok)

	bars := m.Find(ElementPhoneBar)
	require.Len(t, bars, 2)
	for _, bar := range bars {
		assert.Equal(t, "#FF0000", bar.Fill)
	}

	icon, found := m.First(ElementIcon)
	require.True(t, found)
	assert.Equal(t, AssetAndroidNoIcon, icon.Src)
	assert.True(t, IsAsset(icon.Src))
}

func TestAndroidDefaultsAndLayout(t *testing.T) {
	p := New(WithMeasurer(fixedMeasurer(60)))
	m, ok := p.Render(Android, StyleInputs{IconURL: "icon.png"})
	require.True(t, ok)

	bars := m.Find(ElementPhoneBar)
	require.Len(t, bars, 2)
	assert.Equal(t, "#000", bars[0].Fill)
	assert.Equal(t, image.Rect(0, 29, 220, 43), bars[0].Bounds)
	assert.Equal(t, image.Rect(0, 338, 220, 352), bars[1].Bounds)

	icon, _ := m.First(ElementIcon)
	assert.Equal(t, "icon.png", icon.Src)
	assert.Equal(t, image.Rect(65, 198, 155, 288), icon.Bounds)

	name, _ := m.First(ElementAppName)
	assert.Equal(t, image.Rect(80, 288, 140, 308), name.Bounds)
	assert.Equal(t, 1.0, m.Scale)
}

func TestAndroidFullscreenScale(t *testing.T) {
	m, ok := New(WithFullscreen(StaticFullscreen(true))).Render(Android, StyleInputs{})
	require.True(t, ok)
	assert.Equal(t, 1.7, m.Scale)
	assert.Equal(t, Px(10), m.MarginTop)
}

func TestIOSFullscreenScaleIgnoresInputs(t *testing.T) {
	p := New(WithFullscreen(StaticFullscreen(true)))
	for _, in := range []StyleInputs{
		{},
		{BackgroundColor: "#000", ThemeColor: "#f00", IconURL: "x.png", AppName: "Something long"},
		{AppName: "A"},
	} {
		m, ok := p.Render(IOS, in)
		require.True(t, ok)
		assert.Equal(t, 1.5, m.Scale)
	}
}

func TestIOSOmitsMissingIcon(t *testing.T) {
	p := New(WithMeasurer(fixedMeasurer(50)))
	m, ok := p.Render(IOS, StyleInputs{})
	require.True(t, ok)

	assert.Empty(t, m.Find(ElementIcon))
	_, found := m.First(ElementStatusBar)
	assert.True(t, found)

	name, _ := m.First(ElementAppName)
	assert.Equal(t, image.Rect(85, 181, 135, 201), name.Bounds)
}

func TestIOSIconAboveName(t *testing.T) {
	p := New(WithMeasurer(fixedMeasurer(50)))
	m, ok := p.Render(IOS, StyleInputs{IconURL: "data:image/png;base64,AAAA", ThemeColor: "#ff0000"})
	require.True(t, ok)

	icon, found := m.First(ElementIcon)
	require.True(t, found)
	assert.Equal(t, image.Rect(70, 136, 150, 216), icon.Bounds)
	name, _ := m.First(ElementAppName)
	assert.Equal(t, 226, name.Bounds.Min.Y)

	// Theme color is an Android-only input.
	for _, e := range m.Elements {
		assert.NotEqual(t, "#ff0000", e.Fill)
	}
}

func TestUnknownPlatformRendersNothing(t *testing.T) {
	counter := newCountingContrast()
	p := New(WithContrastFunc(counter.fn))

	m, ok := p.Render(Platform("bogus"), StyleInputs{BackgroundColor: "#123"})
	assert.False(t, ok)
	assert.Nil(t, m)
	assert.Equal(t, 0, counter.total)
}

func TestEmptyPlatformIsWindows(t *testing.T) {
	m, ok := New().Render("", StyleInputs{})
	require.True(t, ok)
	assert.Equal(t, Windows, m.Platform)
}

func TestRenderCachesContrastAcrossRenders(t *testing.T) {
	counter := newCountingContrast()
	p := New(WithContrastFunc(counter.fn))

	in := StyleInputs{BackgroundColor: "#336699"}
	for _, platform := range []Platform{Windows, Android, IOS, Windows} {
		_, ok := p.Render(platform, in)
		require.True(t, ok)
		in.AppName += "x"
	}
	assert.Equal(t, 1, counter.total)

	_, _ = p.Render(Android, StyleInputs{BackgroundColor: "#000"})
	_, _ = p.Render(Android, StyleInputs{BackgroundColor: "#336699"})
	assert.Equal(t, 2, counter.calls["#336699"])
	assert.Equal(t, 1, counter.calls["#000"])
}

func TestFullscreenIsReadAtRenderTime(t *testing.T) {
	state := &toggleState{}
	p := New(WithFullscreen(state))

	m, _ := p.Render(IOS, StyleInputs{})
	assert.Equal(t, 1.0, m.Scale)

	state.on = true
	m, _ = p.Render(IOS, StyleInputs{})
	assert.Equal(t, 1.5, m.Scale)
}

type toggleState struct{ on bool }

func (s *toggleState) IsFullscreen() bool { return s.on }

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
		ok   bool
	}{
		{"", Windows, true},
		{"windows", Windows, true},
		{"ANDROID", Android, true},
		{" ios ", IOS, true},
		{"iOS", IOS, true},
		{"bogus", Platform("bogus"), false},
	}
	for _, tt := range tests {
		got, ok := ParsePlatform(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestPlatformCycle(t *testing.T) {
	assert.Equal(t, Android, Windows.Next())
	assert.Equal(t, IOS, Android.Next())
	assert.Equal(t, Windows, IOS.Next())
	assert.Equal(t, IOS, Windows.Prev())
	assert.Equal(t, DefaultPlatform, Platform("bogus").Next())
}

func TestMockupJSON(t *testing.T) {
	m, _ := New(WithMeasurer(fixedMeasurer(20))).Render(Android, StyleInputs{})
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded struct {
		Platform  string  `json:"platform"`
		Scale     float64 `json:"scale"`
		MarginTop struct {
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		} `json:"marginTop"`
		Elements []struct {
			Kind   string `json:"kind"`
			X      int    `json:"x"`
			Y      int    `json:"y"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
			Src    string `json:"src"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "android", decoded.Platform)
	assert.Equal(t, "px", decoded.MarginTop.Unit)
	require.Len(t, decoded.Elements, 6)
	assert.Equal(t, "chrome", decoded.Elements[0].Kind)
	assert.Equal(t, 220, decoded.Elements[0].Width)
	assert.Equal(t, AssetAndroidNoIcon, decoded.Elements[3].Src)
}

func TestLengthString(t *testing.T) {
	assert.Equal(t, "50px", Px(50).String())
	assert.Equal(t, "20vh", Vh(20).String())
	assert.Equal(t, 50.0, Px(50).Pixels(1000))
}

func TestStyleInputsMerge(t *testing.T) {
	base := StyleInputs{BackgroundColor: "#fff", AppName: "A"}
	got := base.Merge(StyleInputs{AppName: "B", ThemeColor: "#000"})
	assert.Equal(t, StyleInputs{BackgroundColor: "#fff", ThemeColor: "#000", AppName: "B"}, got)
}

func TestWithFullscreenKeepsContrastAlgorithm(t *testing.T) {
	calls := 0
	p := New(WithContrastFunc(func(string) string {
		calls++
		return "#abcdef"
	}))

	big := p.WithFullscreen(StaticFullscreen(true))
	m, ok := big.Render(Android, StyleInputs{BackgroundColor: "#123456"})
	require.True(t, ok)
	assert.Equal(t, "#abcdef", m.ContrastColor)
	assert.Equal(t, 1.7, m.Scale)

	m, ok = p.Render(Android, StyleInputs{BackgroundColor: "#123456"})
	require.True(t, ok)
	assert.Equal(t, 1.0, m.Scale)
	assert.Equal(t, 1, calls)
}
