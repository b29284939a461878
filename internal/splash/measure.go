package splash

import "unicode/utf8"

// TextMeasurer reports the rendered width of a single line of text, in
// pixels, so text can be centered next to other elements.
type TextMeasurer interface {
	MeasureText(text string, sizePx, weight int) int
}

// estimateMeasurer approximates widths from the rune count when no font
// metrics are available.
type estimateMeasurer struct{}

func (estimateMeasurer) MeasureText(text string, sizePx, weight int) int {
	perRune := 0.55
	if weight >= 600 {
		perRune = 0.6
	}
	return int(float64(utf8.RuneCountInString(text))*float64(sizePx)*perRune + 0.5)
}

// lineHeight is the CSS "normal" line height for a font size.
func lineHeight(sizePx int) int {
	return (sizePx*6 + 4) / 5
}
