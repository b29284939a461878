package contrast

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want color.NRGBA
	}{
		{name: "short hex", in: "#fff", want: color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "short hex with alpha", in: "#f008", want: color.NRGBA{0xFF, 0x00, 0x00, 0x88}},
		{name: "long hex", in: "#3F51B5", want: color.NRGBA{0x3F, 0x51, 0xB5, 0xFF}},
		{name: "long hex with alpha", in: "#11223344", want: color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{name: "rgb commas", in: "rgb(10, 20, 30)", want: color.NRGBA{10, 20, 30, 0xFF}},
		{name: "rgba commas", in: "rgba(10,20,30,0.5)", want: color.NRGBA{10, 20, 30, 128}},
		{name: "rgb spaces and slash", in: "rgb(255 0 0 / 50%)", want: color.NRGBA{255, 0, 0, 128}},
		{name: "rgb percentages", in: "rgb(100%, 0%, 0%)", want: color.NRGBA{255, 0, 0, 0xFF}},
		{name: "named", in: "Navy", want: color.NRGBA{0x00, 0x00, 0x80, 0xFF}},
		{name: "surrounding space", in: "  #000000 ", want: color.NRGBA{0, 0, 0, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "hsl(0, 0%, 0%)", "notacolor", "rgb(1,2,3"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestParseColorOr(t *testing.T) {
	fallback := color.NRGBA{1, 2, 3, 4}
	assert.Equal(t, fallback, ParseColorOr("bogus", fallback))
	assert.Equal(t, color.NRGBA{0xFF, 0, 0, 0xFF}, ParseColorOr("red", fallback))
}

func TestContrastingColor(t *testing.T) {
	tests := []struct {
		background string
		want       string
	}{
		{"#FFFFFF", Dark},
		{"#fff", Dark},
		{"#000000", Light},
		{"#3f51b5", Light},
		{"#ffeb3b", Dark},
		{"#FF0000", Light},
		{"rgb(0, 255, 0)", Dark},
		{"black", Light},
		// Fully transparent composites over white.
		{"#00000000", Dark},
		{"definitely not a color", Dark},
	}

	for _, tt := range tests {
		t.Run(tt.background, func(t *testing.T) {
			assert.Equal(t, tt.want, ContrastingColor(tt.background))
		})
	}
}

func TestContrastingColorIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, Light, ContrastingColor("#121212"))
	}
}

func TestRatio(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 0xFF}
	white := color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}

	assert.InDelta(t, 21.0, Ratio(black, white), 0.01)
	assert.InDelta(t, 21.0, Ratio(white, black), 0.01)
	assert.InDelta(t, 1.0, Ratio(white, white), 0.0001)
}
