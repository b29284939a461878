package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// boldWeight is the CSS font-weight from which the bold face is used.
const boldWeight = 600

type faceKey struct {
	size float64
	bold bool
}

// FontSet hands out cached faces of the embedded Go fonts. Faces are sized in
// pixels (72 DPI) so CSS font sizes map one to one.
//
// truetype faces are not safe for concurrent use, so every use of a face goes
// through mu.
type FontSet struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func NewFontSet() (*FontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &FontSet{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// faceLocked returns the face for a pixel size and CSS weight. fs.mu must be held.
func (fs *FontSet) faceLocked(sizePx float64, weight int) font.Face {
	if sizePx <= 0 {
		sizePx = 1
	}
	key := faceKey{size: math.Round(sizePx*4) / 4, bold: weight >= boldWeight}
	if face, ok := fs.faces[key]; ok {
		return face
	}
	f := fs.regular
	if key.bold {
		f = fs.bold
	}
	face := truetype.NewFace(f, &truetype.Options{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	fs.faces[key] = face
	return face
}

// MeasureText returns the advance width of text in whole pixels.
func (fs *FontSet) MeasureText(text string, sizePx, weight int) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return font.MeasureString(fs.faceLocked(float64(sizePx), weight), text).Ceil()
}

// LineHeight returns the face height for a pixel size, in whole pixels.
func (fs *FontSet) LineHeight(sizePx, weight int) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.faceLocked(float64(sizePx), weight).Metrics().Height.Ceil()
}
