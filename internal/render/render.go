// Package render turns laid-out splash screen mockups into pixels: a PNG for
// the web API and CLI, and frames for the kiosk framebuffer.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"math"

	"github.com/fogleman/gg"

	"github.com/rook-computer/splashpreview/internal/contrast"
	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/render/layout"
	"github.com/rook-computer/splashpreview/internal/splash"
)

// Rasterizer draws a mockup onto a page: the info banner on top, then the
// top margin, then the scaled device container centered horizontally.
type Rasterizer struct {
	// Assets holds the device artwork named by splash.Asset* paths.
	Assets fs.FS
	Icons  *IconLoader
	Fonts  *FontSet
	Logger logging.Logger
	// ViewportHeight resolves vh margins; zero means DefaultViewportHeight.
	ViewportHeight int
}

// NewRasterizer builds a Rasterizer with its own font set and icon loader.
func NewRasterizer(assets fs.FS, logger logging.Logger) (*Rasterizer, error) {
	fonts, err := NewFontSet()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Rasterizer{
		Assets: assets,
		Icons:  NewIconLoader(),
		Fonts:  fonts,
		Logger: logger,
	}, nil
}

// Measurer returns the text measurer matching the faces used for drawing.
func (r *Rasterizer) Measurer() splash.TextMeasurer { return r.Fonts }

// pageLayout is where each part of the page lands, in page pixels.
type pageLayout struct {
	width, height int
	banner        []string
	bannerTop     int
	lineHeight    float64
	mockup        image.Point // top-left of the scaled container
	scale         float64
}

// Rasterize draws m. A nil mockup (unknown platform) renders nothing and
// returns (nil, nil). Missing artwork or icons are logged and skipped.
func (r *Rasterizer) Rasterize(ctx context.Context, m *splash.Mockup) (image.Image, error) {
	if m == nil {
		return nil, nil
	}
	if r.Fonts == nil {
		return nil, fmt.Errorf("rasterizer has no fonts")
	}

	// Load images before taking the font lock so slow downloads don't stall
	// text measurement elsewhere.
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	images := r.loadImages(ctx, m, scale)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Fonts.mu.Lock()
	defer r.Fonts.mu.Unlock()

	pl := r.layoutPage(m, scale)
	dc := gg.NewContext(pl.width, pl.height)
	dc.SetColor(PageBackground)
	dc.Clear()

	r.drawBanner(dc, pl)
	for i, e := range m.Elements {
		rect := layout.Scale(e.Bounds, pl.scale).Add(pl.mockup)
		r.drawElement(dc, e, rect, pl.scale, images[i])
	}
	return dc.Image(), nil
}

func (r *Rasterizer) viewportHeight() int {
	if r.ViewportHeight > 0 {
		return r.ViewportHeight
	}
	return DefaultViewportHeight
}

// layoutPage sizes the page. r.Fonts.mu must be held.
func (r *Rasterizer) layoutPage(m *splash.Mockup, scale float64) pageLayout {
	mockW := int(math.Ceil(float64(m.Width) * scale))
	mockH := int(math.Ceil(float64(m.Height) * scale))
	contentW := mockW
	if contentW < minPageWidth-2*pagePadding {
		contentW = minPageWidth - 2*pagePadding
	}

	face := r.Fonts.faceLocked(bannerFontSize, 400)
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	var banner []string
	if m.Info != "" {
		banner = measure.WordWrap(m.Info, float64(contentW))
	}
	lh := measure.FontHeight() * 1.4

	bannerH := 0
	if len(banner) > 0 {
		bannerH = int(math.Ceil(lh*float64(len(banner)))) + bannerGap
	}
	margin := int(math.Round(m.MarginTop.Pixels(r.viewportHeight())))
	if margin < 0 {
		margin = 0
	}

	return pageLayout{
		width:      contentW + 2*pagePadding,
		height:     pagePadding + bannerH + margin + mockH + pagePadding,
		banner:     banner,
		bannerTop:  pagePadding,
		lineHeight: lh,
		mockup:     image.Pt(pagePadding+(contentW-mockW)/2, pagePadding+bannerH+margin),
		scale:      scale,
	}
}

func (r *Rasterizer) drawBanner(dc *gg.Context, pl pageLayout) {
	if len(pl.banner) == 0 {
		return
	}
	dc.SetFontFace(r.Fonts.faceLocked(bannerFontSize, 400))
	dc.SetColor(BannerForeground)
	for i, line := range pl.banner {
		y := float64(pl.bannerTop) + pl.lineHeight*float64(i) + pl.lineHeight/2
		dc.DrawStringAnchored(line, float64(pl.width)/2, y, 0.5, 0.5)
	}
}

// loadImages resolves artwork and icons for every element that has a source.
func (r *Rasterizer) loadImages(ctx context.Context, m *splash.Mockup, scale float64) []image.Image {
	out := make([]image.Image, len(m.Elements))
	for i, e := range m.Elements {
		if e.Src == "" {
			continue
		}
		rect := layout.Scale(e.Bounds, scale)
		if rect.Empty() {
			continue
		}
		img, err := r.loadImage(ctx, e.Src, rect.Dx(), rect.Dy())
		if err != nil {
			r.logger().Errorf("render", "skip %s %q: %v", e.Kind, shortSource(e.Src), err)
			continue
		}
		out[i] = img
	}
	return out
}

func (r *Rasterizer) loadImage(ctx context.Context, src string, w, h int) (image.Image, error) {
	if splash.IsAsset(src) {
		if r.Assets == nil {
			return nil, fmt.Errorf("no asset store")
		}
		data, err := fs.ReadFile(r.Assets, src)
		if err != nil {
			return nil, err
		}
		return rasterizeSVG(data, w, h)
	}
	if r.Icons == nil {
		return nil, fmt.Errorf("no icon loader")
	}
	icon, err := r.Icons.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return icon.At(w, h)
}

func (r *Rasterizer) drawElement(dc *gg.Context, e splash.Element, rect image.Rectangle, scale float64, img image.Image) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())

	switch e.Kind {
	case splash.ElementChrome, splash.ElementStatusBar, splash.ElementIcon:
		if img == nil {
			return
		}
		if e.Radius > 0 {
			dc.DrawRoundedRectangle(x, y, w, h, float64(e.Radius)*scale)
			dc.Clip()
			defer dc.ResetClip()
		}
		dc.DrawImage(img, rect.Min.X, rect.Min.Y)
	case splash.ElementScreen, splash.ElementPhoneBar, splash.ElementCollapse:
		c, ok := cssColor(e.Fill)
		if !ok {
			// Browsers drop invalid colors, leaving the area unpainted.
			return
		}
		dc.SetColor(c)
		if e.Radius > 0 {
			dc.DrawRoundedRectangle(x, y, w, h, float64(e.Radius)*scale)
		} else {
			dc.DrawRectangle(x, y, w, h)
		}
		dc.Fill()
	case splash.ElementClose:
		c, ok := cssColor(e.Fill)
		if !ok {
			return
		}
		dc.SetColor(c)
		dc.SetLineWidth(math.Max(1, w*0.15))
		dc.DrawLine(x, y, x+w, y+h)
		dc.DrawLine(x+w, y, x, y+h)
		dc.Stroke()
	case splash.ElementAppName:
		c, ok := cssColor(e.Color)
		if !ok || e.Text == "" {
			return
		}
		dc.SetFontFace(r.Fonts.faceLocked(float64(e.FontSize)*scale, e.FontWeight))
		dc.SetColor(c)
		dc.DrawStringAnchored(e.Text, x+w/2, y+h/2, 0.5, 0.5)
	default:
		r.logger().Errorf("render", "unknown element kind %q", e.Kind)
	}
}

func (r *Rasterizer) logger() logging.Logger {
	if r.Logger == nil {
		return logging.NoopLogger{}
	}
	return r.Logger
}

func cssColor(raw string) (color.Color, bool) {
	c, err := contrast.ParseColor(raw)
	if err != nil {
		return nil, false
	}
	return c, true
}
