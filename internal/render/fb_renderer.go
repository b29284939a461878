package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/splashpreview/internal/logging"
)

// Display shows finished preview pages.
type Display interface {
	Start(ctx context.Context) error
	Stop() error
	Show(img image.Image) error
}

// NoopDisplay discards every frame.
type NoopDisplay struct{}

func (NoopDisplay) Start(ctx context.Context) error { return nil }
func (NoopDisplay) Stop() error                     { return nil }
func (NoopDisplay) Show(img image.Image) error      { return nil }

// FrameFunc produces the page to show.
type FrameFunc func(ctx context.Context) (image.Image, error)

const defaultFBDevice = "/dev/fb0"

// FBDisplay shows pages on the Linux framebuffer. Pages are letterboxed onto
// a logical canvas which is then scaled to the device.
type FBDisplay struct {
	// Device defaults to /dev/fb0.
	Device string
	Logger logging.Logger

	mu      sync.Mutex
	fbDev   *fb.Device
	canvas  *image.RGBA
	running atomic.Bool
}

func NewFBDisplay() *FBDisplay { return &FBDisplay{Device: defaultFBDevice} }

func (d *FBDisplay) Start(ctx context.Context) error {
	name := d.Device
	if name == "" {
		name = defaultFBDevice
	}
	dev, err := fb.Open(name)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.fbDev = dev
	d.canvas = image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	d.mu.Unlock()

	bounds := dev.Bounds()
	d.logger().Infof("fb", "framebuffer %s open, bounds=%dx%d", name, bounds.Dx(), bounds.Dy())
	d.running.Store(true)
	return nil
}

func (d *FBDisplay) Stop() error {
	d.running.Store(false)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fbDev != nil {
		d.fbDev.Close()
		d.fbDev = nil
	}
	return nil
}

// Show letterboxes img onto the canvas and blits it to the framebuffer.
func (d *FBDisplay) Show(img image.Image) error {
	if !d.running.Load() {
		return errors.New("framebuffer not started")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fbDev == nil {
		return errors.New("framebuffer closed")
	}
	compose(d.canvas, img)
	return blitToFB(d.fbDev, d.canvas)
}

// RunLoop shows a fresh frame once at start and again after every signal on
// redraw, until ctx is done.
func (d *FBDisplay) RunLoop(ctx context.Context, redraw <-chan struct{}, frame FrameFunc) {
	RunLoop(ctx, d, redraw, frame, d.logger())
}

func (d *FBDisplay) logger() logging.Logger {
	if d.Logger == nil {
		return logging.NoopLogger{}
	}
	return d.Logger
}

// RunLoop drives any Display: it draws on start and on each redraw signal,
// and logs a heartbeat at most once a minute.
func RunLoop(ctx context.Context, display Display, redraw <-chan struct{}, frame FrameFunc, logger logging.Logger) {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	frames := 0
	show := func() {
		img, err := frame(ctx)
		if err != nil {
			logger.Errorf("fb", "frame failed: %v", err)
			return
		}
		if img == nil {
			return
		}
		if err := display.Show(img); err != nil {
			logger.Errorf("fb", "show failed: %v", err)
			return
		}
		frames++
	}

	heartbeat := time.NewTicker(time.Minute)
	defer heartbeat.Stop()

	show()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-redraw:
			if !ok {
				return
			}
			show()
		case <-heartbeat.C:
			logger.Infof("fb", "heartbeat, frames=%d", frames)
		}
	}
}

// compose clears canvas and draws img centered, scaled to fit.
func compose(canvas *image.RGBA, img image.Image) {
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: PageBackground}, image.Point{}, draw.Src)
	if img == nil {
		return
	}
	dst := fitRect(img.Bounds(), canvas.Bounds())
	if dst.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(canvas, dst, img, img.Bounds(), xdraw.Over, nil)
}

// fitRect returns the largest rectangle with src's aspect ratio centered in dst.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return image.Rectangle{}
	}
	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// blitToFB copies canvas to the framebuffer via nearest-neighbor sampling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) error {
	if dev == nil {
		return nil
	}
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * cw) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
	return nil
}
