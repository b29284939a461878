package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/splashpreview/internal/assets"
	"github.com/rook-computer/splashpreview/internal/buttons"
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
)

type recordingDisplay struct {
	mu     sync.Mutex
	frames []image.Image
}

func (d *recordingDisplay) Start(ctx context.Context) error { return nil }
func (d *recordingDisplay) Stop() error                     { return nil }
func (d *recordingDisplay) Show(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, img)
	return nil
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

type chanButtons struct{ ch chan buttons.Event }

func (b *chanButtons) Start(ctx context.Context) error { return nil }
func (b *chanButtons) Stop() error                     { return nil }
func (b *chanButtons) Events() <-chan buttons.Event    { return b.ch }

func newTestApp(t *testing.T) *App {
	t.Helper()
	rasterizer, err := render.NewRasterizer(assets.Images, nil)
	require.NoError(t, err)
	fs := fullscreen.NewController()
	previewer := splash.New(splash.WithFullscreen(fs), splash.WithMeasurer(rasterizer.Measurer()))
	return New(state.NewStore(), fs, previewer, rasterizer)
}

func TestStartReactsToButtonsAndState(t *testing.T) {
	a := newTestApp(t)
	display := &recordingDisplay{}
	keys := &chanButtons{ch: make(chan buttons.Event)}
	a.Display = display
	a.Buttons = keys

	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()

	require.Eventually(t, func() bool { return display.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	keys.ch <- buttons.NextPlatform
	require.Eventually(t, func() bool { return a.Store.Snapshot().Platform == splash.Android }, time.Second, 5*time.Millisecond)

	keys.ch <- buttons.PrevPlatform
	keys.ch <- buttons.PrevPlatform
	require.Eventually(t, func() bool { return a.Store.Snapshot().Platform == splash.IOS }, time.Second, 5*time.Millisecond)

	keys.ch <- buttons.ToggleFullscreen
	require.Eventually(t, a.Fullscreen.IsFullscreen, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return display.count() >= 2 }, 2*time.Second, 10*time.Millisecond)

	keys.ch <- buttons.Exit
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit")
	}
}

func TestStartStopsWithContext(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestFrameBlankForUnknownPlatform(t *testing.T) {
	a := newTestApp(t)
	a.Store.SetPlatform("linux")
	img, err := a.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestRenderPNG(t *testing.T) {
	a := newTestApp(t)
	a.Store.SetInputs(splash.StyleInputs{BackgroundColor: "#101010", AppName: "Notes"})

	var buf bytes.Buffer
	require.NoError(t, a.RenderPNG(context.Background(), &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 250)

	a.Store.SetPlatform("linux")
	assert.ErrorIs(t, a.RenderPNG(context.Background(), &buf), ErrUnknownPlatform)
}

func TestExitIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	a.Exit(nil)
	a.Exit(assert.AnError)
	assert.NoError(t, <-a.exitCh)
}
