// Package app runs the preview as a kiosk: it keeps a display in sync with
// the shared preview state and reacts to key presses.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/splashpreview/internal/buttons"
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
	"github.com/rook-computer/splashpreview/internal/system"
	"github.com/rook-computer/splashpreview/internal/web"
)

// ErrUnknownPlatform is returned by RenderPNG when the selected platform has
// no mockup.
var ErrUnknownPlatform = errors.New("unknown platform")

type App struct {
	Store      *state.Store
	Fullscreen *fullscreen.Controller
	Previewer  *splash.Previewer
	Rasterizer *render.Rasterizer
	Display    render.Display
	Web        web.Server
	Buttons    buttons.Buttons
	Logger     logging.Logger

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, fs *fullscreen.Controller, previewer *splash.Previewer, rasterizer *render.Rasterizer) *App {
	return &App{
		Store:      store,
		Fullscreen: fs,
		Previewer:  previewer,
		Rasterizer: rasterizer,
		Display:    render.NoopDisplay{},
		Web:        &web.NoopServer{},
		Buttons:    buttons.NewNoopButtons(),
		Logger:     logging.NoopLogger{},
		exitCh:     make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start shows the preview on the display and blocks until ctx is done or
// Exit is called.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	if err := app.Display.Start(ctx); err != nil {
		app.Logger.Errorf("app", "display start error: %v", err)
		return err
	}
	defer app.Display.Stop()

	if _, ok := app.Display.(*render.FBDisplay); ok {
		restore := system.EnterGraphicsConsole(app.Logger)
		defer restore()
	}

	if err := app.Web.Start(ctx); err != nil {
		app.Logger.Errorf("app", "web start error: %v", err)
		return err
	}
	defer app.Web.Stop()

	if err := app.Buttons.Start(ctx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
		return err
	}
	defer app.Buttons.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	redraw := app.watchChanges(loopCtx, &wg)

	wg.Add(2)
	go func() {
		defer wg.Done()
		render.RunLoop(loopCtx, app.Display, redraw, app.Frame, app.Logger)
	}()
	go func() {
		defer wg.Done()
		app.handleButtons(loopCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	return err
}

// watchChanges merges state and fullscreen notifications into one
// coalescing redraw signal.
func (app *App) watchChanges(ctx context.Context, wg *sync.WaitGroup) <-chan struct{} {
	redraw := make(chan struct{}, 1)
	signal := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}

	states, cancelStates := app.Store.Subscribe()
	screens, cancelScreens := app.Fullscreen.Subscribe()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelStates()
		defer cancelScreens()
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-states:
				app.Logger.Infof("app", "state revision %d, platform %s", snap.Revision, snap.Platform)
				signal()
			case on := <-screens:
				app.Logger.Infof("app", "fullscreen %t", on)
				signal()
			}
		}
	}()
	return redraw
}

func (app *App) handleButtons(ctx context.Context) {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			app.apply(ev)
		}
	}
}

func (app *App) apply(ev buttons.Event) {
	switch ev {
	case buttons.ToggleFullscreen:
		app.Fullscreen.Toggle()
	case buttons.NextPlatform:
		app.Store.Update(func(s *state.State) { s.Platform = currentPlatform(s.Platform).Next() })
	case buttons.PrevPlatform:
		app.Store.Update(func(s *state.State) { s.Platform = currentPlatform(s.Platform).Prev() })
	case buttons.Exit:
		app.Logger.Infof("app", "exit requested")
		app.Exit(nil)
	default:
		app.Logger.Errorf("app", "unknown button event %q", ev)
	}
}

func currentPlatform(p splash.Platform) splash.Platform {
	if p == "" {
		return splash.DefaultPlatform
	}
	return p
}

// Frame renders the current state. Unknown platforms produce a blank page.
func (app *App) Frame(ctx context.Context) (image.Image, error) {
	snap := app.Store.Snapshot()
	m, ok := app.Previewer.Render(snap.Platform, snap.Inputs)
	if !ok {
		blank := image.NewRGBA(image.Rect(0, 0, 1, 1))
		blank.Set(0, 0, render.PageBackground)
		return blank, nil
	}
	return app.Rasterizer.Rasterize(ctx, m)
}

// RenderPNG writes the current state as a PNG.
func (app *App) RenderPNG(ctx context.Context, w io.Writer) error {
	snap := app.Store.Snapshot()
	m, ok := app.Previewer.Render(snap.Platform, snap.Inputs)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPlatform, snap.Platform)
	}
	img, err := app.Rasterizer.Rasterize(ctx, m)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
