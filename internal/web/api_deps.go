package web

import (
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
)

// APIV1Deps is everything the preview API reads from and writes to.
//
// The kiosk and the simulator share one Store and one fullscreen Controller
// with the API, so changes made over HTTP show up on every surface.
type APIV1Deps struct {
	Store      *state.Store
	Fullscreen *fullscreen.Controller
	Previewer  *splash.Previewer
	// Rasterizer renders preview.png; without it that route answers 501.
	Rasterizer *render.Rasterizer
	Logger     logging.Logger
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Store == nil {
		out.Store = state.NewStore()
	}
	if out.Fullscreen == nil {
		out.Fullscreen = fullscreen.NewController()
	}
	if out.Previewer == nil {
		out.Previewer = splash.New(splash.WithFullscreen(out.Fullscreen), splash.WithMeasurer(out.measurer()))
	}
	if out.Logger == nil {
		out.Logger = logging.NoopLogger{}
	}
	return out
}

// measurer keeps layouts from the API in step with what the rasterizer draws.
func (d APIV1Deps) measurer() splash.TextMeasurer {
	if d.Rasterizer != nil && d.Rasterizer.Fonts != nil {
		return d.Rasterizer.Measurer()
	}
	return nil
}

// previewerFor returns the configured previewer with the shared fullscreen
// flag replaced by a fixed value.
func (d APIV1Deps) previewerFor(fullscreenOverride bool) *splash.Previewer {
	return d.Previewer.WithFullscreen(splash.StaticFullscreen(fullscreenOverride))
}
