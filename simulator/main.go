package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rook-computer/splashpreview/internal/assets"
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
	"github.com/rook-computer/splashpreview/internal/system"
	"github.com/rook-computer/splashpreview/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	scenario := flag.String("scenario", DefaultScenario, "startup preset: "+strings.Join(ScenarioNames(), " | "))
	cycle := flag.Duration("cycle", 0, "advance to the next platform at this interval (0 disables)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := logging.New(logging.Options{Debug: *debug, Color: true})
	defer logger.Close()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	screen := fullscreen.NewController()
	rasterizer, err := render.NewRasterizer(assets.Images, logger)
	if err != nil {
		logger.Errorf("sim", "rasterizer: %v", err)
		os.Exit(1)
	}

	control := NewSimControl(processCtx, *scenario, store, screen)
	if err := control.ApplyScenario(*scenario); err != nil {
		logger.Errorf("sim", "scenario init error: %v", err)
		os.Exit(2)
	}
	if *cycle > 0 {
		control.StartCycle(*cycle)
	}

	deps := web.APIV1Deps{
		Store:      store,
		Fullscreen: screen,
		Previewer:  splash.New(splash.WithFullscreen(screen), splash.WithMeasurer(rasterizer.Measurer())),
		Rasterizer: rasterizer,
		Logger:     logger,
	}

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.StaticDir = *staticDir
	server.Logger = logger
	server.Handler = web.NewDefaultMux(server.StaticDir, deps)
	registerSimEndpoints(server.Handler, control)

	if err := server.Start(processCtx); err != nil {
		logger.Errorf("sim", "server start error: %v", err)
		os.Exit(1)
	}

	logger.Infof("sim", "splash preview simulator listening on %s", server.ListenAddr())
	logger.Infof("sim", "scenario: %s", control.Scenario())
	for _, u := range system.ReachableURLs(server.ListenAddr()) {
		logger.Infof("sim", "API: %sapi/v1/", u)
	}

	<-processCtx.Done()
	control.StopCycle()
	_ = server.Stop()
}
