package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rook-computer/splashpreview/internal/app"
	"github.com/rook-computer/splashpreview/internal/assets"
	"github.com/rook-computer/splashpreview/internal/buttons"
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/manifest"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
	"github.com/rook-computer/splashpreview/internal/system"
	"github.com/rook-computer/splashpreview/internal/web"
)

const envStdioLog = "SPLASHPREVIEW_STDIO_LOG"

type config struct {
	platform   string
	inputs     splash.StyleInputs
	manifest   string
	fullscreen bool

	out      string
	fb       bool
	fbDevice string
	viewport int

	server    web.ServerConfig
	staticDir string

	debug    bool
	color    bool
	logFile  string
	stdioLog string
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	defaults, err := web.DefaultServerConfigFromEnv("")
	if err != nil {
		return config{}, err
	}

	var cfg config
	fs := flag.NewFlagSet("splashpreview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.platform, "platform", string(splash.DefaultPlatform), "windows | android | iOS")
	fs.StringVar(&cfg.inputs.BackgroundColor, "background-color", "", "splash background color (CSS color)")
	fs.StringVar(&cfg.inputs.ThemeColor, "theme-color", "", "theme color (CSS color)")
	fs.StringVar(&cfg.inputs.IconURL, "icon", "", "icon URL, data: URL or file path")
	fs.StringVar(&cfg.inputs.AppName, "name", "", "app name")
	fs.StringVar(&cfg.manifest, "manifest", "", "read inputs from a web app manifest; other flags override it")
	fs.BoolVar(&cfg.fullscreen, "fullscreen", false, "start in fullscreen")
	fs.StringVar(&cfg.out, "out", "", "render one PNG to this file ('-' for stdout) and exit")
	fs.BoolVar(&cfg.fb, "fb", false, "show the preview on the framebuffer (kiosk mode)")
	fs.StringVar(&cfg.fbDevice, "fb-device", "/dev/fb0", "framebuffer device")
	fs.IntVar(&cfg.viewport, "viewport-height", render.DefaultViewportHeight, "viewport height that vh margins resolve against")
	fs.StringVar(&cfg.server.ListenAddr, "listen", defaults.ListenAddr, "serve the web UI and API on this address; also configurable via "+web.EnvListenAddr)
	fs.BoolVar(&cfg.server.DevMode, "dev", defaults.DevMode, "enable dev mode (permissive CORS); also configurable via "+web.EnvDevMode)
	fs.StringVar(&cfg.staticDir, "static-dir", "", "serve the UI from this directory instead of the embedded one")
	fs.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&cfg.color, "color", false, "colorize log levels")
	fs.StringVar(&cfg.logFile, "log-file", "", "also write logs to this file (rotated)")
	fs.StringVar(&cfg.stdioLog, "stdio-log", os.Getenv(envStdioLog), "redirect stderr (including panics) to this file; also configurable via "+envStdioLog)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if cfg.out == "" && !cfg.fb && cfg.server.ListenAddr == "" {
		return config{}, errors.New("nothing to do: pass -out, -fb or -listen")
	}
	if cfg.viewport <= 0 {
		return config{}, fmt.Errorf("-viewport-height must be positive (got %d)", cfg.viewport)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "splashpreview:", err)
		os.Exit(2)
	}

	// Best-effort: keep panic stack traces even when the console is left in
	// graphics mode.
	if err := redirectStderr(cfg.stdioLog); err != nil {
		fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
	}

	logger := logging.New(logging.Options{Debug: cfg.debug, File: cfg.logFile, Color: cfg.color})
	defer logger.Close()

	if err := run(cfg, logger); err != nil {
		logger.Errorf("main", "%v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg config, logger *logging.LogrusLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := cfg.inputs
	if cfg.manifest != "" {
		_, fromManifest, err := manifest.Load(cfg.manifest)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		inputs = fromManifest.Merge(cfg.inputs)
		logger.Infof("main", "inputs from %s", cfg.manifest)
	}

	platform, ok := splash.ParsePlatform(cfg.platform)
	if !ok {
		logger.Errorf("main", "unknown platform %q renders nothing", cfg.platform)
	}

	store := state.NewStore()
	store.Update(func(s *state.State) {
		s.Platform = platform
		s.Inputs = inputs
	})
	screen := fullscreen.NewController()
	screen.Set(cfg.fullscreen)

	rasterizer, err := render.NewRasterizer(assets.Images, logger)
	if err != nil {
		return err
	}
	rasterizer.ViewportHeight = cfg.viewport
	// Icon sources set over HTTP must not reach the local filesystem.
	rasterizer.Icons.AllowFiles = cfg.server.ListenAddr == ""
	if !rasterizer.Icons.AllowFiles && isLocalIcon(inputs.IconURL) {
		logger.Errorf("main", "local icon %q is not loaded while -listen is set; use an http(s) or data: URL", inputs.IconURL)
	}
	previewer := splash.New(splash.WithFullscreen(screen), splash.WithMeasurer(rasterizer.Measurer()))

	a := app.New(store, screen, previewer, rasterizer)
	a.Logger = logger

	if cfg.out != "" {
		return writePNG(ctx, a, cfg.out, logger)
	}

	if cfg.server.ListenAddr != "" {
		server := web.NewHTTPServer(cfg.server)
		server.StaticDir = cfg.staticDir
		server.Logger = logger
		server.Deps = web.APIV1Deps{
			Store:      store,
			Fullscreen: screen,
			Previewer:  previewer,
			Rasterizer: rasterizer,
			Logger:     logger,
		}
		a.Web = server
		for _, u := range system.ReachableURLs(cfg.server.ListenAddr) {
			logger.Infof("main", "preview UI at %s", u)
		}
	}
	if cfg.fb {
		display := render.NewFBDisplay()
		display.Device = cfg.fbDevice
		display.Logger = logger
		a.Display = display
		a.Buttons = buttons.NewKeyboard(logger)
	}

	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writePNG(ctx context.Context, a *app.App, out string, logger logging.Logger) error {
	var buf bytes.Buffer
	err := a.RenderPNG(ctx, &buf)
	if errors.Is(err, app.ErrUnknownPlatform) {
		// Nothing to render is not a failure.
		logger.Infof("main", "%v: no image written", err)
		return nil
	}
	if err != nil {
		return err
	}
	if out == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Infof("main", "wrote %s", out)
	return nil
}

func isLocalIcon(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}
	for _, prefix := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(src, prefix) {
			return false
		}
	}
	return true
}
