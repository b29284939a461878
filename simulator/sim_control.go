package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
)

const DefaultScenario = "branded"

// Scenario is a canned preview state.
type Scenario struct {
	Platform   splash.Platform
	Inputs     splash.StyleInputs
	Fullscreen bool
}

const brandedIcon = "data:image/svg+xml;utf8," +
	"<svg xmlns='http://www.w3.org/2000/svg' width='96' height='96'>" +
	"<circle cx='48' cy='48' r='44' fill='%23ff9800'/>" +
	"<rect x='30' y='30' width='36' height='36' fill='%23fff'/></svg>"

var scenarios = map[string]Scenario{
	// Everything unset: defaults all the way through.
	"blank": {Platform: splash.Windows},

	"dark": {
		Platform: splash.Android,
		Inputs: splash.StyleInputs{
			BackgroundColor: "#121212",
			ThemeColor:      "#000000",
			AppName:         "Night Reader",
		},
	},
	"branded": {
		Platform: splash.IOS,
		Inputs: splash.StyleInputs{
			BackgroundColor: "#3f51b5",
			ThemeColor:      "#303f9f",
			IconURL:         brandedIcon,
			AppName:         "Field Notes",
		},
	},
	"translucent": {
		Platform: splash.Android,
		Inputs: splash.StyleInputs{
			BackgroundColor: "rgba(255, 235, 59, 0.5)",
			ThemeColor:      "#fbc02d",
			IconURL:         brandedIcon,
			AppName:         "A rather long application name that has to wrap",
		},
		Fullscreen: true,
	},
	"broken": {
		Platform: splash.Windows,
		Inputs: splash.StyleInputs{
			BackgroundColor: "not-a-color",
			IconURL:         "http://127.0.0.1:1/missing.png",
		},
	},
}

func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type SimControl struct {
	processCtx      context.Context
	startupScenario string
	currentScenario atomic.Value // string

	store  *state.Store
	screen *fullscreen.Controller

	cycleMu     sync.Mutex
	cycleCancel context.CancelFunc
	cycleEvery  time.Duration
}

func NewSimControl(processCtx context.Context, startupScenario string, store *state.Store, screen *fullscreen.Controller) *SimControl {
	if processCtx == nil {
		processCtx = context.Background()
	}
	if store == nil {
		store = state.NewStore()
	}
	if screen == nil {
		screen = fullscreen.NewController()
	}
	c := &SimControl{processCtx: processCtx, startupScenario: strings.TrimSpace(startupScenario), store: store, screen: screen}
	if c.startupScenario == "" {
		c.startupScenario = DefaultScenario
	}
	c.currentScenario.Store(c.startupScenario)
	return c
}

func (c *SimControl) Scenario() string {
	return c.currentScenario.Load().(string)
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	sc, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.store.Update(func(s *state.State) {
		s.Platform = sc.Platform
		s.Inputs = sc.Inputs
	})
	c.screen.Set(sc.Fullscreen)
	c.currentScenario.Store(name)
	return nil
}

func (c *SimControl) Reset() error {
	c.StopCycle()
	return c.ApplyScenario(c.startupScenario)
}

// StartCycle advances the previewed platform every interval until StopCycle
// or process shutdown. Calling it again restarts the timer.
func (c *SimControl) StartCycle(every time.Duration) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	if c.cycleCancel != nil {
		c.cycleCancel()
	}
	ctx, cancel := context.WithCancel(c.processCtx)
	c.cycleCancel = cancel
	c.cycleEvery = every

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.store.Update(func(s *state.State) { s.Platform = s.Platform.Next() })
			}
		}
	}()
}

func (c *SimControl) StopCycle() {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	if c.cycleCancel != nil {
		c.cycleCancel()
		c.cycleCancel = nil
	}
	c.cycleEvery = 0
}

func (c *SimControl) CycleInterval() time.Duration {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	return c.cycleEvery
}

func registerSimEndpoints(handler http.Handler, control *SimControl) {
	mux, ok := handler.(*http.ServeMux)
	if !ok {
		// Only supported when the simulator uses the default mux.
		return
	}

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	})

	mux.HandleFunc("/sim/scenarios", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"scenarios": ScenarioNames(), "current": control.Scenario()})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
		name = strings.Trim(name, "/")
		if err := control.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	})

	mux.HandleFunc("/sim/cycle", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			var body struct {
				Every string `json:"every"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			every, err := time.ParseDuration(body.Every)
			if err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			if every <= 0 {
				control.StopCycle()
			} else {
				control.StartCycle(every)
			}
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"every": control.CycleInterval().String()})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
