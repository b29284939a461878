package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rook-computer/splashpreview/internal/manifest"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
)

const maxRequestBody = 1 << 20

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// previewResponse is the shared preview state as the UI sees it.
type previewResponse struct {
	Platform      splash.Platform    `json:"platform"`
	Supported     bool               `json:"supported"`
	Inputs        splash.StyleInputs `json:"inputs"`
	Fullscreen    bool               `json:"fullscreen"`
	ContrastColor string             `json:"contrastColor"`
	Revision      uint64             `json:"revision"`
}

// previewUpdate is the body of PUT and PATCH /preview. Absent fields are
// left alone.
type previewUpdate struct {
	Platform   *string             `json:"platform"`
	Inputs     *splash.StyleInputs `json:"inputs"`
	Fullscreen *bool               `json:"fullscreen"`
}

type fullscreenResponse struct {
	Fullscreen bool `json:"fullscreen"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/platforms", func(w http.ResponseWriter, r *http.Request) { handlePlatforms(w, r) })
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) { handlePreview(w, r, deps) })
	mux.HandleFunc("/preview.png", func(w http.ResponseWriter, r *http.Request) { handlePreviewPNG(w, r, deps) })
	mux.HandleFunc("/mockup", func(w http.ResponseWriter, r *http.Request) { handleMockup(w, r, deps) })
	mux.HandleFunc("/manifest", func(w http.ResponseWriter, r *http.Request) { handleManifest(w, r, deps) })
	mux.HandleFunc("/fullscreen", func(w http.ResponseWriter, r *http.Request) { handleFullscreen(w, r, deps) })
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) { handleQRCode(w, r) })
	mux.Handle("/events", newEventsHandler(deps))
	return mux
}

func handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, splash.Platforms)
}

func handlePreview(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, snapshotPreview(deps))
	case http.MethodPut, http.MethodPatch:
		var update previewUpdate
		if err := decodeBody(w, r, &update); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		merge := r.Method == http.MethodPatch
		deps.Store.Update(func(s *state.State) {
			if update.Platform != nil {
				s.Platform, _ = splash.ParsePlatform(*update.Platform)
			}
			if update.Inputs != nil {
				if merge {
					s.Inputs = s.Inputs.Merge(*update.Inputs)
				} else {
					s.Inputs = *update.Inputs
				}
			}
		})
		if update.Fullscreen != nil {
			deps.Fullscreen.Set(*update.Fullscreen)
		}
		writeJSON(w, http.StatusOK, snapshotPreview(deps))
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func snapshotPreview(deps APIV1Deps) previewResponse {
	return previewFromState(deps, deps.Store.Snapshot(), deps.Fullscreen.IsFullscreen())
}

func previewFromState(deps APIV1Deps, snap state.State, fullscreen bool) previewResponse {
	platform := snap.Platform
	if platform == "" {
		platform = splash.DefaultPlatform
	}
	return previewResponse{
		Platform:      platform,
		Supported:     platform.Valid(),
		Inputs:        snap.Inputs,
		Fullscreen:    fullscreen,
		ContrastColor: deps.Previewer.ContrastColor(snap.Inputs),
		Revision:      snap.Revision,
	}
}

// mockupFromRequest renders the shared state with any query overrides:
// platform, backgroundColor, themeColor, iconUrl, appName and fullscreen.
func mockupFromRequest(r *http.Request, deps APIV1Deps) (*splash.Mockup, bool, error) {
	q := r.URL.Query()
	snap := deps.Store.Snapshot()

	platform := snap.Platform
	if raw, ok := q["platform"]; ok {
		platform, _ = splash.ParsePlatform(raw[0])
	}
	inputs := snap.Inputs.Merge(splash.StyleInputs{
		BackgroundColor: q.Get("backgroundColor"),
		ThemeColor:      q.Get("themeColor"),
		IconURL:         q.Get("iconUrl"),
		AppName:         q.Get("appName"),
	})

	previewer := deps.Previewer
	if raw := q.Get("fullscreen"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false, errors.New("fullscreen must be a boolean")
		}
		previewer = deps.previewerFor(on)
	}
	m, ok := previewer.Render(platform, inputs)
	return m, ok, nil
}

func handleMockup(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	m, ok, err := mockupFromRequest(r, deps)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if !ok {
		// Unknown platforms have nothing to show.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func handlePreviewPNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Rasterizer == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "rendering not configured")
		return
	}
	m, ok, err := mockupFromRequest(r, deps)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	img, err := deps.Rasterizer.Rasterize(r.Context(), m)
	if err != nil {
		deps.Logger.Errorf("web", "rasterize %s: %v", m.Platform, err)
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Preview-Revision", strconv.FormatUint(deps.Store.Snapshot().Revision, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleManifest replaces the style inputs with those of a posted web app
// manifest. ?base= resolves relative icon paths.
func handleManifest(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	m, err := manifest.Parse(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_manifest", err.Error())
		return
	}
	deps.Store.SetInputs(m.StyleInputs(r.URL.Query().Get("base")))
	writeJSON(w, http.StatusOK, snapshotPreview(deps))
}

// handleFullscreen reads the flag on GET. POST sets it from
// {"fullscreen": bool}, or toggles it when the body is empty.
func handleFullscreen(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, fullscreenResponse{Fullscreen: deps.Fullscreen.IsFullscreen()})
	case http.MethodPost:
		var body struct {
			Fullscreen *bool `json:"fullscreen"`
		}
		if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		if body.Fullscreen == nil {
			deps.Fullscreen.Toggle()
		} else {
			deps.Fullscreen.Set(*body.Fullscreen)
		}
		writeJSON(w, http.StatusOK, fullscreenResponse{Fullscreen: deps.Fullscreen.IsFullscreen()})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// handleQRCode encodes ?url= (or this server's own root) so a phone can open
// the preview UI.
func handleQRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	payload := strings.TrimSpace(r.URL.Query().Get("url"))
	if payload == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		payload = scheme + "://" + r.Host + "/"
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_query", "size must be an integer")
			return
		}
		size = parsed
	}

	data, err := render.GenerateQRCodePNG(payload, size)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "qr_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
