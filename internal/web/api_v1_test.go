package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/splashpreview/internal/assets"
	"github.com/rook-computer/splashpreview/internal/fullscreen"
	"github.com/rook-computer/splashpreview/internal/render"
	"github.com/rook-computer/splashpreview/internal/splash"
	"github.com/rook-computer/splashpreview/internal/state"
)

func newTestDeps(t *testing.T) APIV1Deps {
	t.Helper()
	rasterizer, err := render.NewRasterizer(assets.Images, nil)
	require.NoError(t, err)
	return APIV1Deps{
		Store:      state.NewStore(),
		Fullscreen: fullscreen.NewController(),
		Rasterizer: rasterizer,
	}.withDefaults()
}

func newTestServer(t *testing.T, deps APIV1Deps) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewDefaultMux("", deps))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestGetPreviewDefaults(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))

	var got previewResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/preview", "", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, splash.Windows, got.Platform)
	assert.True(t, got.Supported)
	assert.False(t, got.Fullscreen)
	assert.Equal(t, "#000", got.ContrastColor)
}

func TestPutPreviewReplacesAndPatchMerges(t *testing.T) {
	deps := newTestDeps(t)
	srv := newTestServer(t, deps)

	var put previewResponse
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/preview",
		`{"platform":"ANDROID","inputs":{"backgroundColor":"#000000","appName":"Notes"},"fullscreen":true}`, &put)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, splash.Android, put.Platform)
	assert.Equal(t, "#fff", put.ContrastColor)
	assert.True(t, put.Fullscreen)
	assert.True(t, deps.Fullscreen.IsFullscreen())

	var patched previewResponse
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/preview", `{"inputs":{"themeColor":"#ff0000"}}`, &patched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	merged := splash.StyleInputs{BackgroundColor: "#000000", ThemeColor: "#ff0000", AppName: "Notes"}
	assert.Equal(t, merged, patched.Inputs)
	assert.Equal(t, merged, deps.Store.Snapshot().Inputs)

	var replaced previewResponse
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/preview", `{"inputs":{"themeColor":"#00ff00"}}`, &replaced)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, splash.StyleInputs{ThemeColor: "#00ff00"}, replaced.Inputs)
	assert.Equal(t, splash.StyleInputs{ThemeColor: "#00ff00"}, deps.Store.Snapshot().Inputs)
	assert.Equal(t, splash.Android, replaced.Platform)
}

func TestPutPreviewRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	for _, body := range []string{`{`, `{"colour":"red"}`} {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/preview", body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestUnknownPlatformHasNoMockup(t *testing.T) {
	deps := newTestDeps(t)
	srv := newTestServer(t, deps)

	var got previewResponse
	doJSON(t, http.MethodPut, srv.URL+"/api/v1/preview", `{"platform":"linux"}`, &got)
	assert.Equal(t, splash.Platform("linux"), got.Platform)
	assert.False(t, got.Supported)

	for _, path := range []string{"/api/v1/mockup", "/api/v1/preview.png"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, path)
	}
}

func TestGetMockupWithOverrides(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))

	var m struct {
		Platform      splash.Platform `json:"platform"`
		Scale         float64         `json:"scale"`
		ContrastColor string          `json:"contrastColor"`
		MarginTop     splash.Length   `json:"marginTop"`
		Elements      []struct {
			Kind splash.ElementKind `json:"kind"`
			Fill string             `json:"fill"`
		} `json:"elements"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/mockup?platform=iOS&backgroundColor=%23123456&fullscreen=true", "", &m)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, splash.IOS, m.Platform)
	assert.Equal(t, 1.5, m.Scale)
	assert.Equal(t, "#fff", m.ContrastColor)
	assert.Equal(t, splash.Px(30), m.MarginTop)

	fills := map[splash.ElementKind]string{}
	for _, e := range m.Elements {
		fills[e.Kind] = e.Fill
	}
	assert.Equal(t, "#123456", fills[splash.ElementScreen])

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/mockup?fullscreen=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMockupFullscreenOverrideKeepsContrastFunc(t *testing.T) {
	deps := newTestDeps(t)
	deps.Previewer = splash.New(
		splash.WithFullscreen(deps.Fullscreen),
		splash.WithContrastFunc(func(string) string { return "#abcdef" }),
	)
	srv := newTestServer(t, deps)

	var m struct {
		Scale         float64 `json:"scale"`
		ContrastColor string  `json:"contrastColor"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/mockup?platform=android&backgroundColor=%23123456&fullscreen=true", "", &m)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.7, m.Scale)
	assert.Equal(t, "#abcdef", m.ContrastColor)
	assert.False(t, deps.Fullscreen.IsFullscreen())
}

func TestPreviewPNG(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))

	resp, err := http.Get(srv.URL + "/api/v1/preview.png?platform=android&themeColor=%23ff0000")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), 480)
}

func TestPreviewPNGIgnoresServerLocalIcon(t *testing.T) {
	marker := color.NRGBA{0x12, 0xAB, 0x34, 0xFF}
	icon := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			icon.SetNRGBA(x, y, marker)
		}
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, icon))
	path := filepath.Join(t.TempDir(), "private.png")
	require.NoError(t, os.WriteFile(path, encoded.Bytes(), 0o644))

	srv := newTestServer(t, newTestDeps(t))
	for _, src := range []string{path, "file://" + filepath.ToSlash(path)} {
		resp, err := http.Get(srv.URL + "/api/v1/preview.png?platform=android&iconUrl=" + url.QueryEscape(src))
		require.NoError(t, err)
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		b := img.Bounds()
		found := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if color.NRGBAModel.Convert(img.At(x, y)) == marker {
					found++
				}
			}
		}
		assert.Zero(t, found, src)
	}
}

func TestPreviewPNGWithoutRasterizer(t *testing.T) {
	deps := newTestDeps(t)
	deps.Rasterizer = nil
	srv := newTestServer(t, deps)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/preview.png", "", nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestPostManifest(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))

	manifest := `{"name":"Field Notes","background_color":"#3f51b5","theme_color":"#ffeb3b",
		"icons":[{"src":"icons/192.png","sizes":"192x192"}]}`
	var got previewResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/manifest?base=https://example.com/app/", manifest, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, splash.StyleInputs{
		BackgroundColor: "#3f51b5",
		ThemeColor:      "#ffeb3b",
		IconURL:         "https://example.com/app/icons/192.png",
		AppName:         "Field Notes",
	}, got.Inputs)
	assert.Equal(t, "#fff", got.ContrastColor)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/manifest", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFullscreenEndpoint(t *testing.T) {
	deps := newTestDeps(t)
	srv := newTestServer(t, deps)

	var got fullscreenResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", "", &got)
	assert.True(t, got.Fullscreen)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", "", &got)
	assert.False(t, got.Fullscreen)

	doJSON(t, http.MethodPost, srv.URL+"/api/v1/fullscreen", `{"fullscreen":true}`, &got)
	assert.True(t, got.Fullscreen)
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/fullscreen", "", &got)
	assert.True(t, got.Fullscreen)
	assert.True(t, deps.Fullscreen.IsFullscreen())

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/fullscreen", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestQRCode(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))

	resp, err := http.Get(srv.URL + "/api/v1/qr?size=128")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	resp2 := doJSON(t, http.MethodGet, srv.URL+"/api/v1/qr?size=big", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestPlatforms(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	var got []splash.Platform
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/platforms", "", &got)
	assert.Equal(t, splash.Platforms, got)
}

func TestServesEmbeddedUI(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(body, []byte("Splash screen preview")))
}
