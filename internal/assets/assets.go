// Package assets bundles the device artwork and the browser UI.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed images
var imagesFS embed.FS

//go:embed web
var webFS embed.FS

// Images holds the device artwork. Paths match the splash.Asset* constants,
// for example "images/android/background.svg".
var Images fs.FS = imagesFS

// WebUI is an embedded filesystem rooted at internal/assets/web.
// It contains index.html.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}
