// Package manifest reads the fields of a Web App Manifest that drive the
// splash screen preview.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rook-computer/splashpreview/internal/splash"
)

// Manifest is the subset of a web app manifest this tool understands.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
	Icons           []Icon `json:"icons"`
}

type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

// Parse decodes a manifest document.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses the manifest file. Relative icon sources are
// resolved against the manifest's directory.
func Load(file string) (*Manifest, splash.StyleInputs, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, splash.StyleInputs{}, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, splash.StyleInputs{}, fmt.Errorf("%s: %w", file, err)
	}
	return m, m.StyleInputs(filepath.Dir(file)), nil
}

// StyleInputs maps the manifest onto preview inputs. base, when set, is a
// URL or directory that relative icon sources are resolved against.
func (m *Manifest) StyleInputs(base string) splash.StyleInputs {
	in := splash.StyleInputs{
		BackgroundColor: strings.TrimSpace(m.BackgroundColor),
		ThemeColor:      strings.TrimSpace(m.ThemeColor),
		AppName:         strings.TrimSpace(m.Name),
	}
	if in.AppName == "" {
		in.AppName = strings.TrimSpace(m.ShortName)
	}
	if icon, ok := m.SplashIcon(); ok {
		in.IconURL = resolveSrc(base, icon.Src)
	}
	return in
}

// SplashIcon picks the icon a platform would use for its splash screen: the
// largest one usable for "any" purpose. "any" as a size beats every fixed
// size since it marks a scalable image.
func (m *Manifest) SplashIcon() (Icon, bool) {
	best := -1
	bestSize := -1
	for i, icon := range m.Icons {
		if strings.TrimSpace(icon.Src) == "" || !hasAnyPurpose(icon.Purpose) {
			continue
		}
		size := largestSize(icon.Sizes)
		if size > bestSize {
			best, bestSize = i, size
		}
	}
	if best < 0 {
		return Icon{}, false
	}
	return m.Icons[best], true
}

const scalableSize = 1 << 30

func largestSize(sizes string) int {
	largest := 0
	for _, token := range strings.Fields(strings.ToLower(sizes)) {
		if token == "any" {
			return scalableSize
		}
		w, h, ok := strings.Cut(token, "x")
		if !ok {
			continue
		}
		width, errW := strconv.Atoi(w)
		height, errH := strconv.Atoi(h)
		if errW != nil || errH != nil {
			continue
		}
		side := width
		if height < side {
			side = height
		}
		if side > largest {
			largest = side
		}
	}
	return largest
}

func hasAnyPurpose(purpose string) bool {
	fields := strings.Fields(strings.ToLower(purpose))
	if len(fields) == 0 {
		return true
	}
	for _, p := range fields {
		if p == "any" {
			return true
		}
	}
	return false
}

func resolveSrc(base, src string) string {
	src = strings.TrimSpace(src)
	if base == "" {
		return src
	}
	if ref, err := url.Parse(src); err == nil && ref.IsAbs() {
		return src
	}
	if baseURL, err := url.Parse(base); err == nil && baseURL.Scheme != "" && baseURL.Host != "" {
		ref, err := url.Parse(src)
		if err != nil {
			return src
		}
		return baseURL.ResolveReference(ref).String()
	}
	if path.IsAbs(src) || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(base, filepath.FromSlash(src))
}
