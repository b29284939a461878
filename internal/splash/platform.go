// Package splash lays out design-time mockups of how a PWA splash screen looks
// on Windows, Android and iOS.
//
// Rendering is a pure function of the platform, the style inputs taken from
// the app manifest and the fullscreen flag. The only state is the cached
// contrast color derived from the background.
package splash

import "strings"

// Platform selects which mockup is produced.
type Platform string

const (
	Windows Platform = "windows"
	Android Platform = "android"
	IOS     Platform = "iOS"
)

// DefaultPlatform is used when no platform is given.
const DefaultPlatform = Windows

// Platforms lists every platform with a renderer, in display order.
var Platforms = []Platform{Windows, Android, IOS}

// Valid reports whether p has a renderer.
func (p Platform) Valid() bool {
	switch p {
	case Windows, Android, IOS:
		return true
	}
	return false
}

// ParsePlatform maps user input to a Platform, ignoring case and surrounding
// space. Empty input selects DefaultPlatform. Unknown names are returned
// as-is with ok == false so callers can still hand them to Render, which
// produces nothing for them.
func ParsePlatform(raw string) (p Platform, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultPlatform, true
	}
	for _, candidate := range Platforms {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate, true
		}
	}
	return Platform(trimmed), false
}

// Next returns the platform after p in display order, wrapping around.
func (p Platform) Next() Platform {
	return p.step(1)
}

// Prev returns the platform before p in display order, wrapping around.
func (p Platform) Prev() Platform {
	return p.step(-1)
}

func (p Platform) step(delta int) Platform {
	for i, candidate := range Platforms {
		if candidate == p {
			n := len(Platforms)
			return Platforms[((i+delta)%n+n)%n]
		}
	}
	return DefaultPlatform
}
