package splash

import (
	"sync"

	"github.com/rook-computer/splashpreview/internal/contrast"
)

// ContrastFunc maps a background color to a legible foreground color.
type ContrastFunc func(background string) string

// ContrastResolver memoizes the contrast color for the last background seen.
//
// The cache holds one (background, color) pair. A read with a different
// background recomputes; a read with the same background never calls the
// contrast function again. An empty background resolves to
// DefaultContrastColor without calling it.
type ContrastResolver struct {
	compute ContrastFunc

	mu     sync.Mutex
	filled bool
	key    string
	value  string
}

// NewContrastResolver returns a resolver backed by compute, or by
// contrast.ContrastingColor when compute is nil.
func NewContrastResolver(compute ContrastFunc) *ContrastResolver {
	if compute == nil {
		compute = contrast.ContrastingColor
	}
	return &ContrastResolver{compute: compute}
}

// Resolve returns the contrast color for background.
func (r *ContrastResolver) Resolve(background string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filled && r.key == background {
		return r.value
	}
	value := DefaultContrastColor
	if background != "" {
		value = r.compute(background)
	}
	r.filled = true
	r.key = background
	r.value = value
	return value
}

// Invalidate empties the cache so the next Resolve recomputes.
func (r *ContrastResolver) Invalidate() {
	r.mu.Lock()
	r.filled = false
	r.key = ""
	r.value = ""
	r.mu.Unlock()
}
