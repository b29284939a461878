package splash

// FullscreenState reports whether the preview is currently shown fullscreen.
// The preview only reads it; toggling belongs to whoever owns the state.
type FullscreenState interface {
	IsFullscreen() bool
}

// StaticFullscreen is a FullscreenState with a fixed value.
type StaticFullscreen bool

func (s StaticFullscreen) IsFullscreen() bool { return bool(s) }

// Previewer produces splash screen mockups.
type Previewer struct {
	resolver   *ContrastResolver
	fullscreen FullscreenState
	measurer   TextMeasurer
}

type Option func(*Previewer)

// WithContrastFunc replaces the contrast algorithm.
func WithContrastFunc(fn ContrastFunc) Option {
	return func(p *Previewer) { p.resolver = NewContrastResolver(fn) }
}

// WithFullscreen sets the fullscreen state the scale factor is read from.
func WithFullscreen(state FullscreenState) Option {
	return func(p *Previewer) { p.fullscreen = state }
}

// WithMeasurer sets the text measurer used to center text next to icons.
func WithMeasurer(m TextMeasurer) Option {
	return func(p *Previewer) { p.measurer = m }
}

func New(opts ...Option) *Previewer {
	p := &Previewer{}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = NewContrastResolver(nil)
	}
	if p.fullscreen == nil {
		p.fullscreen = StaticFullscreen(false)
	}
	if p.measurer == nil {
		p.measurer = estimateMeasurer{}
	}
	return p
}

// ContrastColor returns the foreground color used on top of in's background.
func (p *Previewer) ContrastColor(in StyleInputs) string {
	return p.resolver.Resolve(in.BackgroundColor)
}

// WithFullscreen returns a copy of p that reads fullscreen from state. The
// copy shares p's contrast resolver and measurer.
func (p *Previewer) WithFullscreen(state FullscreenState) *Previewer {
	out := *p
	if state == nil {
		state = StaticFullscreen(false)
	}
	out.fullscreen = state
	return &out
}

// Render lays out the mockup for platform. The empty platform selects
// DefaultPlatform. Unknown platforms produce no mockup and ok == false;
// that is not an error.
func (p *Previewer) Render(platform Platform, in StyleInputs) (mockup *Mockup, ok bool) {
	if platform == "" {
		platform = DefaultPlatform
	}
	switch platform {
	case Windows:
		return renderWindows(p.frame(in)), true
	case Android:
		return renderAndroid(p.frame(in)), true
	case IOS:
		return renderIOS(p.frame(in)), true
	default:
		return nil, false
	}
}

// frame is everything a platform renderer needs for one render pass.
type frame struct {
	in         StyleInputs
	contrast   string
	fullscreen bool
	measurer   TextMeasurer
}

func (p *Previewer) frame(in StyleInputs) frame {
	return frame{
		in:         in,
		contrast:   p.ContrastColor(in),
		fullscreen: p.fullscreen.IsFullscreen(),
		measurer:   p.measurer,
	}
}

// scale picks the fullscreen magnification.
func (f frame) scale(fullscreenFactor float64) float64 {
	if f.fullscreen {
		return fullscreenFactor
	}
	return 1
}
