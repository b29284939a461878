package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxCachedIcons      = 64
)

var (
	errIconTooLarge  = errors.New("icon exceeds size limit")
	errFilesDisabled = errors.New("local icon files are disabled")
	errOutsideBase   = errors.New("icon path escapes the base directory")
)

// Icon is a decoded image source that can be drawn at any size.
type Icon struct {
	raster image.Image
	svg    []byte
}

// At returns the icon stretched to exactly w x h pixels.
func (i *Icon) At(w, h int) (image.Image, error) {
	if i.svg != nil {
		return rasterizeSVG(i.svg, w, h)
	}
	b := i.raster.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return i.raster, nil
	}
	return imaging.Resize(i.raster, w, h, imaging.Lanczos), nil
}

// IconLoader fetches icons from data: URLs, http(s) URLs or, when
// AllowFiles is set, local files. It keeps the decoded result per source.
type IconLoader struct {
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes int64
	// AllowFiles enables file:// and plain path sources. Leave it off when
	// sources come from untrusted clients.
	AllowFiles bool
	// BaseDir resolves relative file paths and, when set, confines every
	// file source to that directory. Empty means the working directory with
	// no confinement.
	BaseDir string

	mu    sync.Mutex
	cache map[string]*Icon
}

func NewIconLoader() *IconLoader {
	return &IconLoader{
		Client:   &http.Client{},
		Timeout:  defaultFetchTimeout,
		MaxBytes: maxIconBytes,
		cache:    make(map[string]*Icon),
	}
}

// Load returns the icon for src. Failures are not cached.
func (l *IconLoader) Load(ctx context.Context, src string) (*Icon, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("empty icon source")
	}

	l.mu.Lock()
	if icon, ok := l.cache[src]; ok {
		l.mu.Unlock()
		return icon, nil
	}
	l.mu.Unlock()

	data, contentType, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	icon, err := decodeIcon(data, contentType, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shortSource(src), err)
	}

	l.mu.Lock()
	if l.cache == nil || len(l.cache) >= maxCachedIcons {
		l.cache = make(map[string]*Icon)
	}
	l.cache[src] = icon
	l.mu.Unlock()
	return icon, nil
}

// Forget drops every cached icon.
func (l *IconLoader) Forget() {
	l.mu.Lock()
	l.cache = make(map[string]*Icon)
	l.mu.Unlock()
}

func (l *IconLoader) fetch(ctx context.Context, src string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.download(ctx, src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, "", err
		}
		return l.readFile(u.Path)
	default:
		return l.readFile(src)
	}
}

func (l *IconLoader) download(ctx context.Context, src string) ([]byte, string, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}
	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", src, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (l *IconLoader) readFile(name string) ([]byte, string, error) {
	if !l.AllowFiles {
		return nil, "", errFilesDisabled
	}
	name, err := l.resolvePath(name)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := l.readLimited(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return data, "", nil
}

func (l *IconLoader) resolvePath(name string) (string, error) {
	if l.BaseDir == "" {
		return name, nil
	}
	base, err := filepath.Abs(l.BaseDir)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(base, name)
	}
	name = filepath.Clean(name)
	rel, err := filepath.Rel(base, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, errOutsideBase)
	}
	return name, nil
}

func (l *IconLoader) readLimited(r io.Reader) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = maxIconBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errIconTooLarge
	}
	return data, nil
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>.
func decodeDataURL(src string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data url")
	}
	mediaType := meta
	isBase64 := false
	if strings.HasSuffix(meta, ";base64") {
		isBase64 = true
		mediaType = strings.TrimSuffix(meta, ";base64")
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("data url: %w", err)
		}
		return data, mediaType, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data url: %w", err)
	}
	return []byte(data), mediaType, nil
}

func decodeIcon(data []byte, contentType, src string) (*Icon, error) {
	name := src
	if strings.HasPrefix(src, "data:") {
		name = ""
	}
	if isSVG(contentType, name, data) {
		// Parse once up front so bad documents fail at load time.
		if _, err := rasterizeSVG(data, 1, 1); err != nil {
			return nil, err
		}
		return &Icon{svg: data}, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	return &Icon{raster: img}, nil
}

func shortSource(src string) string {
	if strings.HasPrefix(src, "data:") && len(src) > 32 {
		return src[:32] + "..."
	}
	return src
}
