// Package atlas resolves sprite sheet URLs into decoded, drawable atlases.
// Successful resolutions are cached by URL and shared read-only by every
// controller using that sheet.
package atlas

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spriteloop/assets"
)

// Atlas is one decoded sprite sheet plus its square tile edge in source
// pixels. Never mutated after load.
type Atlas struct {
	Image     *ebiten.Image
	FrameSize int
}

// LoadError wraps a fetch or decode failure for a sheet URL.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("atlas: load %s: %v", e.URL, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// FetchFunc retrieves the raw bytes behind a sheet URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// DefaultFetch reads a sheet from disk, falling back to the embedded assets.
func DefaultFetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b, err := os.ReadFile(url); err == nil {
		return b, nil
	}
	return assets.Load(url)
}

// Loader decodes and caches atlases by URL. Safe for concurrent use.
type Loader struct {
	mu    sync.Mutex
	cache map[string]*Atlas
	fetch FetchFunc
}

// NewLoader creates a Loader. A nil fetch uses DefaultFetch.
func NewLoader(fetch FetchFunc) *Loader {
	if fetch == nil {
		fetch = DefaultFetch
	}
	return &Loader{cache: make(map[string]*Atlas), fetch: fetch}
}

// Resolve returns the atlas for url, fetching and decoding it on first use.
// The first successful resolve fixes the frame size for that URL; later calls
// return the cached atlas without re-fetching. Fetch and decode failures come
// back as *LoadError and are never cached, so the caller may simply resolve
// again. A canceled context aborts the resolve with ctx.Err().
func (l *Loader) Resolve(ctx context.Context, url string, frameSize int) (*Atlas, error) {
	if url == "" {
		return nil, &LoadError{URL: url, Err: fmt.Errorf("empty sheet url")}
	}
	if frameSize <= 0 {
		return nil, &LoadError{URL: url, Err: fmt.Errorf("frame size must be > 0, got %d", frameSize)}
	}

	l.mu.Lock()
	if a, ok := l.cache[url]; ok {
		l.mu.Unlock()
		return a, nil
	}
	l.mu.Unlock()

	b, err := l.fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &LoadError{URL: url, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	bounds := img.Bounds()
	if frameSize > bounds.Dx() || frameSize > bounds.Dy() {
		return nil, &LoadError{URL: url, Err: fmt.Errorf("frame size %d exceeds sheet %dx%d", frameSize, bounds.Dx(), bounds.Dy())}
	}

	a := &Atlas{Image: ebiten.NewImageFromImage(img), FrameSize: frameSize}

	l.mu.Lock()
	if cached, ok := l.cache[url]; ok {
		// concurrent resolve of the same url won; keep the first atlas
		a = cached
	} else {
		l.cache[url] = a
	}
	l.mu.Unlock()
	return a, nil
}
