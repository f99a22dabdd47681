// Package spriteloop is a frame-accurate 2D sprite animation engine for
// Ebitengine. A Controller composes a catalog (sheet layout), an atlas loader
// (decoded sheet cache), and a frame clock (wall-clock gated playback) behind
// one imperative facade: configure it, drive OnTick once per display frame,
// and render the current frame onto any draw surface.
package spriteloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spriteloop/atlas"
	"github.com/milk9111/spriteloop/catalog"
	"github.com/milk9111/spriteloop/clock"
	"github.com/milk9111/spriteloop/render"
)

// ErrDisposed is returned by operations on a disposed controller.
var ErrDisposed = errors.New("spriteloop: controller disposed")

// State is the controller's lifecycle state. Paused is an orthogonal flag,
// not a state: a paused controller still renders its frozen frame.
type State int

const (
	// StateLoading: no atlas yet (none requested, in flight, or failed).
	// Rendering is a no-op.
	StateLoading State = iota
	// StateReady: atlas resolved; ticking and rendering are active.
	StateReady
	// StateDisposed is terminal.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Configuration defaults.
const (
	DefaultClip      = "idle"
	DefaultDirection = catalog.DirDown
	DefaultFPS       = 8.0
	DefaultScale     = 2.0
	DefaultFrameSize = 32
)

// Config is the full configuration surface of a controller. Zero-valued
// fields take the library defaults; an empty URL is the valid "no atlas"
// state. For partial updates use the individual setters instead.
//
// FrameSize only participates in the first resolution of a URL: the loader
// fixes the frame size per sheet (the atlas layout is fixed and given), so
// reconfiguring a different FrameSize without changing URL does not re-slice
// an already resolved atlas. FrameSize reports the effective value.
type Config struct {
	URL        string
	Clip       string
	Direction  catalog.Direction
	FPS        float64
	Scale      float64
	FrameSize  int
	Paused     bool
	OnComplete func()
}

func (c Config) withDefaults() Config {
	if c.Clip == "" {
		c.Clip = DefaultClip
	}
	if c.Direction == "" {
		c.Direction = DefaultDirection
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
	if c.FrameSize <= 0 {
		c.FrameSize = DefaultFrameSize
	}
	return c
}

// Controller owns the animation state of one on-screen character. Configure,
// OnTick, and Render must be driven from a single goroutine; the only
// cross-goroutine traffic is an atlas resolution completing, which is
// published under the controller mutex and becomes visible to the next tick.
type Controller struct {
	cat    *catalog.Catalog
	loader *atlas.Loader
	clock  *clock.FrameClock

	clip       catalog.Clip
	direction  catalog.Direction
	dirOffset  int
	scale      float64
	frameSize  int
	url        string
	onComplete func()

	mu       sync.Mutex
	atlas    *atlas.Atlas
	loadErr  error
	gen      uint64
	cancel   context.CancelFunc
	disposed bool
}

// New creates a controller. A nil catalog uses catalog.Default() and a nil
// loader uses atlas.NewLoader(nil). If cfg.URL is set, resolution starts
// immediately and the controller stays in StateLoading until it lands.
func New(cat *catalog.Catalog, loader *atlas.Loader, cfg Config) (*Controller, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	if loader == nil {
		loader = atlas.NewLoader(nil)
	}
	cfg = cfg.withDefaults()

	clip, err := cat.Lookup(cfg.Clip)
	if err != nil {
		return nil, err
	}
	off, err := dirOffsetFor(cat, clip, cfg.Direction)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cat:        cat,
		loader:     loader,
		clock:      clock.New(cfg.FPS, clip.FrameCount),
		clip:       clip,
		direction:  cfg.Direction,
		dirOffset:  off,
		scale:      cfg.Scale,
		frameSize:  cfg.FrameSize,
		onComplete: cfg.OnComplete,
	}
	if cfg.Paused {
		c.clock.Pause()
	}
	if cfg.URL != "" {
		c.startLoad(cfg.URL)
	}
	return c, nil
}

// dirOffsetFor validates the facing even for direction-invariant clips, so a
// later clip switch cannot leave the controller on an unmapped direction.
func dirOffsetFor(cat *catalog.Catalog, clip catalog.Clip, dir catalog.Direction) (int, error) {
	if !cat.ValidDirection(dir) {
		return 0, fmt.Errorf("%w: %q", catalog.ErrUnknownDirection, dir)
	}
	return cat.DirectionOffset(clip.Name, dir)
}

// Configure replaces the whole configuration (zero fields meaning defaults,
// as in Config). Everything is validated against the catalog before anything
// is applied: on ErrUnknownClip or ErrUnknownDirection the prior state is
// fully retained. A clip change resets the frame phase; a direction-only
// change keeps frame and phase; a URL change triggers a fresh resolution and
// drops any in-flight one.
func (c *Controller) Configure(cfg Config) error {
	if c.disposed {
		return ErrDisposed
	}
	cfg = cfg.withDefaults()

	clip, err := c.cat.Lookup(cfg.Clip)
	if err != nil {
		return err
	}
	off, err := dirOffsetFor(c.cat, clip, cfg.Direction)
	if err != nil {
		return err
	}

	clipChanged := clip.Name != c.clip.Name
	c.clip = clip
	c.direction = cfg.Direction
	c.dirOffset = off
	c.scale = cfg.Scale
	c.frameSize = cfg.FrameSize
	c.onComplete = cfg.OnComplete
	c.clock.SetFPS(cfg.FPS)
	if clipChanged {
		c.clock.SetClip(clip.FrameCount)
	}
	if cfg.Paused {
		c.clock.Pause()
	} else {
		c.clock.Resume()
	}
	if cfg.URL != c.url || c.Err() != nil {
		c.startLoad(cfg.URL)
	}
	return nil
}

// SetClip switches the active clip. Switching resets the frame index to 0
// and rebases the timing phase; setting the current clip again is a no-op.
func (c *Controller) SetClip(name string) error {
	if c.disposed {
		return ErrDisposed
	}
	clip, err := c.cat.Lookup(name)
	if err != nil {
		return err
	}
	off, err := c.cat.DirectionOffset(clip.Name, c.direction)
	if err != nil {
		return err
	}
	if clip.Name == c.clip.Name {
		return nil
	}
	c.clip = clip
	c.dirOffset = off
	c.clock.SetClip(clip.FrameCount)
	return nil
}

// SetDirection switches the facing without touching frame index or timing
// phase.
func (c *Controller) SetDirection(dir catalog.Direction) error {
	if c.disposed {
		return ErrDisposed
	}
	off, err := dirOffsetFor(c.cat, c.clip, dir)
	if err != nil {
		return err
	}
	c.direction = dir
	c.dirOffset = off
	return nil
}

// SetURL points the controller at a new sheet. An empty url clears the atlas
// ("no atlas" state, rendering becomes a no-op). Setting the current url
// again is a no-op while it is resolved or in flight — but after a load
// error it retries, so a transient fetch failure is never a dead end.
func (c *Controller) SetURL(url string) error {
	if c.disposed {
		return ErrDisposed
	}
	if url == c.url && c.Err() == nil {
		return nil
	}
	c.startLoad(url)
	return nil
}

// SetFPS changes the virtual frame rate.
func (c *Controller) SetFPS(fps float64) error {
	if c.disposed {
		return ErrDisposed
	}
	if fps <= 0 {
		return fmt.Errorf("spriteloop: fps must be > 0, got %v", fps)
	}
	c.clock.SetFPS(fps)
	return nil
}

// SetScale changes the render scale.
func (c *Controller) SetScale(scale float64) error {
	if c.disposed {
		return ErrDisposed
	}
	if scale <= 0 {
		return fmt.Errorf("spriteloop: scale must be > 0, got %v", scale)
	}
	c.scale = scale
	return nil
}

// SetPaused suspends or resumes ticking. Rendering keeps showing the frozen
// frame while paused, and resuming never produces a catch-up burst.
func (c *Controller) SetPaused(paused bool) {
	if c.disposed {
		return
	}
	if paused {
		c.clock.Pause()
	} else {
		c.clock.Resume()
	}
}

// SetOnComplete registers the loop-completion callback, replacing any prior
// one. A nil fn clears it.
func (c *Controller) SetOnComplete(fn func()) {
	if c.disposed {
		return
	}
	c.onComplete = fn
}

// startLoad begins resolving url, invalidating any in-flight resolution.
// Only the result matching the most recently requested url may ever publish;
// earlier completions find a newer generation and are dropped.
func (c *Controller) startLoad(url string) {
	c.url = url

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.atlas = nil
	c.loadErr = nil
	if url == "" {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	frameSize := c.frameSize
	go func() {
		a, err := c.loader.Resolve(ctx, url, frameSize)
		c.publish(gen, a, err)
	}()
}

// publish installs a finished resolution, unless a newer url was requested
// or the controller was disposed in the meantime.
func (c *Controller) publish(gen uint64, a *atlas.Atlas, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || gen != c.gen {
		return
	}
	if err != nil {
		c.loadErr = err
		return
	}
	c.atlas = a
	c.loadErr = nil
}

// OnTick drives exactly one frame-advance decision at the given timestamp and
// fires the loop-completion callback exactly once per wrap. It never panics
// and never reports errors; load failures surface through Err instead, so a
// bad sheet can not silently kill the host's tick loop.
func (c *Controller) OnTick(now time.Time) {
	if c.disposed {
		return
	}
	res := c.clock.Tick(now)
	if res.Looped && c.onComplete != nil {
		c.onComplete()
	}
}

// Render draws the current frame at the origin of dst's bounds, scaled to
// FrameSize*Scale with nearest-neighbor sampling. While no atlas is resolved
// (empty url, load in flight, load failed, or disposed) it draws nothing.
// Pass a SubImage of the screen to position the sprite.
func (c *Controller) Render(dst *ebiten.Image) {
	if c.disposed || dst == nil {
		return
	}
	c.mu.Lock()
	a := c.atlas
	c.mu.Unlock()
	if a == nil {
		return
	}
	render.Draw(dst, a, c.clip, c.dirOffset, c.clock.Frame(), c.scale, nil)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.disposed:
		return StateDisposed
	case c.atlas != nil:
		return StateReady
	default:
		return StateLoading
	}
}

// Err returns the most recent load failure, or nil. The flag clears when a
// later resolution succeeds or a new url is requested.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Frame returns the current frame index.
func (c *Controller) Frame() int { return c.clock.Frame() }

// Clip returns the active clip name.
func (c *Controller) Clip() string { return c.clip.Name }

// Direction returns the active facing.
func (c *Controller) Direction() catalog.Direction { return c.direction }

// URL returns the currently requested sheet url ("" when none).
func (c *Controller) URL() string { return c.url }

// Paused reports whether ticking is suspended.
func (c *Controller) Paused() bool { return c.clock.Paused() }

// Scale returns the render scale.
func (c *Controller) Scale() float64 { return c.scale }

// FrameSize returns the source tile edge in pixels. Once an atlas is
// resolved this is the atlas's own frame size, which the first resolution
// of its URL fixed, so surface sizing always agrees with the blit.
func (c *Controller) FrameSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.atlas != nil {
		return c.atlas.FrameSize
	}
	return c.frameSize
}

// Dispose releases the controller's hold on its atlas and makes any pending
// resolution a no-op when it completes. Idempotent; all later operations
// return ErrDisposed or do nothing.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.atlas = nil
}
