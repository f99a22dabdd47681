// Package clock advances a frame index at a fixed virtual frame rate,
// independent of how often the host redraws. Advancement is gated purely by
// elapsed wall-clock time against the configured fps, so variable display
// refresh rates or throttled backgrounds never change playback speed.
package clock

import "time"

// Result reports what a single Tick did.
type Result struct {
	Advanced bool
	Looped   bool
}

// FrameClock owns the frame index of one animation instance.
// It is not safe for concurrent use; the host drives Tick from one goroutine.
type FrameClock struct {
	fps        float64
	frameCount int
	frame      int
	last       time.Time
	rebase     bool
	paused     bool
}

// New creates a FrameClock. Non-positive fps falls back to 8 and a frame
// count below 1 is clamped to 1.
func New(fps float64, frameCount int) *FrameClock {
	if fps <= 0 {
		fps = 8
	}
	if frameCount < 1 {
		frameCount = 1
	}
	return &FrameClock{fps: fps, frameCount: frameCount, rebase: true}
}

// Interval returns the virtual frame period (1s / fps).
func (c *FrameClock) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.fps)
}

// Tick evaluates one frame-advance decision at the given timestamp. The frame
// advances iff the elapsed time since the last advance reached the virtual
// frame period. The first tick after construction, a clip switch, or a resume
// only rebases the timing phase so there is never a catch-up burst.
func (c *FrameClock) Tick(now time.Time) Result {
	if c.paused {
		return Result{}
	}
	if c.rebase {
		c.last = now
		c.rebase = false
		return Result{}
	}
	if now.Sub(c.last) < c.Interval() {
		return Result{}
	}
	c.last = now
	c.frame = (c.frame + 1) % c.frameCount
	return Result{Advanced: true, Looped: c.frame == 0}
}

// Frame returns the current frame index, always in [0, frameCount).
func (c *FrameClock) Frame() int { return c.frame }

// FrameCount returns the active clip's frame count.
func (c *FrameClock) FrameCount() int { return c.frameCount }

// SetFrame jumps to a specific frame index, clamped to the valid range.
func (c *FrameClock) SetFrame(i int) {
	if i < 0 {
		i = 0
	}
	if i >= c.frameCount {
		i = c.frameCount - 1
	}
	c.frame = i
}

// SetClip switches to a clip of the given frame count, resetting the frame
// index to 0 and rebasing the timing phase at the next tick. No partial-frame
// time carries over between clips.
func (c *FrameClock) SetClip(frameCount int) {
	if frameCount < 1 {
		frameCount = 1
	}
	c.frameCount = frameCount
	c.frame = 0
	c.rebase = true
}

// SetFPS changes the virtual frame rate. Non-positive values are ignored.
func (c *FrameClock) SetFPS(fps float64) {
	if fps > 0 {
		c.fps = fps
	}
}

// FPS returns the configured virtual frame rate.
func (c *FrameClock) FPS() float64 { return c.fps }

// Pause freezes the frame index and suspends timestamp comparison.
func (c *FrameClock) Pause() { c.paused = true }

// Resume unfreezes the clock. The timing phase rebases at the next tick, so
// time spent paused never produces a burst of advances.
func (c *FrameClock) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.rebase = true
}

// Paused reports whether the clock is paused.
func (c *FrameClock) Paused() bool { return c.paused }
