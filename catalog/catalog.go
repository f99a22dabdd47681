// Package catalog holds the static registry describing how a sprite sheet is
// laid out: which row each animation clip starts on, how many frames it has,
// and which row delta each facing direction adds. A Catalog is immutable after
// construction and safe to share across any number of controllers.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// Direction is a logical facing, matching the row order of the sheet layout.
type Direction string

const (
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirUp    Direction = "up"
)

var (
	ErrUnknownClip      = errors.New("catalog: unknown clip")
	ErrUnknownDirection = errors.New("catalog: unknown direction")
)

// Clip is one named animation on the sheet. DirectionInvariant clips (for
// example a hurt reaction) occupy a single row and ignore facing entirely.
type Clip struct {
	Name               string
	StartRow           int
	FrameCount         int
	DirectionInvariant bool
}

// Catalog maps clip names to their sheet rows and directions to row deltas.
type Catalog struct {
	clips   map[string]Clip
	offsets map[Direction]int
}

// New validates the clips and direction offsets and builds a Catalog.
// Frame counts must be at least 1, rows and offsets non-negative, and no two
// directions may share a row offset.
func New(clips []Clip, offsets map[Direction]int) (*Catalog, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("catalog: at least one clip required")
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("catalog: at least one direction required")
	}

	cm := make(map[string]Clip, len(clips))
	for _, c := range clips {
		if c.Name == "" {
			return nil, fmt.Errorf("catalog: clip with empty name")
		}
		if c.FrameCount < 1 {
			return nil, fmt.Errorf("catalog: clip %q: frame count must be >= 1, got %d", c.Name, c.FrameCount)
		}
		if c.StartRow < 0 {
			return nil, fmt.Errorf("catalog: clip %q: start row must be >= 0, got %d", c.Name, c.StartRow)
		}
		if _, ok := cm[c.Name]; ok {
			return nil, fmt.Errorf("catalog: duplicate clip %q", c.Name)
		}
		cm[c.Name] = c
	}

	om := make(map[Direction]int, len(offsets))
	rows := make(map[int]Direction, len(offsets))
	for dir, off := range offsets {
		if dir == "" {
			return nil, fmt.Errorf("catalog: direction with empty name")
		}
		if off < 0 {
			return nil, fmt.Errorf("catalog: direction %q: row offset must be >= 0, got %d", dir, off)
		}
		if prev, ok := rows[off]; ok {
			return nil, fmt.Errorf("catalog: directions %q and %q share row offset %d", prev, dir, off)
		}
		rows[off] = dir
		om[dir] = off
	}

	return &Catalog{clips: cm, offsets: om}, nil
}

// Lookup returns the clip registered under name, or ErrUnknownClip.
func (c *Catalog) Lookup(name string) (Clip, error) {
	clip, ok := c.clips[name]
	if !ok {
		return Clip{}, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	return clip, nil
}

// DirectionOffset returns the row delta for the given clip and facing.
// Direction-invariant clips always report 0, regardless of facing.
func (c *Catalog) DirectionOffset(name string, dir Direction) (int, error) {
	clip, err := c.Lookup(name)
	if err != nil {
		return 0, err
	}
	if clip.DirectionInvariant {
		return 0, nil
	}
	off, ok := c.offsets[dir]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	return off, nil
}

// ValidDirection reports whether dir is part of this catalog's closed set.
func (c *Catalog) ValidDirection(dir Direction) bool {
	_, ok := c.offsets[dir]
	return ok
}

// Clips returns the registered clip names in sorted order.
func (c *Catalog) Clips() []string {
	names := make([]string, 0, len(c.clips))
	for name := range c.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Directions returns the known facings ordered by row offset.
func (c *Catalog) Directions() []Direction {
	dirs := make([]Direction, 0, len(c.offsets))
	for dir := range c.offsets {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool { return c.offsets[dirs[i]] < c.offsets[dirs[j]] })
	return dirs
}

var defaultCatalog = func() *Catalog {
	c, err := New([]Clip{
		{Name: "idle", StartRow: 0, FrameCount: 4},
		{Name: "walk", StartRow: 4, FrameCount: 4},
		{Name: "hurt", StartRow: 8, FrameCount: 4, DirectionInvariant: true},
	}, map[Direction]int{
		DirDown:  0,
		DirLeft:  1,
		DirRight: 2,
		DirUp:    3,
	})
	if err != nil {
		panic(err)
	}
	return c
}()

// Default returns the process-wide catalog matching the bundled character
// sheet. It is constructed once and never mutated.
func Default() *Catalog { return defaultCatalog }
