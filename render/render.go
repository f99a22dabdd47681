// Package render blits single frames out of a sprite sheet atlas. It is pure
// with respect to animation state; nothing here mutates a controller.
package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spriteloop/atlas"
	"github.com/milk9111/spriteloop/catalog"
)

// FrameRect returns the source rectangle of one frame on the sheet:
// column = frame index, row = clip start row + direction offset.
func FrameRect(frameSize, startRow, dirOffset, frameIndex int) image.Rectangle {
	sx := frameIndex * frameSize
	sy := (startRow + dirOffset) * frameSize
	return image.Rect(sx, sy, sx+frameSize, sy+frameSize)
}

// Draw copies the addressed frame onto dst, scaled by scale with
// nearest-neighbor sampling to keep pixel-art edges crisp. The frame lands at
// the origin of dst's bounds, so a SubImage can be passed to position it.
// Absent atlas or dst, or an out-of-range frame index, it draws nothing.
// A non-nil op contributes its GeoM (applied after scaling), color scale, and
// blend; the caller's op is never modified.
func Draw(dst *ebiten.Image, a *atlas.Atlas, clip catalog.Clip, dirOffset, frameIndex int, scale float64, op *ebiten.DrawImageOptions) {
	if dst == nil || a == nil || a.Image == nil {
		return
	}
	if frameIndex < 0 || frameIndex >= clip.FrameCount {
		return
	}
	if scale <= 0 {
		scale = 1
	}

	src := a.Image.SubImage(FrameRect(a.FrameSize, clip.StartRow, dirOffset, frameIndex)).(*ebiten.Image)

	var draw ebiten.DrawImageOptions
	if op != nil {
		draw = *op
	}
	var geo ebiten.GeoM
	geo.Scale(scale, scale)
	min := dst.Bounds().Min
	geo.Translate(float64(min.X), float64(min.Y))
	geo.Concat(draw.GeoM)
	draw.GeoM = geo
	draw.Filter = ebiten.FilterNearest
	dst.DrawImage(src, &draw)
}
