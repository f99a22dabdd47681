package render

import (
	"image"
	"testing"

	"github.com/milk9111/spriteloop/catalog"
)

func TestFrameRect(t *testing.T) {
	cases := []struct {
		name       string
		frameSize  int
		startRow   int
		dirOffset  int
		frameIndex int
		want       image.Rectangle
	}{
		{"origin", 32, 0, 0, 0, image.Rect(0, 0, 32, 32)},
		{"third_frame", 32, 0, 0, 2, image.Rect(64, 0, 96, 32)},
		{"walk_right", 32, 4, 2, 3, image.Rect(96, 192, 128, 224)},
		{"small_tiles", 16, 1, 1, 1, image.Rect(16, 32, 32, 48)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FrameRect(tc.frameSize, tc.startRow, tc.dirOffset, tc.frameIndex)
			if got != tc.want {
				t.Fatalf("FrameRect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDrawNoopOnMissingInputs(t *testing.T) {
	clip := catalog.Clip{Name: "idle", FrameCount: 4}

	// absent atlas or surface must draw nothing rather than error
	Draw(nil, nil, clip, 0, 0, 2, nil)
	Draw(nil, nil, clip, 0, -1, 2, nil)
	Draw(nil, nil, clip, 0, 4, 2, nil)
}
