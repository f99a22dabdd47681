package catalog

import (
	"errors"
	"testing"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]Clip{
		{Name: "idle", StartRow: 0, FrameCount: 2},
		{Name: "walk", StartRow: 4, FrameCount: 4},
		{Name: "hurt", StartRow: 8, FrameCount: 3, DirectionInvariant: true},
	}, map[Direction]int{DirDown: 0, DirLeft: 1, DirRight: 2, DirUp: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestLookup(t *testing.T) {
	c := testCatalog(t)

	clip, err := c.Lookup("walk")
	if err != nil {
		t.Fatalf("Lookup(walk): %v", err)
	}
	if clip.StartRow != 4 || clip.FrameCount != 4 {
		t.Fatalf("unexpected walk clip: %+v", clip)
	}

	if _, err := c.Lookup("fly"); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("Lookup(fly): got %v, want ErrUnknownClip", err)
	}
}

func TestDirectionOffset(t *testing.T) {
	c := testCatalog(t)

	cases := []struct {
		name    string
		clip    string
		dir     Direction
		want    int
		wantErr error
	}{
		{"walk_down", "walk", DirDown, 0, nil},
		{"walk_left", "walk", DirLeft, 1, nil},
		{"idle_up", "idle", DirUp, 3, nil},
		{"invariant_ignores_facing", "hurt", DirUp, 0, nil},
		{"invariant_ignores_bad_facing", "hurt", "sideways", 0, nil},
		{"unknown_clip", "fly", DirDown, 0, ErrUnknownClip},
		{"unknown_direction", "walk", "sideways", 0, ErrUnknownDirection},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			off, err := c.DirectionOffset(tc.clip, tc.dir)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got err %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if off != tc.want {
				t.Fatalf("got offset %d, want %d", off, tc.want)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	goodClips := []Clip{{Name: "idle", FrameCount: 1}}
	goodDirs := map[Direction]int{DirDown: 0}

	cases := []struct {
		name    string
		clips   []Clip
		offsets map[Direction]int
	}{
		{"no_clips", nil, goodDirs},
		{"no_directions", goodClips, nil},
		{"empty_clip_name", []Clip{{Name: "", FrameCount: 1}}, goodDirs},
		{"zero_frame_count", []Clip{{Name: "idle", FrameCount: 0}}, goodDirs},
		{"negative_start_row", []Clip{{Name: "idle", StartRow: -1, FrameCount: 1}}, goodDirs},
		{"duplicate_clip", []Clip{{Name: "idle", FrameCount: 1}, {Name: "idle", FrameCount: 2}}, goodDirs},
		{"negative_offset", goodClips, map[Direction]int{DirDown: -1}},
		{"duplicate_offset", goodClips, map[Direction]int{DirDown: 0, DirUp: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.clips, tc.offsets); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestClipsAndDirectionsOrdering(t *testing.T) {
	c := testCatalog(t)

	clips := c.Clips()
	want := []string{"hurt", "idle", "walk"}
	if len(clips) != len(want) {
		t.Fatalf("got %v, want %v", clips, want)
	}
	for i := range want {
		if clips[i] != want[i] {
			t.Fatalf("got %v, want %v", clips, want)
		}
	}

	dirs := c.Directions()
	wantDirs := []Direction{DirDown, DirLeft, DirRight, DirUp}
	for i := range wantDirs {
		if dirs[i] != wantDirs[i] {
			t.Fatalf("got %v, want %v", dirs, wantDirs)
		}
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	for _, name := range []string{"idle", "walk", "hurt"} {
		if _, err := c.Lookup(name); err != nil {
			t.Fatalf("default catalog missing %q: %v", name, err)
		}
	}
	hurt, _ := c.Lookup("hurt")
	if !hurt.DirectionInvariant {
		t.Fatalf("hurt should be direction-invariant")
	}
	if !c.ValidDirection(DirLeft) || c.ValidDirection("sideways") {
		t.Fatalf("unexpected direction membership")
	}
}
