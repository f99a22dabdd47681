package atlas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func sheetPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test sheet: %v", err)
	}
	return buf.Bytes()
}

func TestResolveCachesByURL(t *testing.T) {
	data := sheetPNG(t, 64, 64)
	fetches := 0
	l := NewLoader(func(ctx context.Context, url string) ([]byte, error) {
		fetches++
		return data, nil
	})

	a1, err := l.Resolve(context.Background(), "sheet.png", 32)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	a2, err := l.Resolve(context.Background(), "sheet.png", 32)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("repeated resolve of the same url must return the cached atlas")
	}
	if fetches != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetches)
	}
	if a1.FrameSize != 32 {
		t.Fatalf("frame size = %d, want 32", a1.FrameSize)
	}
}

func TestResolveFailures(t *testing.T) {
	sentinel := errors.New("boom")
	good := sheetPNG(t, 32, 32)

	cases := []struct {
		name      string
		url       string
		frameSize int
		fetch     FetchFunc
	}{
		{
			"empty_url", "", 32,
			func(ctx context.Context, url string) ([]byte, error) { return good, nil },
		},
		{
			"bad_frame_size", "sheet.png", 0,
			func(ctx context.Context, url string) ([]byte, error) { return good, nil },
		},
		{
			"fetch_error", "sheet.png", 32,
			func(ctx context.Context, url string) ([]byte, error) { return nil, sentinel },
		},
		{
			"decode_error", "sheet.png", 32,
			func(ctx context.Context, url string) ([]byte, error) { return []byte("not a png"), nil },
		},
		{
			"frame_size_exceeds_sheet", "sheet.png", 64,
			func(ctx context.Context, url string) ([]byte, error) { return good, nil },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLoader(tc.fetch)
			_, err := l.Resolve(context.Background(), tc.url, tc.frameSize)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("got %v, want *LoadError", err)
			}
			if tc.name == "fetch_error" && !errors.Is(err, sentinel) {
				t.Fatalf("LoadError should wrap the fetch error, got %v", err)
			}
		})
	}
}

func TestResolveFailureIsNotCached(t *testing.T) {
	data := sheetPNG(t, 32, 32)
	fail := true
	l := NewLoader(func(ctx context.Context, url string) ([]byte, error) {
		if fail {
			return nil, fmt.Errorf("transient")
		}
		return data, nil
	})

	if _, err := l.Resolve(context.Background(), "sheet.png", 32); err == nil {
		t.Fatalf("expected failure")
	}
	fail = false
	if _, err := l.Resolve(context.Background(), "sheet.png", 32); err != nil {
		t.Fatalf("re-resolve after failure: %v", err)
	}
}

func TestResolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(func(ctx context.Context, url string) ([]byte, error) {
		return nil, ctx.Err()
	})
	_, err := l.Resolve(ctx, "sheet.png", 32)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	var le *LoadError
	if errors.As(err, &le) {
		t.Fatalf("cancellation must not be reported as a LoadError")
	}
}
