package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		kind    EventKind
		watched bool
	}{
		{"yaml", "assets/catalog.yaml", SpecChanged, true},
		{"yml", "sheet.yml", SpecChanged, true},
		{"tengo", "scripts/showcase.tengo", ScriptChanged, true},
		{"uppercase_tengo", "SHOWCASE.TENGO", ScriptChanged, true},
		{"uppercase_yaml", "CATALOG.YAML", SpecChanged, true},
		{"png", "character-Sheet.png", 0, false},
		{"no_ext", "Makefile", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, watched := classify(tc.path)
			if watched != tc.watched {
				t.Fatalf("classify(%q) watched = %v, want %v", tc.path, watched, tc.watched)
			}
			if watched && kind != tc.kind {
				t.Fatalf("classify(%q) kind = %v, want %v", tc.path, kind, tc.kind)
			}
		})
	}
}

func waitForEvent(t *testing.T, w *Watcher, kind EventKind, base string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				t.Fatalf("watcher closed before %v event for %s", kind, base)
			}
			if ev.Kind == kind && filepath.Base(ev.Path) == base {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v event for %s", kind, base)
		}
	}
}

func TestWatcherReportsSpecAndScriptEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "sheet.yaml"), []byte("frame_size: 32\n"), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	waitForEvent(t, w, SpecChanged, "sheet.yaml")

	// extension match is case-insensitive, so an upper-cased save still
	// reloads as a script
	if err := os.WriteFile(filepath.Join(dir, "SHOWCASE.TENGO"), []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	waitForEvent(t, w, ScriptChanged, "SHOWCASE.TENGO")
}

func TestWatcherCloseIsIdempotentAndClosesChannels(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	// pending edits at close time must drain or drop, never panic
	for i := 0; i < 8; i++ {
		name := filepath.Join(dir, "spec"+string(rune('a'+i))+".yaml")
		if err := os.WriteFile(name, []byte("directions: {down: 0}\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("Events did not close after Close")
		}
	}
}
