package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"github.com/milk9111/spriteloop"
	"github.com/milk9111/spriteloop/atlas"
	"github.com/milk9111/spriteloop/catalog"
)

const (
	baseWidth  = 640
	baseHeight = 480
)

type viewerConfig struct {
	sheet       string
	catalogPath string
	scriptPath  string
	fps         float64
	scale       float64
	frameSize   int
}

type Game struct {
	cfg    viewerConfig
	cat    *catalog.Catalog
	loader *atlas.Loader
	ctrl   *spriteloop.Controller

	ui       *ebitenui.UI
	watcher  *catalog.Watcher
	director *director

	start   time.Time
	clipIdx int
	loops   int
}

func newGame(cfg viewerConfig, cat *catalog.Catalog, watch bool) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		cat:    cat,
		loader: atlas.NewLoader(nil),
		start:  time.Now(),
	}

	ctrl, err := spriteloop.New(cat, g.loader, spriteloop.Config{
		URL:        cfg.sheet,
		FPS:        cfg.fps,
		Scale:      cfg.scale,
		FrameSize:  cfg.frameSize,
		OnComplete: func() { g.loops++ },
	})
	if err != nil {
		return nil, err
	}
	g.ctrl = ctrl
	g.ui = newViewerUI(g)

	if cfg.scriptPath != "" {
		d, err := newDirector(cfg.scriptPath)
		if err != nil {
			log.Printf("viewer: director %s: %v", cfg.scriptPath, err)
		} else {
			g.director = d
		}
	}

	if watch {
		w, err := catalog.NewWatcher(watchDirs(cfg)...)
		if err != nil {
			log.Printf("viewer: watch: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.ctrl.Dispose()
}

func (g *Game) Update() error {
	g.drainWatcher()
	g.handleInput()
	g.applyDirector()
	g.ui.Update()
	g.ctrl.OnTick(time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	size := int(float64(g.ctrl.FrameSize()) * g.ctrl.Scale())
	x := (baseWidth - size) / 2
	y := (baseHeight - size) / 2
	surface := screen.SubImage(image.Rect(x, y, x+size, y+size)).(*ebiten.Image)
	g.ctrl.Render(surface)

	status := fmt.Sprintf("clip=%s dir=%s frame=%d loops=%d state=%s",
		g.ctrl.Clip(), g.ctrl.Direction(), g.ctrl.Frame(), g.loops, g.ctrl.State())
	if err := g.ctrl.Err(); err != nil {
		status += fmt.Sprintf("\nload error: %v", err)
	}
	ebitenutil.DebugPrint(screen, status)

	g.ui.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

var directionKeys = map[ebiten.Key]catalog.Direction{
	ebiten.KeyArrowDown:  catalog.DirDown,
	ebiten.KeyArrowLeft:  catalog.DirLeft,
	ebiten.KeyArrowRight: catalog.DirRight,
	ebiten.KeyArrowUp:    catalog.DirUp,
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ctrl.SetPaused(!g.ctrl.Paused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.nextClip()
	}
	for key, dir := range directionKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.ctrl.SetDirection(dir); err != nil {
				log.Printf("viewer: %v", err)
			}
		}
	}
}

func (g *Game) nextClip() {
	clips := g.cat.Clips()
	if len(clips) == 0 {
		return
	}
	g.clipIdx = (g.clipIdx + 1) % len(clips)
	if err := g.ctrl.SetClip(clips[g.clipIdx]); err != nil {
		log.Printf("viewer: %v", err)
	}
}

func (g *Game) applyDirector() {
	if g.director == nil {
		return
	}
	clip, dir, err := g.director.step(time.Since(g.start).Seconds())
	if err != nil {
		log.Printf("viewer: director: %v", err)
		g.director = nil
		return
	}
	if clip != "" && clip != g.ctrl.Clip() {
		if err := g.ctrl.SetClip(clip); err != nil {
			log.Printf("viewer: director clip: %v", err)
		}
	}
	if dir != "" && catalog.Direction(dir) != g.ctrl.Direction() {
		if err := g.ctrl.SetDirection(catalog.Direction(dir)); err != nil {
			log.Printf("viewer: director direction: %v", err)
		}
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ev, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch ev.Kind {
			case catalog.ScriptChanged:
				g.reloadDirector()
			default:
				g.reloadCatalog()
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("viewer: watch: %v", err)
		default:
			return
		}
	}
}

// reloadCatalog builds a fresh immutable catalog from the spec file and swaps
// in a new controller for it; the old controller is disposed.
func (g *Game) reloadCatalog() {
	if g.cfg.catalogPath == "" {
		return
	}
	spec, err := catalog.LoadSpecFile(g.cfg.catalogPath)
	if err != nil {
		log.Printf("viewer: reload catalog: %v", err)
		return
	}
	cat, err := catalog.FromSpec(spec)
	if err != nil {
		log.Printf("viewer: reload catalog: %v", err)
		return
	}
	frameSize := g.cfg.frameSize
	if spec.FrameSize > 0 {
		frameSize = spec.FrameSize
	}

	ctrl, err := spriteloop.New(cat, g.loader, spriteloop.Config{
		URL:        g.cfg.sheet,
		FPS:        g.cfg.fps,
		Scale:      g.ctrl.Scale(),
		FrameSize:  frameSize,
		Paused:     g.ctrl.Paused(),
		OnComplete: func() { g.loops++ },
	})
	if err != nil {
		log.Printf("viewer: reload catalog: %v", err)
		return
	}

	g.ctrl.Dispose()
	g.ctrl = ctrl
	g.cat = cat
	g.clipIdx = 0
	g.ui = newViewerUI(g)
	log.Printf("viewer: reloaded catalog %s", g.cfg.catalogPath)
}

func (g *Game) reloadDirector() {
	if g.cfg.scriptPath == "" {
		return
	}
	d, err := newDirector(g.cfg.scriptPath)
	if err != nil {
		log.Printf("viewer: reload director: %v", err)
		return
	}
	g.director = d
	log.Printf("viewer: reloaded director %s", g.cfg.scriptPath)
}

func watchDirs(cfg viewerConfig) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if dir == "" || dir == "." || seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	if cfg.catalogPath != "" {
		add(filepath.Dir(cfg.catalogPath))
	}
	if cfg.scriptPath != "" {
		add(filepath.Dir(cfg.scriptPath))
		add(filepath.Join("assets", "scripts"))
	}
	add("assets")
	return dirs
}
