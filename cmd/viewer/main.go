package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spriteloop"
	"github.com/milk9111/spriteloop/assets"
	"github.com/milk9111/spriteloop/catalog"
)

func main() {
	sheet := flag.String("sheet", assets.CharacterSheet, "sprite sheet path (disk, falling back to embedded assets)")
	catalogPath := flag.String("catalog", "", "catalog spec yaml; empty uses the built-in catalog")
	script := flag.String("script", "", "director script, e.g. showcase.tengo; empty disables the director")
	fps := flag.Float64("fps", 8, "virtual animation frame rate")
	scale := flag.Float64("scale", 4, "pixel scale")
	watch := flag.Bool("watch", false, "hot-reload catalog and script files on change")
	flag.Parse()

	cat := catalog.Default()
	frameSize := spriteloop.DefaultFrameSize
	if *catalogPath != "" {
		spec, err := catalog.LoadSpecFile(*catalogPath)
		if err != nil {
			log.Fatal(err)
		}
		c, err := catalog.FromSpec(spec)
		if err != nil {
			log.Fatal(err)
		}
		cat = c
		if spec.FrameSize > 0 {
			frameSize = spec.FrameSize
		}
	}

	game, err := newGame(viewerConfig{
		sheet:       *sheet,
		catalogPath: *catalogPath,
		scriptPath:  *script,
		fps:         *fps,
		scale:       *scale,
		frameSize:   frameSize,
	}, cat, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("spriteloop viewer")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
