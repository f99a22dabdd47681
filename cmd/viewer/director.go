package main

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/spriteloop/assets"
)

// directorDispatch is appended to every director script so the viewer can
// call its update function with the elapsed time and read the result back.
const directorDispatch = "\n__out = update(__elapsed)\n"

// director runs a tengo script that picks the clip and facing over time.
// The script defines update(elapsed) returning {clip: string, direction:
// string}; missing keys leave the current value alone.
type director struct {
	path     string
	compiled *tengo.Compiled
}

func newDirector(path string) (*director, error) {
	src, err := assets.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("viewer: load script %s: %w", path, err)
	}

	script := tengo.NewScript(append(src, []byte(directorDispatch)...))
	_ = script.Add("__elapsed", 0.0)
	_ = script.Add("__out", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("viewer: compile script %s: %w", path, err)
	}
	return &director{path: path, compiled: compiled}, nil
}

func (d *director) step(elapsed float64) (clip, dir string, err error) {
	if err := d.compiled.Set("__elapsed", elapsed); err != nil {
		return "", "", err
	}
	if err := d.compiled.Run(); err != nil {
		return "", "", err
	}
	out := d.compiled.Get("__out").Map()
	clip, _ = out["clip"].(string)
	dir, _ = out["direction"].(string)
	return clip, dir, nil
}
