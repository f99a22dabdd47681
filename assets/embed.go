// Package assets bundles the demo sprite sheet, its catalog spec, and the
// viewer's director scripts. Loaders prefer a file on disk so assets can be
// edited live, falling back to the embedded copies.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed *.png *.yaml scripts/*.tengo
var assetsFS embed.FS

// Bundled asset names.
const (
	CharacterSheet = "character-Sheet.png"
	DefaultCatalog = "catalog.yaml"
	ShowcaseScript = "scripts/showcase.tengo"
)

// Load reads an asset by assets-relative path, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanAssetPath(name)
	if data, err := os.ReadFile(diskAssetPath(clean)); err == nil {
		return data, nil
	}
	return assetsFS.ReadFile(clean)
}

// LoadImage decodes an asset into an *ebiten.Image.
func LoadImage(name string) (*ebiten.Image, error) {
	b, err := Load(name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadScript reads a director script by name, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	return Load(cleanScriptPath(name))
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}

func cleanScriptPath(path string) string {
	s := cleanAssetPath(path)
	if strings.HasPrefix(s, "scripts/") {
		return s
	}
	return fmt.Sprintf("scripts/%s", s)
}

func diskAssetPath(clean string) string {
	return filepath.Join("assets", filepath.FromSlash(clean))
}
