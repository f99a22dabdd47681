package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the yaml schema describing a sheet layout.
type Spec struct {
	FrameSize  int            `yaml:"frame_size"`
	Directions map[string]int `yaml:"directions"`
	Clips      []ClipSpec     `yaml:"clips"`
}

type ClipSpec struct {
	Name               string `yaml:"name"`
	Row                int    `yaml:"row"`
	Frames             int    `yaml:"frames"`
	DirectionInvariant bool   `yaml:"direction_invariant"`
}

// ParseSpec decodes a catalog spec from yaml bytes.
func ParseSpec(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("catalog: unmarshal spec: %w", err)
	}
	return spec, nil
}

// LoadSpecFile reads and decodes a catalog spec from disk.
func LoadSpecFile(filename string) (Spec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Spec{}, fmt.Errorf("catalog: load %s: %w", filename, err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return Spec{}, fmt.Errorf("catalog: %s: %w", filename, err)
	}
	return spec, nil
}

// FromSpec builds an immutable Catalog from a decoded spec.
func FromSpec(spec Spec) (*Catalog, error) {
	clips := make([]Clip, 0, len(spec.Clips))
	for _, cs := range spec.Clips {
		clips = append(clips, Clip{
			Name:               cs.Name,
			StartRow:           cs.Row,
			FrameCount:         cs.Frames,
			DirectionInvariant: cs.DirectionInvariant,
		})
	}
	offsets := make(map[Direction]int, len(spec.Directions))
	for name, off := range spec.Directions {
		offsets[Direction(name)] = off
	}
	return New(clips, offsets)
}
