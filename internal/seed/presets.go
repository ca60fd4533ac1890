package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var presetsYAML []byte

// MoodPreset is one entry of the built-in mood palette used when seeding.
type MoodPreset struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Emoji string `yaml:"emoji"`
}

// Presets is the parsed seed preset file.
type Presets struct {
	Moods     []MoodPreset `yaml:"moods"`
	Notes     []string     `yaml:"notes"`
	Passcodes []string     `yaml:"passcodes"`
}

// LoadPresets parses the embedded preset file.
func LoadPresets() (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(presetsYAML, &p); err != nil {
		return nil, fmt.Errorf("failed to parse seed presets: %w", err)
	}
	if len(p.Moods) == 0 {
		return nil, fmt.Errorf("seed presets contain no moods")
	}
	return &p, nil
}
