// Package config holds the knobs the mutation layer needs but that
// aren't per-call parameters: level caps, Mayhem cap, and strictness
// toggles. Grounded on the teacher's DefaultLoginServer()/
// LoadLoginServer(path) pattern — defaults first, then an optional
// YAML file overlaid on top; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options are the knobs a Save/Profile needs at construction time.
type Options struct {
	// MaxSupportedLevel bounds SetLevel and the required-XP table.
	MaxSupportedLevel int `yaml:"max_supported_level"`
	// MayhemMax is the configured Mayhem ceiling. No package in this
	// module reads it: Item.SetMayhemTier accepts any tier that has a
	// known Mayhem generic part, and game-state Mayhem levels are not
	// bounded by it.
	MayhemMax int `yaml:"mayhem_max"`
	// AllowFabricator controls whether import skips Fabricator-balance
	// items (spec's soft stderr warning path).
	AllowFabricator bool `yaml:"allow_fabricator"`
	// StrictUnknownFields is not read by any package in this module;
	// record decoding fails with BadFormat on trailing bytes whatever
	// its value.
	StrictUnknownFields bool `yaml:"strict_unknown_fields"`
}

// Default returns the Options a BL3Save/BL3Profile should use absent
// any file override.
func Default() Options {
	return Options{
		MaxSupportedLevel:   72,
		MayhemMax:           11,
		AllowFabricator:     false,
		StrictUnknownFields: false,
	}
}

// Load reads Options from a YAML file, starting from Default() and
// overlaying whatever the file specifies. A missing file is not an
// error; it just yields the defaults.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, nil
}
