// Package config loads librarian.toml, the optional per-project settings
// file. Command line flags override values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/OpenTraceLab/librarian/pkg/rules"
)

// FileName is the name of the settings file searched for by Find
const FileName = "librarian.toml"

// Config holds the generation settings
type Config struct {
	OutputDir  string    `toml:"output_dir"`
	Technology string    `toml:"technology"`
	Jobs       int       `toml:"jobs"`
	KeepGoing  bool      `toml:"keep_going"`
	ESD        ESDConfig `toml:"esd"`
}

// ESDConfig enables the silicide block of ESD devices.
// The shipped technology has no silicide block layer, so a width without
// a layer is rejected.
type ESDConfig struct {
	SilicideBlockWidth int    `toml:"silicide_block_width"`
	SilicideBlockLayer string `toml:"silicide_block_layer"`
}

// Default returns the settings used without a config file
func Default() Config {
	return Config{
		OutputDir:  ".",
		Technology: "scmos",
		Jobs:       1,
	}
}

// Find looks for librarian.toml in startDir and its parents
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a config file on top of the defaults.
// Unknown keys are an error so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that do not depend on the technology
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.ESD.SilicideBlockWidth < 0 {
		return fmt.Errorf("esd.silicide_block_width must not be negative, got %d", c.ESD.SilicideBlockWidth)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	return nil
}

// ResolveTechnology looks up the configured technology, applies the ESD
// silicide block settings, and validates the result.
func (c Config) ResolveTechnology() (rules.Technology, error) {
	tech, err := rules.Lookup(c.Technology)
	if err != nil {
		return rules.Technology{}, err
	}
	if c.ESD.SilicideBlockWidth > 0 || c.ESD.SilicideBlockLayer != "" {
		tech = tech.WithSilicideBlock(c.ESD.SilicideBlockWidth, c.ESD.SilicideBlockLayer)
	}
	if err := tech.Validate(); err != nil {
		return rules.Technology{}, err
	}
	return tech, nil
}
