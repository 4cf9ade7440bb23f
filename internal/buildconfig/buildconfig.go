// Package buildconfig loads the compiler's own local tuning file,
// `.vexcompiler.yaml`, distinct from the package manifest (`vex.json`,
// owned by the package manager per spec.md §6). It follows funxy's
// internal/ext/config.go, which loads `funxy.yaml` the same way, field
// for field: a struct tagged with `yaml:"..."` decoded via
// gopkg.in/yaml.v3.
package buildconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of .vexcompiler.yaml.
type Config struct {
	// SuppressedCodes lists diagnostic codes that IsSuppressed reports
	// as silenced, e.g. ["E0901"]. The driver does not consult it:
	// rendered and JSON output include diagnostics of every code.
	SuppressedCodes []string `yaml:"suppress,omitempty"`

	// MaxGenericDepthOverride, when non-zero, replaces
	// config.MaxGenericDepth for this compilation.
	MaxGenericDepthOverride int `yaml:"max_generic_depth,omitempty"`

	// Verbose turns on the internal debug-trace gate (spec.md §9).
	Verbose bool `yaml:"verbose,omitempty"`
}

// Load reads and parses path. A missing file is not an error — it
// yields the zero Config, so compilation proceeds with defaults
// exactly as if no tuning file existed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsSuppressed reports whether code has been silenced by this config.
func (c *Config) IsSuppressed(code string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.SuppressedCodes {
		if s == code {
			return true
		}
	}
	return false
}
