// Package config loads the optional mtklog CLI defaults file: a small YAML
// document naming the default serial port, probe/pinned speed, and output
// directory so repeat invocations don't need to repeat flags every time.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds CLI defaults. All fields are optional; a zero value means
// "let the CLI flag default apply instead".
type Config struct {
	Port      string `yaml:"port"`
	Speed     int    `yaml:"speed"`
	OutputDir string `yaml:"output_dir"`
}

// DefaultPath returns "~/.mtklogrc", or "" if $HOME can't be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mtklogrc")
}

// Load reads and parses the YAML config file at path. A missing file is not
// an error: it returns a zero-value Config, since every field is optional.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return &Config{}, nil
	}

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
