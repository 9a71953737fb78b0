// Package config loads the optional project configuration file. Values from
// the file fill in whatever the command line left at its default; flags
// always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the working
// directory when --config is not given.
const FileName = ".reqtrace.yaml"

// Config mirrors the command-line surface of the review command.
type Config struct {
	DocsDirs []string `yaml:"docs_dirs"`
	TestDirs []string `yaml:"test_dirs"`
	Ignore   []string `yaml:"ignore"`
	Output   string   `yaml:"output"`
}

// Load reads a config file. The file must exist; use LoadDefault for the
// optional lookup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault looks for the default config file in dir. A missing file is
// not an error; it simply yields a nil config.
func LoadDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return Load(path)
}
