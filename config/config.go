// Package config loads project settings from flowlang.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up next to the compiled sources.
const FileName = "flowlang.yaml"

type Config struct {
	// Namespace wraps every generated container.
	Namespace string `yaml:"namespace"`
	// Output is where generated C# is written; empty means stdout.
	Output string `yaml:"output"`
	// Indent is the generated indentation width in spaces.
	Indent int `yaml:"indent"`
}

func Default() Config {
	return Config{
		Namespace: "FlowLang.Generated",
		Indent:    4,
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = Default().Namespace
	}
	if cfg.Indent <= 0 {
		cfg.Indent = Default().Indent
	}

	return cfg, nil
}

// LoadOrDefault loads dir/flowlang.yaml when present and falls back
// to the defaults when the file does not exist.
func LoadOrDefault(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}
