// Package config loads pros-upload settings.
//
// Settings come from built-in defaults, then an optional pros-upload.yaml in
// the run directory (or the file named by PROS_UPLOAD_CONFIG), then
// environment variables. A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"prosupload/internal/artifact"
)

// FileName is the optional config file looked up in the run directory.
const FileName = "pros-upload.yaml"

// Environment variables.
const (
	EnvConfig    = "PROS_UPLOAD_CONFIG"
	EnvLogLevel  = "PROS_UPLOAD_LOG_LEVEL"
	EnvLogFormat = "PROS_UPLOAD_LOG_FORMAT"
)

// Tools are the external collaborators. Each entry is an argv prefix.
type Tools struct {
	Objcopy  []string `yaml:"objcopy"`
	Upload   []string `yaml:"upload"`
	Terminal []string `yaml:"terminal"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config models pros-upload.yaml.
type Config struct {
	Tools Tools `yaml:"tools"`
	Log   Log   `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Tools: Tools{
			Objcopy:  slices.Clone(artifact.DefaultObjcopy),
			Upload:   []string{"pros", "upload"},
			Terminal: []string{"pros", "terminal"},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load resolves the settings for a run in dir. getenv is usually os.Getenv.
func Load(dir string, getenv func(string) string) (Config, error) {
	cfg := Default()

	path := getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.merge(data); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}

// merge applies the keys present in a YAML document on top of cfg.
func (c *Config) merge(data []byte) error {
	var file struct {
		Tools struct {
			Objcopy  *[]string `yaml:"objcopy"`
			Upload   *[]string `yaml:"upload"`
			Terminal *[]string `yaml:"terminal"`
		} `yaml:"tools"`
		Log Log `yaml:"log"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for _, t := range []struct {
		key string
		src *[]string
		dst *[]string
	}{
		{"objcopy", file.Tools.Objcopy, &c.Tools.Objcopy},
		{"upload", file.Tools.Upload, &c.Tools.Upload},
		{"terminal", file.Tools.Terminal, &c.Tools.Terminal},
	} {
		if t.src == nil {
			continue
		}
		if len(*t.src) == 0 || strings.TrimSpace((*t.src)[0]) == "" {
			return fmt.Errorf("tools.%s must name a command", t.key)
		}
		*t.dst = *t.src
	}
	if file.Log.Level != "" {
		c.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		c.Log.Format = file.Log.Format
	}
	return nil
}
