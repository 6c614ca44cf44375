// Package config holds the settings a sift session runs with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// URL text extraction strategies.
const (
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
	ExtractorPage        = "page"
)

// Config is passed to the workflow at construction time.
type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	URLExtractor string        `yaml:"url_extractor"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// TablePreviewRows caps how many rows the terminal table shows; 0 shows all.
	TablePreviewRows int `yaml:"table_preview_rows"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		InputDir:         "input",
		OutputDir:        "output",
		HTTPTimeout:      30 * time.Second,
		URLExtractor:     ExtractorReadability,
		UserAgent:        "sift/1.0",
		MaxBodyBytes:     10 << 20,
		TablePreviewRows: 0,
		LogFile:          filepath.Join(StateDir(), "sift.log"),
		LogLevel:         "info",
	}
}

// Load reads a YAML file on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.InputDir == "":
		return errors.New("input_dir must not be empty")
	case c.OutputDir == "":
		return errors.New("output_dir must not be empty")
	case c.HTTPTimeout <= 0:
		return errors.New("http_timeout must be positive")
	case c.MaxBodyBytes <= 0:
		return errors.New("max_body_bytes must be positive")
	case c.TablePreviewRows < 0:
		return errors.New("table_preview_rows must not be negative")
	}
	switch c.URLExtractor {
	case ExtractorReadability, ExtractorTrafilatura, ExtractorPage:
	default:
		return fmt.Errorf("unknown url_extractor %q", c.URLExtractor)
	}
	return nil
}

// EnsureDirs creates the input and output directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.InputDir, c.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// StateDir returns XDG_STATE_HOME/sift or ~/.local/state/sift
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sift")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "sift")
}
