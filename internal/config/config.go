// Package config resolves runtime settings from defaults, an optional YAML
// file and WATERFALL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/waterfall/internal/llm"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig = "WATERFALL_CONFIG"
	EnvDB     = "WATERFALL_DB"
	EnvLog    = "WATERFALL_LOG"

	dirName = ".waterfall"
)

// Config is the full set of runtime settings.
type Config struct {
	DBPath  string        `yaml:"db"`
	LogPath string        `yaml:"log"`
	LLM     llm.LLMConfig `yaml:"llm"`

	// Source is the file the settings were read from, empty when none.
	Source string `yaml:"-"`
}

// Default returns settings rooted at home.
func Default(home string) Config {
	return Config{
		DBPath: filepath.Join(home, dirName, "waterfall.db"),
		LLM:    llm.DefaultConfig(),
	}
}

// Load builds the effective configuration. A missing config file is not an
// error; an unreadable or malformed one is.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Default(home)

	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, dirName, "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads settings from path on top of defaults, without consulting
// the environment.
func LoadFile(home, path string) (Config, error) {
	cfg := Default(home)
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	// Decoding into the populated struct keeps defaults for absent keys.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.LogPath = v
	}
	llm.ApplyEnv(&c.LLM)
}
