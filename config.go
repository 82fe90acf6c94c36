package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sergev/mini/lang"
)

// Config holds the optional settings read from ~/.minirc.yaml.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	Color              *bool  `yaml:"color"`
	MaxDepth           int    `yaml:"max_depth"`
}

func defaultConfig() *Config {
	enabled := true
	cfg := &Config{
		Prompt:             "mini> ",
		ContinuationPrompt: ".... ",
		Color:              &enabled,
		MaxDepth:           lang.DefaultMaxDepth,
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		cfg.HistoryFile = filepath.Join(home, ".mini_history")
	}
	return cfg
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".minirc.yaml")
}

// loadConfig reads path over the defaults. A missing file is only an error
// when it was named explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw Config
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.merge(&raw)
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("config: %s: max_depth must not be negative", path)
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Prompt != "" {
		c.Prompt = o.Prompt
	}
	if o.ContinuationPrompt != "" {
		c.ContinuationPrompt = o.ContinuationPrompt
	}
	if o.HistoryFile != "" {
		c.HistoryFile = expandHome(o.HistoryFile)
	}
	if o.Color != nil {
		c.Color = o.Color
	}
	if o.MaxDepth != 0 {
		c.MaxDepth = o.MaxDepth
	}
}

func (c *Config) colorEnabled() bool {
	return c.Color == nil || *c.Color
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}
