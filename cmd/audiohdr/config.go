package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// config holds the CLI settings. Values come from defaults, then an
// optional YAML file, then flags the user set explicitly.
type config struct {
	Output   string `yaml:"output"`
	Digest   string `yaml:"digest"`
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
	Watch    string `yaml:"watch"`
	Strict   bool   `yaml:"strict"`
}

func defaultConfig() config {
	return config{
		Output:   "text",
		Digest:   "sha1",
		LogLevel: "warn",
	}
}

// loadConfigFile decodes path over cfg. Unknown keys are an error so a
// typo does not silently fall back to a default.
func loadConfigFile(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c config) validate() error {
	switch c.Output {
	case "text", "json", "yaml", "cbor":
	default:
		return fmt.Errorf("unknown output %q (want text, json, yaml or cbor)", c.Output)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return level, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
