// Package config resolves the CLI's runtime settings.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see Defaults).
//  2. An optional config.yaml in the home directory.
//  3. The DIARY_HOME environment variable.
//  4. Command-line flags, applied by the caller.
//
// Example config.yaml:
//
//	retries: 3
//	retry_delay: 250ms
//	quiet: true
//	format: json
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/diary/internal/retryx"
)

const (
	// FileName is the config file looked up in the home directory.
	FileName = "config.yaml"

	// EnvHome overrides the home directory.
	EnvHome = "DIARY_HOME"

	// FallbackHome is used when no user home directory can be found.
	FallbackHome = "/etc/diary-cli"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds everything the CLI needs before it opens an archive.
type Config struct {
	Home       string        `yaml:"home"`
	Retries    uint64        `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Verbose    bool          `yaml:"verbose"`
	Quiet      bool          `yaml:"quiet"`
	Format     string        `yaml:"format"`
}

// Getenv looks up an environment variable; os.Getenv in production.
type Getenv func(key string) string

// Defaults returns the built-in settings. The home directory is
// $HOME/.diary-cli, or FallbackHome when HOME is unset.
func Defaults(getenv Getenv) Config {
	home := FallbackHome
	if h := getenv("HOME"); h != "" {
		home = filepath.Join(h, ".diary-cli")
	}
	return Config{
		Home:       home,
		Retries:    retryx.DefaultAttempts,
		RetryDelay: retryx.DefaultDelay,
		Format:     FormatText,
	}
}

// Load applies defaults, the home directory's config file and the
// environment. homeFlag, when set, picks the home directory whose config
// file is read and wins over everything else.
func Load(getenv Getenv, homeFlag string) (Config, error) {
	cfg := Defaults(getenv)
	envHome := getenv(EnvHome)

	dir := cfg.Home
	switch {
	case homeFlag != "":
		dir = homeFlag
	case envHome != "":
		dir = envHome
	}

	if err := cfg.loadFile(filepath.Join(dir, FileName)); err != nil {
		return Config{}, err
	}

	if envHome != "" {
		cfg.Home = envHome
	}
	if homeFlag != "" {
		cfg.Home = homeFlag
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the CLI cannot run with.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("config: home directory is empty")
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("config: format must be %q or %q, got %q", FormatText, FormatJSON, c.Format)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("config: retry_delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}

// RetryPolicy turns the retry settings into a policy.
func (c Config) RetryPolicy() retryx.Policy {
	return retryx.Policy{Attempts: c.Retries, Delay: c.RetryDelay}
}
