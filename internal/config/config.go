package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config carries runtime options for myfetch. It is built once and passed
// explicitly to the scanner, reporter and formatter.
type Config struct {
	Colors         bool
	Icons          bool
	TopLimit       int
	CommandTimeout time.Duration
	LogLevel       string
	LogFile        string
}

func Default() Config {
	return Config{
		Colors:         true,
		Icons:          false,
		TopLimit:       5,
		CommandTimeout: 2 * time.Second,
		LogLevel:       "warn",
	}
}

// DefaultPath is the preference file location, ~/.config/myfetch/config.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "myfetch", "config")
}

// preferences mirrors the on-disk JSON file. Pointers distinguish an
// absent key from a zero value.
type preferences struct {
	Icons          *bool   `json:"icons"`
	Colors         *bool   `json:"colors"`
	TopLimit       *int    `json:"top_limit"`
	CommandTimeout *string `json:"command_timeout"`
}

// Load returns the defaults merged with the preference file at path and
// then with environment overrides. A missing file is not an error; a
// malformed one is reported but the returned Config is still usable.
func Load(path string) (Config, error) {
	cfg := Default()
	err := cfg.mergeFile(path)
	cfg.mergeEnv()
	return cfg, err
}

func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	var p preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse preferences %s: %w", path, err)
	}
	if p.Icons != nil {
		c.Icons = *p.Icons
	}
	if p.Colors != nil {
		c.Colors = *p.Colors
	}
	if p.TopLimit != nil && *p.TopLimit > 0 {
		c.TopLimit = *p.TopLimit
	}
	if p.CommandTimeout != nil {
		if d, err := time.ParseDuration(*p.CommandTimeout); err == nil && d > 0 {
			c.CommandTimeout = d
		}
	}
	return nil
}

func (c *Config) mergeEnv() {
	if v, ok := envBool("MYFETCH_ICONS"); ok {
		c.Icons = v
	}
	if v, ok := envBool("MYFETCH_COLORS"); ok {
		c.Colors = v
	}
	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		c.Colors = false
	}
	if v := os.Getenv("MYFETCH_TOP_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TopLimit = n
		}
	}
	if v := os.Getenv("MYFETCH_COMMAND_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.CommandTimeout = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil && parsed > 0 {
			c.CommandTimeout = parsed
		}
	}
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
