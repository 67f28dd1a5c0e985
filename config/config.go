// Package config loads the tunables of the runtime tools from hujson
// (JWCC) files, so config files may carry comments and trailing
// commas.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/skein-dev/skein"
)

// Config carries the tunables of the runtime and its tools. Zero
// fields fall back to the defaults, which match the built-in
// constants.
type Config struct {
	StackSize int    `json:"stackSize"` // per-coroutine stack ceiling in bytes
	TableCap  int    `json:"tableCap"`  // initial coroutine table capacity
	Listen    string `json:"listen"`    // inspector daemon listen address
}

const DefaultListen = "localhost:2519"

func Default() Config {
	return Config{
		StackSize: skein.StackSize,
		TableCap:  skein.DefaultCap,
		Listen:    DefaultListen,
	}
}

// Open opens a scheduler with the configured stack ceiling and table
// capacity.
func (c Config) Open() *skein.Schedule {
	return skein.OpenWith(c.StackSize, c.TableCap)
}

// Parse decodes a hujson config document, filling absent or zero
// fields with defaults.
func Parse(b []byte) (c Config, err error) {
	std, err := hujson.Standardize(b)
	if err != nil {
		return Config{}, fmt.Errorf("error standardising config: %w", err)
	}

	c = Default()
	if err = json.Unmarshal(std, &c); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	if c.StackSize <= 0 {
		c.StackSize = skein.StackSize
	}
	if c.TableCap <= 0 {
		c.TableCap = skein.DefaultCap
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	return
}

// Load parses the config file at path. A missing file yields the
// defaults.
func Load(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("error reading config: %w", err)
	}

	return Parse(b)
}
