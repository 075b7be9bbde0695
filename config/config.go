// Package config loads the store's three constructor-time constants
// (§6's configuration surface) from a TOML file. It is deliberately
// decoupled from package ecscore: an embedder that only wants the
// in-memory engine never pays for the toml dependency this package
// pulls in.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the store's page-size and bitmap-width constants.
type Config struct {
	EntityPageSize  int `toml:"entity_page_size"`
	PoolPageSize    int `toml:"pool_page_size"`
	BitmapWordWidth int `toml:"bitmap_word_width"`
}

// Default returns the spec's default configuration: 1024-entry
// directory and pool pages, 64-bit bitmap words.
func Default() *Config {
	return &Config{
		EntityPageSize:  1024,
		PoolPageSize:    1024,
		BitmapWordWidth: 64,
	}
}

// Load reads and parses a TOML file at path, starting from Default()
// so any field the file omits keeps its default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate enforces §6's constraints: every size a power of two, and
// the pool page size a multiple of the bitmap word width.
func (c *Config) Validate() error {
	if !isPowerOfTwo(c.EntityPageSize) {
		return fmt.Errorf("%w: entity_page_size %d is not a power of two", ErrInvalid, c.EntityPageSize)
	}
	if !isPowerOfTwo(c.PoolPageSize) {
		return fmt.Errorf("%w: pool_page_size %d is not a power of two", ErrInvalid, c.PoolPageSize)
	}
	if !isPowerOfTwo(c.BitmapWordWidth) {
		return fmt.Errorf("%w: bitmap_word_width %d is not a power of two", ErrInvalid, c.BitmapWordWidth)
	}
	if c.PoolPageSize%c.BitmapWordWidth != 0 {
		return fmt.Errorf("%w: pool_page_size %d is not a multiple of bitmap_word_width %d", ErrInvalid, c.PoolPageSize, c.BitmapWordWidth)
	}
	return nil
}
