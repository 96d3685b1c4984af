package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go-byoa/pkg/allocator"
	"go-byoa/pkg/omap"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type AppConfig struct {
	Allocator *AllocatorConfig `yaml:"allocator" json:"allocator"`
	Map       *MapConfig       `yaml:"map" json:"map"`
	Log       *LogConfig       `yaml:"log" json:"log"`
}

func New() *AppConfig {
	return &AppConfig{
		Allocator: NewAllocatorConfig(),
		Map:       NewMapConfig(),
		Log:       NewLogConfig(),
	}
}

// Load reads a YAML (.yaml, .yml) or JSON (.json) file on top of the
// defaults and validates the result.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unsupported config format '%s'", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse '%s'", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Allocator == nil {
		c.Allocator = NewAllocatorConfig()
	}
	if c.Map == nil {
		c.Map = NewMapConfig()
	}
	if c.Log == nil {
		c.Log = NewLogConfig()
	}

	if err := c.Allocator.Validate(); err != nil {
		return errors.Wrap(err, "allocator")
	}
	if err := c.Map.Validate(); err != nil {
		return errors.Wrap(err, "map")
	}
	return errors.Wrap(c.Log.Validate(), "log")
}

// MapOptions builds omap options backed by a freshly built allocator.
func (c *AppConfig) MapOptions() (*omap.Options, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	alloc, err := c.Allocator.Build()
	if err != nil {
		return nil, err
	}
	return c.Map.Options(alloc)
}

// BuildAllocator validates the config and builds its allocator.
func (c *AppConfig) BuildAllocator() (allocator.Allocator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Allocator.Build()
}
