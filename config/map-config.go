package config

import (
	"go-byoa/pkg/allocator"
	"go-byoa/pkg/omap"

	"github.com/pkg/errors"
)

type MapConfig struct {
	// Replace is "in-place" or "node".
	Replace string `yaml:"replace" json:"replace"`
}

func NewMapConfig() *MapConfig {
	return &MapConfig{Replace: omap.ReplaceInPlace.String()}
}

func (c *MapConfig) policy() (omap.ReplacePolicy, error) {
	for _, p := range []omap.ReplacePolicy{omap.ReplaceInPlace, omap.ReplaceNode} {
		if p.String() == c.Replace {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown replace policy '%s'", c.Replace)
}

func (c *MapConfig) Validate() error {
	_, err := c.policy()
	return err
}

// Options returns map options using alloc.
func (c *MapConfig) Options(alloc allocator.Allocator) (*omap.Options, error) {
	p, err := c.policy()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build map options")
	}
	return &omap.Options{
		Allocator: alloc,
		Replace:   p,
	}, nil
}
