package config

import (
	"go-byoa/pkg/allocator"
	"go-byoa/pkg/allocator/heap"
	"go-byoa/pkg/allocator/pool"
	"go-byoa/util/logger"

	"github.com/pkg/errors"
)

const (
	AllocatorHeap    = "heap"
	AllocatorPool    = "pool"
	AllocatorDefault = "default"
)

type AllocatorConfig struct {
	// Kind is one of "default" (the shared heap allocator), "heap" or "pool".
	Kind string `yaml:"kind" json:"kind"`

	// Limit caps live bytes of a heap allocator.
	Limit uint64 `yaml:"limit" json:"limit"`

	SlabBlocks int `yaml:"slab_blocks" json:"slab_blocks"`
	MaxSlabs   int `yaml:"max_slabs" json:"max_slabs"`
}

func NewAllocatorConfig() *AllocatorConfig {
	return &AllocatorConfig{
		Kind:       AllocatorDefault,
		SlabBlocks: pool.DefaultSlabBlocks,
	}
}

func (c *AllocatorConfig) Validate() error {
	switch c.Kind {
	case AllocatorDefault, AllocatorHeap, AllocatorPool:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown allocator kind '%s'", c.Kind)
	}

	if c.SlabBlocks < 0 || c.MaxSlabs < 0 {
		return errors.Wrap(ErrInvalidConfig, "slab counts must not be negative")
	}
	if c.Limit > uint64(^uintptr(0)) {
		return errors.Wrapf(ErrInvalidConfig, "limit %d does not fit the address space", c.Limit)
	}
	if c.Kind != AllocatorHeap && c.Limit > 0 {
		return errors.Wrapf(ErrInvalidConfig, "limit only applies to the '%s' allocator", AllocatorHeap)
	}
	return nil
}

func (c *AllocatorConfig) Build() (allocator.Allocator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Kind {
	case AllocatorHeap:
		return heap.New(&heap.Options{
			Limit:  uintptr(c.Limit),
			Logger: logger.For(AllocatorHeap),
		}), nil
	case AllocatorPool:
		return pool.New(&pool.Options{
			SlabBlocks: c.SlabBlocks,
			MaxSlabs:   c.MaxSlabs,
			Logger:     logger.For(AllocatorPool),
		}), nil
	default:
		return heap.Default, nil
	}
}
