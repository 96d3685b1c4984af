package pool

import "github.com/sirupsen/logrus"

const DefaultSlabBlocks = 64

type Options struct {
	// SlabBlocks is the number of blocks carved out of each slab.
	SlabBlocks int

	// MaxSlabs bounds the slab count across all size classes. Zero means no
	// bound.
	MaxSlabs int

	Logger logrus.FieldLogger
}
