package omap

import (
	"go-byoa/pkg/allocator"

	"github.com/sirupsen/logrus"
)

// ReplacePolicy decides what Insert does with a key that is already present.
type ReplacePolicy int

const (
	// ReplaceInPlace overwrites the value of the existing node.
	ReplaceInPlace ReplacePolicy = iota

	// ReplaceNode allocates a fresh node for the new value, puts it in the
	// exact tree position of the old one and frees the old node.
	ReplaceNode
)

func (p ReplacePolicy) String() string {
	switch p {
	case ReplaceInPlace:
		return "in-place"
	case ReplaceNode:
		return "node"
	default:
		return "unknown"
	}
}

type Options struct {
	// Allocator supplies node memory. Nil means heap.Default.
	Allocator allocator.Allocator
	Replace   ReplacePolicy
	Logger    logrus.FieldLogger
}
