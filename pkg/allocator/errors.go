package allocator

import "errors"

var (
	// ErrOutOfMemory is returned by Allocate when the request can not be
	// satisfied.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrZeroSize is returned for layouts that describe no memory.
	ErrZeroSize = errors.New("zero size layout")

	// ErrInvalidAlign is returned for alignments that are not a power of two.
	ErrInvalidAlign = errors.New("alignment is not a power of two")

	// ErrLayoutMismatch marks a layout that disagrees with its type, or a
	// free whose layout differs from the allocation.
	ErrLayoutMismatch = errors.New("layout mismatch")

	// ErrInvalidPointer marks a free of a block the allocator does not own.
	ErrInvalidPointer = errors.New("invalid pointer")
)
