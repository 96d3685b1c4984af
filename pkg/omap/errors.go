package omap

import "errors"

// ErrBadBlock is returned when the allocator hands back a block the map can
// not store a node in.
var ErrBadBlock = errors.New("allocator returned an unusable block")
