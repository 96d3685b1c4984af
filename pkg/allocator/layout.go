package allocator

import (
	"fmt"
	"reflect"

	"go-byoa/pkg/layout"

	"github.com/pkg/errors"
)

// Layout describes one block: its byte size, its alignment and, optionally,
// the Go type that will live in it.
type Layout struct {
	Size  uintptr
	Align uintptr
	Type  reflect.Type
}

// LayoutOf returns the layout of one T.
func LayoutOf[T any]() Layout {
	return Layout{
		Size:  layout.Size[T](),
		Align: layout.Align[T](),
		Type:  reflect.TypeOf((*T)(nil)).Elem(),
	}
}

// Raw returns an untyped layout. Blocks allocated with it must not hold Go
// pointers.
func Raw(size, align uintptr) Layout {
	return Layout{Size: size, Align: align}
}

func (l Layout) Validate() error {
	if l.Size == 0 {
		return ErrZeroSize
	}
	if l.Align == 0 || l.Align&(l.Align-1) != 0 {
		return errors.Wrapf(ErrInvalidAlign, "align %d", l.Align)
	}
	if l.Type != nil && (l.Type.Size() != l.Size || uintptr(l.Type.Align()) != l.Align) {
		return errors.Wrapf(ErrLayoutMismatch, "%v is size %d align %d, layout says size %d align %d",
			l.Type, l.Type.Size(), l.Type.Align(), l.Size, l.Align)
	}
	return nil
}

// Stride is the distance between consecutive blocks of this layout.
func (l Layout) Stride() uintptr {
	return AlignUp(l.Size, l.Align)
}

// Same reports whether two layouts describe identical blocks.
func (l Layout) Same(o Layout) bool {
	return l.Size == o.Size && l.Align == o.Align && l.Type == o.Type
}

func (l Layout) String() string {
	if l.Type == nil {
		return fmt.Sprintf("{size:%d, align:%d}", l.Size, l.Align)
	}
	return fmt.Sprintf("{size:%d, align:%d, type:%v}", l.Size, l.Align, l.Type)
}
