// Package layout checks binary layout compatibility between Go types and
// reinterprets pointers between types whose size and alignment agree.
//
// A size or alignment disagreement is a defect in the program's layout
// assumptions, never a runtime condition, so Reinterpret does not return an
// error: it logs the mismatch at fatal level and the process exits.
package layout

import (
	"fmt"
	"reflect"
	"unsafe"

	"go-byoa/util/logger"
)

// MismatchError describes two types that can not alias each other.
type MismatchError struct {
	Src, Dst           reflect.Type
	SrcSize, DstSize   uintptr
	SrcAlign, DstAlign uintptr
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"layout mismatch: %v (size %d, align %d) vs %v (size %d, align %d)",
		e.Src, e.SrcSize, e.SrcAlign, e.Dst, e.DstSize, e.DstAlign,
	)
}

// fatal is swapped out by tests.
var fatal = func(err error) {
	logger.For("layout").WithError(err).Fatal("refusing to reinterpret pointer")
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func Size[T any]() uintptr {
	var v T
	return unsafe.Sizeof(v)
}

func Align[T any]() uintptr {
	var v T
	return unsafe.Alignof(v)
}

// Same reports whether Src and Dst have identical size and alignment.
func Same[Src, Dst any]() bool {
	return Size[Src]() == Size[Dst]() && Align[Src]() == Align[Dst]()
}

func Check[Src, Dst any]() error {
	if Same[Src, Dst]() {
		return nil
	}
	return &MismatchError{
		Src:      typeOf[Src](),
		Dst:      typeOf[Dst](),
		SrcSize:  Size[Src](),
		DstSize:  Size[Dst](),
		SrcAlign: Align[Src](),
		DstAlign: Align[Dst](),
	}
}

// Reinterpret returns p viewed as a *Dst. The address is unchanged.
func Reinterpret[Src, Dst any](p *Src) *Dst {
	if err := Check[Src, Dst](); err != nil {
		fatal(err)
		panic(err)
	}
	return (*Dst)(unsafe.Pointer(p))
}

// Bytes views the memory of *p as a byte slice of Size[T]() bytes. The slice
// aliases p.
func Bytes[T any](p *T) []byte {
	n := Size[T]()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}

// Load copies the leading Size[T]() bytes of b into a fresh T. Missing
// trailing bytes are left zero. T must not contain pointers.
func Load[T any](b []byte) T {
	var v T
	copy(Bytes(&v), b)
	return v
}
