//go:build linux && (amd64 || arm64)

package abi

import (
	"time"
	"unsafe"

	"go-byoa/pkg/layout"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// struct timespec
type Timespec struct {
	Sec  int64
	Nsec int64
}

// struct timeval
type Timeval struct {
	Sec  int64
	Usec int64
}

// struct rlimit
type Rlimit struct {
	Cur uint64
	Max uint64
}

// Out-of-range constant indexes fail the build when the layouts drift apart.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(Timespec{})-unsafe.Sizeof(unix.Timespec{})]
	_ = [1]struct{}{}[unsafe.Alignof(Timespec{})-unsafe.Alignof(unix.Timespec{})]
	_ = [1]struct{}{}[unsafe.Sizeof(Timeval{})-unsafe.Sizeof(unix.Timeval{})]
	_ = [1]struct{}{}[unsafe.Alignof(Timeval{})-unsafe.Alignof(unix.Timeval{})]
	_ = [1]struct{}{}[unsafe.Sizeof(Rlimit{})-unsafe.Sizeof(unix.Rlimit{})]
	_ = [1]struct{}{}[unsafe.Alignof(Rlimit{})-unsafe.Alignof(unix.Rlimit{})]
)

func (ts *Timespec) Sys() *unix.Timespec {
	return layout.Reinterpret[Timespec, unix.Timespec](ts)
}

func TimespecFromSys(ts *unix.Timespec) *Timespec {
	return layout.Reinterpret[unix.Timespec, Timespec](ts)
}

func (ts Timespec) Duration() time.Duration {
	return time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec)
}

func (tv *Timeval) Sys() *unix.Timeval {
	return layout.Reinterpret[Timeval, unix.Timeval](tv)
}

func TimevalFromSys(tv *unix.Timeval) *Timeval {
	return layout.Reinterpret[unix.Timeval, Timeval](tv)
}

func (tv Timeval) Duration() time.Duration {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}

func (r *Rlimit) Sys() *unix.Rlimit {
	return layout.Reinterpret[Rlimit, unix.Rlimit](r)
}

// ClockGettime reads the given clock, e.g. unix.CLOCK_MONOTONIC.
func ClockGettime(clock int32) (Timespec, error) {
	var ts Timespec
	if err := unix.ClockGettime(clock, ts.Sys()); err != nil {
		return ts, errors.Wrapf(err, "clock_gettime(%d)", clock)
	}
	return ts, nil
}

func Gettimeofday() (Timeval, error) {
	var tv Timeval
	if err := unix.Gettimeofday(tv.Sys()); err != nil {
		return tv, errors.Wrap(err, "gettimeofday")
	}
	return tv, nil
}

// Getrlimit reads a resource limit, e.g. unix.RLIMIT_NOFILE.
func Getrlimit(resource int) (Rlimit, error) {
	var r Rlimit
	if err := unix.Getrlimit(resource, r.Sys()); err != nil {
		return r, errors.Wrapf(err, "getrlimit(%d)", resource)
	}
	return r, nil
}
