package layout

import (
	"os"
	"os/exec"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type pair struct {
	A uint32
	B uint32
}

type word struct {
	W uint64
}

type wide struct {
	A, B, C uint64
}

type bytes8 [8]byte

func withFatalPanics(t *testing.T) {
	t.Helper()
	prev := fatal
	fatal = func(err error) { panic(err) }
	t.Cleanup(func() { fatal = prev })
}

func TestReinterpretSameLayout(t *testing.T) {
	withFatalPanics(t)

	p := &pair{A: 1, B: 2}
	q := Reinterpret[pair, [2]uint32](p)
	require.Equal(t, unsafe.Pointer(p), unsafe.Pointer(q))
	require.Equal(t, [2]uint32{1, 2}, *q)

	q[1] = 7
	require.Equal(t, uint32(7), p.B)
}

func TestReinterpretNil(t *testing.T) {
	withFatalPanics(t)
	require.Nil(t, Reinterpret[pair, [2]uint32](nil))
}

func TestReinterpretSizeMismatch(t *testing.T) {
	withFatalPanics(t)

	require.Panics(t, func() {
		Reinterpret[word, wide](&word{})
	})
}

func TestReinterpretAlignMismatch(t *testing.T) {
	withFatalPanics(t)

	// same size, different alignment
	require.Equal(t, Size[word](), Size[bytes8]())
	require.NotEqual(t, Align[word](), Align[bytes8]())
	require.Panics(t, func() {
		Reinterpret[bytes8, word](&bytes8{})
	})
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check[pair, [2]uint32]())
	require.True(t, Same[pair, [2]uint32]())
	require.False(t, Same[pair, word]())

	err := Check[word, wide]()
	require.Error(t, err)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uintptr(8), mismatch.SrcSize)
	require.Equal(t, uintptr(24), mismatch.DstSize)
	require.Contains(t, err.Error(), "layout.wide")
}

func TestBytesAndLoad(t *testing.T) {
	p := pair{A: 0x01020304, B: 0x05060708}
	b := Bytes(&p)
	require.Len(t, b, 8)

	got := Load[pair](b)
	require.Equal(t, p, got)

	short := Load[pair](b[:4])
	require.Equal(t, p.A, short.A)
	require.Zero(t, short.B)

	require.Nil(t, Bytes(&struct{}{}))
}

// The mismatch path ends the process, so it runs in a re-executed copy of the
// test binary.
func TestReinterpretMismatchExits(t *testing.T) {
	if os.Getenv("LAYOUT_REINTERPRET_CHILD") == "1" {
		Reinterpret[word, wide](&word{})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestReinterpretMismatchExits$")
	cmd.Env = append(os.Environ(), "LAYOUT_REINTERPRET_CHILD=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "child output:\n%s", out)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, string(out), "FATAL")
	require.Contains(t, string(out), "refusing to reinterpret pointer")
	require.Contains(t, string(out), "layout.word (size 8, align 8) vs layout.wide (size 24, align 8)")
}
