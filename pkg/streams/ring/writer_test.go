package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(b *Buffer) string {
	out := make([]byte, b.Cap())
	return string(out[:b.PeekInto(0, out)])
}

func TestReserveInvisibleUntilCommitted(t *testing.T) {
	b := New(8)
	w, err := b.Reserve(3)
	require.NoError(t, err)
	require.Equal(t, 5, b.Available())
	require.NoError(t, w.WriteByte('a'))
	require.NoError(t, w.WriteByte('b'))
	require.Equal(t, 0, b.Size())
	require.Equal(t, 1, w.Remaining())
	require.NoError(t, w.WriteByte('c'))
	require.Equal(t, 3, b.Size())
	require.Equal(t, "abc", readAll(b))
	require.Equal(t, ErrFull, w.WriteByte('d'))
}

func TestReserveRejected(t *testing.T) {
	b := New(4)
	b.WriteString("ab")
	_, err := b.Reserve(3)
	require.Equal(t, ErrFull, err)
	w, err := b.Reserve(2)
	require.NoError(t, err)
	_, err = b.Reserve(0)
	require.Equal(t, ErrBusy, err)
	require.Equal(t, ErrFull, b.Push('x'))
	w.Abort()
	require.Equal(t, 2, b.Available())
	require.Equal(t, "ab", readAll(b))
}

func TestReserveZero(t *testing.T) {
	b := New(2)
	w, err := b.Reserve(0)
	require.NoError(t, err)
	require.Equal(t, 0, w.Remaining())
	_, err = b.Reserve(1)
	require.NoError(t, err)
}

func TestPushDuringReservation(t *testing.T) {
	b := New(6)
	b.WriteString("xyz")
	b.Drop(3)
	w, err := b.Reserve(2)
	require.NoError(t, err)
	require.NoError(t, w.WriteByte('a'))
	require.NoError(t, b.Push('p'))
	require.Equal(t, "p", readAll(b))
	require.NoError(t, w.WriteByte('b'))
	require.Equal(t, "pab", readAll(b))
}

func TestPushesDuringReservationWrapAround(t *testing.T) {
	b := New(8)
	b.WriteString("abcdef")
	b.Drop(5)
	w, err := b.Reserve(4)
	require.NoError(t, err)
	for _, v := range []byte("WXY") {
		require.NoError(t, w.WriteByte(v))
	}
	require.NoError(t, b.Push('g'))
	require.NoError(t, b.Push('h'))
	require.NoError(t, b.Push('i'))
	require.Equal(t, ErrFull, b.Push('j'))
	require.Equal(t, "fghi", readAll(b))
	require.NoError(t, w.WriteByte('Z'))
	require.Equal(t, "fghiWXYZ", readAll(b))
}

func TestPartialCommit(t *testing.T) {
	b := New(4)
	w, err := b.Reserve(3)
	require.NoError(t, err)
	require.NoError(t, w.WriteByte('a'))
	w.Commit()
	require.Equal(t, "a", readAll(b))
	require.Equal(t, 3, b.Available())
}
