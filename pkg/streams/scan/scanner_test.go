package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/streams.go/pkg/streams/chunk"
	"github.com/robotalks/streams.go/pkg/streams/ring"
)

type target struct {
	ch      uint8
	word    uint16
	chunks  *chunk.Store
	invoked int
}

func newTarget(capacity int) *target {
	return &target{chunks: chunk.NewSize(capacity)}
}

func bufferOf(capacity int, s string) *ring.Buffer {
	b := ring.New(capacity)
	b.WriteString(s)
	return b
}

func contents(b *ring.Buffer) string {
	out := make([]byte, b.Size())
	return string(out[:b.PeekInto(0, out)])
}

func dataFormat() Format[target] {
	return NewFormat[target]().
		Token("DATA").
		Chunk(func(t *target) *chunk.Store { return t.chunks },
			NewFormat[target]().Token(":"))
}

func dataScanner(t *testing.T) *Scanner[target] {
	s, err := New(On(dataFormat(), func(t *target) { t.invoked++ }))
	require.NoError(t, err)
	return s
}

func failHandler(t *testing.T) func(*target) {
	return func(*target) { t.Fatal("unexpected branch") }
}

func TestTokenWithScalar(t *testing.T) {
	tgt := newTarget(8)
	src := bufferOf(16, "abcdef")
	s := MustNew(
		On(NewFormat[target]().Token("abd"), failHandler(t)),
		On(NewFormat[target]().Token("cde").Uint8(func(t *target) *uint8 { return &t.ch }),
			func(t *target) { t.invoked++ }),
		On(NewFormat[target]().Token("e"), failHandler(t)),
	)
	res := s.Scan(src, tgt)
	require.Equal(t, Matched, res.Outcome)
	require.Equal(t, 1, res.Branch)
	require.Equal(t, 2, res.Dropped)
	require.Equal(t, 4, res.Consumed)
	require.Equal(t, byte('f'), tgt.ch)
	require.Equal(t, 1, tgt.invoked)
	require.Equal(t, 0, src.Size())
	require.NoError(t, res.Err())
}

func TestChunkWithPrefixAndSeparator(t *testing.T) {
	tgt := newTarget(24)
	src := bufferOf(24, "+++DATA5:abcde+++")
	res := dataScanner(t).Scan(src, tgt)
	require.True(t, res.Matched())
	require.Equal(t, 1, tgt.invoked)
	require.Equal(t, 6, tgt.chunks.Size())
	require.Equal(t, "+++", contents(src))

	payload, err := tgt.chunks.ReadChunk(nil)
	require.NoError(t, err)
	require.Equal(t, "abcde", string(payload))
}

func TestChunkWithTwoDigitLength(t *testing.T) {
	tgt := newTarget(40)
	src := bufferOf(40, "+++DATA10:abcdefghij+++")
	res := dataScanner(t).Scan(src, tgt)
	require.True(t, res.Matched())
	require.Equal(t, 11, tgt.chunks.Size())
	require.Equal(t, 3, src.Size())
}

func TestOversizedChunkIsConsumedAndDiscarded(t *testing.T) {
	tgt := newTarget(40)
	src := ring.New(254)
	src.WriteString("DATA240:")
	for i := 0; i < 240; i++ {
		require.NoError(t, src.Push(byte(i)))
	}
	res := dataScanner(t).Scan(src, tgt)
	require.True(t, res.Matched())
	require.Equal(t, 1, tgt.invoked)
	require.Equal(t, 1, res.Rejected)
	require.Equal(t, 248, res.Consumed)
	require.Equal(t, chunk.ErrRejected, res.Err())
	require.True(t, tgt.chunks.IsEmpty())
	require.Equal(t, 0, src.Size())
}

func TestChunkNotReadOnIncorrectSeparator(t *testing.T) {
	tgt := newTarget(24)
	src := bufferOf(24, "+++DATA5_abcde+++")
	s := MustNew(On(dataFormat(), failHandler(t)))
	res := s.Scan(src, tgt)
	require.False(t, res.Matched())
	require.Equal(t, Discarded, res.Outcome)
	require.Equal(t, ErrNoMatch, res.Err())
	require.True(t, tgt.chunks.IsEmpty())
}

func TestIncompleteChunkRetainedUntilDataAvailable(t *testing.T) {
	tgt := newTarget(24)
	s := dataScanner(t)
	src := bufferOf(24, "+++DA")

	res := s.Scan(src, tgt)
	require.Equal(t, Pending, res.Outcome)
	require.Equal(t, 3, res.Dropped)
	require.Equal(t, 2, src.Size())

	src.WriteString("TA5:abc")
	s.Scan(src, tgt)
	require.Equal(t, 9, src.Size())

	src.WriteString("de+++")
	require.True(t, s.Scan(src, tgt).Matched())
	require.Equal(t, 3, src.Size())
	require.Equal(t, 6, tgt.chunks.Size())
}

func TestFirstBranchWinsOverLongerBranch(t *testing.T) {
	for _, second := range []string{"BOOHOO", "+OOHOO"} {
		t.Run(second, func(t *testing.T) {
			tgt := newTarget(4)
			src := bufferOf(24, "+DATA")
			s := MustNew(
				On(NewFormat[target]().Token("DATA"), func(t *target) { t.invoked++ }),
				On(NewFormat[target]().Token(second), failHandler(t)),
			)
			res := s.Scan(src, tgt)
			require.True(t, res.Matched())
			require.Equal(t, 0, res.Branch)
			require.Equal(t, 1, res.Dropped)
			require.Equal(t, 1, tgt.invoked)
			require.Equal(t, 0, src.Size())
		})
	}
}

func TestDeclarationOrderOnSameByte(t *testing.T) {
	src := bufferOf(8, "AB")
	s := MustNew(
		On(NewFormat[target]().Token("AB"), nil),
		On(NewFormat[target]().Token("A").Uint8(func(t *target) *uint8 { return &t.ch }), nil),
	)
	res := s.Scan(src, newTarget(4))
	require.Equal(t, 0, res.Branch)

	src.WriteString("AB")
	s = MustNew(
		On(NewFormat[target]().Token("A").Uint8(func(t *target) *uint8 { return &t.ch }), nil),
		On(NewFormat[target]().Token("AB"), nil),
	)
	tgt := newTarget(4)
	res = s.Scan(src, tgt)
	require.Equal(t, 0, res.Branch)
	require.Equal(t, byte('B'), tgt.ch)
}

func TestCorrectPrefixIsNotDropped(t *testing.T) {
	tgt := newTarget(4)
	s := MustNew(On(NewFormat[target]().Token("DATA"), func(t *target) { t.invoked++ }))
	src := bufferOf(24, "+DA")
	s.Scan(src, tgt)
	require.Equal(t, "DA", contents(src))
	src.WriteString("TA")
	require.True(t, s.Scan(src, tgt).Matched())
	require.Equal(t, 1, tgt.invoked)
}

func TestChunkDeliveredOneByteAtATime(t *testing.T) {
	tgt := newTarget(24)
	s := dataScanner(t)
	src := ring.New(24)
	input := "+DATA3:abc"
	expect := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 0}
	for n := range input {
		require.NoError(t, src.Push(input[n]))
		res := s.Scan(src, tgt)
		require.Equal(t, expect[n], src.Size(), "after %q", input[:n+1])
		if n < len(input)-1 {
			require.False(t, res.Matched(), "after %q", input[:n+1])
			require.Equal(t, 0, tgt.invoked)
		} else {
			require.True(t, res.Matched())
		}
	}
	require.Equal(t, 1, tgt.invoked)
	require.Equal(t, 4, tgt.chunks.Size())
}

func TestNoProgressIsIdempotent(t *testing.T) {
	tgt := newTarget(24)
	s := dataScanner(t)
	src := bufferOf(24, "xxDATA12:abc")
	first := s.Scan(src, tgt)
	require.Equal(t, Pending, first.Outcome)
	require.Equal(t, 2, first.Dropped)
	size := src.Size()
	for i := 0; i < 3; i++ {
		res := s.Scan(src, tgt)
		require.Equal(t, Pending, res.Outcome)
		require.Equal(t, 0, res.Dropped)
		require.Equal(t, size, src.Size())
	}
}

func TestDiscardedBytesNeverMatch(t *testing.T) {
	tgt := newTarget(24)
	s := dataScanner(t)
	src := bufferOf(24, "DAT")
	s.Scan(src, tgt)
	src.WriteString("X")
	res := s.Scan(src, tgt)
	require.Equal(t, Discarded, res.Outcome)
	require.Equal(t, 0, src.Size())
	src.WriteString("A1:z")
	res = s.Scan(src, tgt)
	require.False(t, res.Matched())
	require.Equal(t, 0, tgt.invoked)
}

func TestEmptySource(t *testing.T) {
	res := dataScanner(t).Scan(ring.New(4), newTarget(4))
	require.Equal(t, Pending, res.Outcome)
	require.Equal(t, -1, res.Branch)
	require.Equal(t, 0, res.Dropped)
}

func TestZeroLengthChunk(t *testing.T) {
	tgt := newTarget(8)
	src := bufferOf(16, "DATA0:rest")
	res := dataScanner(t).Scan(src, tgt)
	require.True(t, res.Matched())
	require.Equal(t, 1, tgt.chunks.Size())
	require.Equal(t, "rest", contents(src))
}

func TestChunkRequiresDigits(t *testing.T) {
	tgt := newTarget(8)
	src := bufferOf(16, "DATA:ab")
	res := dataScanner(t).Scan(src, tgt)
	require.Equal(t, Discarded, res.Outcome)
	require.True(t, tgt.chunks.IsEmpty())
}

func TestChunkLargerThanSourceFails(t *testing.T) {
	tgt := newTarget(8)
	src := bufferOf(16, "DATA99:abc")
	res := dataScanner(t).Scan(src, tgt)
	require.Equal(t, Discarded, res.Outcome)
	require.Equal(t, 0, src.Size())
}

func TestScalarsLittleAndBigEndian(t *testing.T) {
	src := ring.New(16)
	src.Write([]byte{'W', 0x34, 0x12, 'B', 0x12, 0x34})
	s := MustNew(
		On(NewFormat[target]().Token("W").Uint16(func(t *target) *uint16 { return &t.word }), nil),
		On(NewFormat[target]().Token("B").Uint16BE(func(t *target) *uint16 { return &t.word }), nil),
	)
	tgt := newTarget(4)
	res := s.Scan(src, tgt)
	require.Equal(t, 0, res.Branch)
	require.Equal(t, uint16(0x1234), tgt.word)
	tgt.word = 0
	res = s.Scan(src, tgt)
	require.Equal(t, 1, res.Branch)
	require.Equal(t, uint16(0x1234), tgt.word)
}

func TestScalarInTerminator(t *testing.T) {
	tgt := newTarget(16)
	src := bufferOf(16, "L2#Kxy")
	s := MustNew(On(NewFormat[target]().
		Token("L").
		Chunk(func(t *target) *chunk.Store { return t.chunks },
			NewFormat[target]().Token("#").Uint8(func(t *target) *uint8 { return &t.ch })), nil))
	require.True(t, s.Scan(src, tgt).Matched())
	require.Equal(t, byte('K'), tgt.ch)
	payload, err := tgt.chunks.ReadChunk(nil)
	require.NoError(t, err)
	require.Equal(t, "xy", string(payload))
}

func TestNilTargetWithFixedStore(t *testing.T) {
	store := chunk.NewSize(8)
	var invoked bool
	s := MustNew(On(NewFormat[struct{}]().
		Token("D").
		ChunkTo(store, NewFormat[struct{}]().Token(":")),
		func(*struct{}) { invoked = true }))
	src := bufferOf(8, "D2:ok")
	require.True(t, s.Scan(src, nil).Matched())
	require.True(t, invoked)
	require.Equal(t, 3, store.Size())
}

func TestBackToBackMatches(t *testing.T) {
	tgt := newTarget(24)
	s := dataScanner(t)
	src := bufferOf(32, "DATA1:aDATA2:bc")
	require.True(t, s.Scan(src, tgt).Matched())
	require.True(t, s.Scan(src, tgt).Matched())
	require.False(t, s.Scan(src, tgt).Matched())
	require.Equal(t, 2, tgt.invoked)
	first, _ := tgt.chunks.ReadChunk(nil)
	second, _ := tgt.chunks.ReadChunk(nil)
	require.Equal(t, "a", string(first))
	require.Equal(t, "bc", string(second))
}

func TestScanOneShot(t *testing.T) {
	src := bufferOf(8, "xOK")
	res, err := Scan[struct{}](src, nil, On(NewFormat[struct{}]().Token("OK"), nil))
	require.NoError(t, err)
	require.True(t, res.Matched())

	_, err = Scan[struct{}](src, nil)
	require.Equal(t, ErrNoBranches, err)
}

func TestInvalidFormats(t *testing.T) {
	testCases := []struct {
		name   string
		format Format[target]
	}{
		{name: "empty format", format: NewFormat[target]()},
		{name: "empty token", format: NewFormat[target]().Token("")},
		{name: "zero width scalar", format: NewFormat[target]().Scalar(0, nil)},
		{name: "too wide scalar", format: NewFormat[target]().Scalar(MaxScalarWidth+1, nil)},
		{name: "no terminator", format: NewFormat[target]().ChunkTo(chunk.NewSize(4), NewFormat[target]())},
		{name: "nested chunk", format: NewFormat[target]().ChunkTo(chunk.NewSize(4),
			NewFormat[target]().ChunkTo(chunk.NewSize(4), NewFormat[target]().Token(":")))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(On(NewFormat[target]().Token("ok"), nil), On(tc.format, nil))
			require.Error(t, err)
			fe, ok := err.(*FormatError)
			require.True(t, ok)
			require.Equal(t, 1, fe.Branch)
		})
	}
}

func TestFormatsAreImmutable(t *testing.T) {
	base := NewFormat[target]().Token("A")
	b1 := base.Token("B")
	b2 := base.Token("C")
	require.Equal(t, 1, base.Len())
	require.Equal(t, 2, b1.Len())
	require.Equal(t, 2, b2.Len())
	require.Equal(t, KindToken, b1.Elements()[1].Kind)
}
