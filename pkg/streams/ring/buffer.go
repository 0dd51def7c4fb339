package ring

import (
	"io"

	"github.com/robotalks/streams.go/pkg/critical"
)

// Buffer is a fixed-capacity circular byte queue.
type Buffer struct {
	data  []byte
	head  int
	tail  int
	count int

	// reserved bytes past tail, invisible to readers until committed.
	reserved int
	writer   *Writer
	res      Writer

	cs critical.Section
}

// New creates a Buffer holding up to capacity bytes.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Size returns the number of readable bytes.
func (b *Buffer) Size() int {
	defer b.cs.Enter()()
	return b.count
}

// Available returns the number of bytes that can still be pushed.
func (b *Buffer) Available() int {
	defer b.cs.Enter()()
	return b.free()
}

// IsEmpty indicates no bytes are readable.
func (b *Buffer) IsEmpty() bool {
	return b.Size() == 0
}

// IsFull indicates no byte can be pushed.
func (b *Buffer) IsFull() bool {
	return b.Available() == 0
}

func (b *Buffer) free() int {
	return len(b.data) - b.count - b.reserved
}

func (b *Buffer) index(offset int) int {
	n := b.head + offset
	if n >= len(b.data) {
		n -= len(b.data)
	}
	return n
}

// Push appends one byte. It's O(1) unless a reservation is outstanding,
// see Reserve.
func (b *Buffer) Push(v byte) error {
	defer b.cs.Enter()()
	if b.free() == 0 {
		return ErrFull
	}
	b.push(v)
	return nil
}

func (b *Buffer) push(v byte) {
	if b.reserved > 0 {
		// keep reserved bytes contiguous after the committed tail by
		// moving them one slot forward.
		for i := b.reserved; i > 0; i-- {
			b.data[b.index(b.count+i)] = b.data[b.index(b.count+i-1)]
		}
	}
	b.data[b.tail] = v
	if b.tail++; b.tail == len(b.data) {
		b.tail = 0
	}
	b.count++
}

// Write pushes as many bytes of p as fit. It returns ErrFull if any byte
// was dropped.
func (b *Buffer) Write(p []byte) (int, error) {
	defer b.cs.Enter()()
	n := 0
	for _, v := range p {
		if b.free() == 0 {
			return n, ErrFull
		}
		b.push(v)
		n++
	}
	return n, nil
}

// WriteString is Write for strings.
func (b *Buffer) WriteString(s string) (int, error) {
	defer b.cs.Enter()()
	n := 0
	for i := 0; i < len(s); i++ {
		if b.free() == 0 {
			return n, ErrFull
		}
		b.push(s[i])
		n++
	}
	return n, nil
}

// Pop removes and returns the oldest byte.
func (b *Buffer) Pop() (byte, error) {
	defer b.cs.Enter()()
	if b.count == 0 {
		return 0, ErrEmpty
	}
	v := b.data[b.head]
	b.drop(1)
	return v, nil
}

// Read implements io.Reader. It returns io.EOF when the buffer is empty.
func (b *Buffer) Read(p []byte) (int, error) {
	defer b.cs.Enter()()
	if b.count == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := b.peekInto(0, p)
	b.drop(n)
	return n, nil
}

// Peek returns the byte at offset from the front without removing it.
func (b *Buffer) Peek(offset int) (byte, error) {
	defer b.cs.Enter()()
	if offset < 0 || offset >= b.count {
		return 0, ErrOutOfRange
	}
	return b.data[b.index(offset)], nil
}

// PeekInto copies bytes starting at offset into p without removing them
// and returns the number of bytes copied.
func (b *Buffer) PeekInto(offset int, p []byte) int {
	defer b.cs.Enter()()
	return b.peekInto(offset, p)
}

func (b *Buffer) peekInto(offset int, p []byte) int {
	if offset < 0 || offset >= b.count {
		return 0
	}
	n := b.count - offset
	if n > len(p) {
		n = len(p)
	}
	start := b.index(offset)
	copied := copy(p[:n], b.data[start:])
	if copied < n {
		copy(p[copied:n], b.data)
	}
	return n
}

// Drop discards up to n leading bytes and returns how many were discarded.
func (b *Buffer) Drop(n int) int {
	defer b.cs.Enter()()
	return b.drop(n)
}

func (b *Buffer) drop(n int) int {
	if n > b.count {
		n = b.count
	}
	if n <= 0 {
		return 0
	}
	b.head = b.index(n)
	b.count -= n
	return n
}

// Clear discards all readable bytes and aborts any outstanding reservation.
func (b *Buffer) Clear() {
	defer b.cs.Enter()()
	b.head, b.tail, b.count = 0, 0, 0
	b.release()
}

func (b *Buffer) release() {
	if b.writer != nil {
		b.writer.buf = nil
		b.writer = nil
	}
	b.reserved = 0
}
