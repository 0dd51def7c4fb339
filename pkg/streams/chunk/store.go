package chunk

import "github.com/robotalks/streams.go/pkg/streams/ring"

// MaxLength is the longest payload a record can hold.
const MaxLength = 0xff

// Store is a queue of length-prefixed records.
type Store struct {
	buf *ring.Buffer
	w   Writer
}

// Writer appends the payload of one record.
// It is only valid until the record is complete or aborted.
type Writer struct {
	w *ring.Writer
}

// New creates a Store over buf.
func New(buf *ring.Buffer) *Store {
	return &Store{buf: buf}
}

// NewSize creates a Store with its own buffer of capacity bytes.
func NewSize(capacity int) *Store {
	return New(ring.New(capacity))
}

// Cap returns the capacity in bytes, length bytes included.
func (s *Store) Cap() int {
	return s.buf.Cap()
}

// Size returns the bytes held by complete records, length bytes included.
func (s *Store) Size() int {
	return s.buf.Size()
}

// IsEmpty indicates there is no complete record.
func (s *Store) IsEmpty() bool {
	return s.buf.IsEmpty()
}

// Clear drops all records.
func (s *Store) Clear() {
	s.buf.Clear()
}

// BeginWrite starts a record with a payload of length bytes.
// The whole record, length byte included, must fit the free space,
// otherwise ErrRejected is returned and nothing is stored.
func (s *Store) BeginWrite(length int) (*Writer, error) {
	if length < 0 || length > MaxLength {
		return nil, ErrRejected
	}
	w, err := s.buf.Reserve(length + 1)
	if err != nil {
		return nil, ErrRejected
	}
	w.WriteByte(byte(length))
	s.w.w = w
	return &s.w, nil
}

// WriteByte appends one payload byte. The record becomes readable with
// its last byte.
func (w *Writer) WriteByte(b byte) error {
	return w.w.WriteByte(b)
}

// Write appends payload bytes.
func (w *Writer) Write(p []byte) (int, error) {
	for n, b := range p {
		if err := w.w.WriteByte(b); err != nil {
			return n, err
		}
	}
	return len(p), nil
}

// Remaining returns the payload bytes still expected.
func (w *Writer) Remaining() int {
	return w.w.Remaining()
}

// Abort discards the partially written record.
func (w *Writer) Abort() {
	w.w.Abort()
}

// PeekLen returns the payload length of the oldest record.
func (s *Store) PeekLen() (int, bool) {
	l, err := s.buf.Peek(0)
	if err != nil {
		return 0, false
	}
	return int(l), true
}

// ReadChunk pops the oldest record and appends its payload to dst.
func (s *Store) ReadChunk(dst []byte) ([]byte, error) {
	l, err := s.buf.Pop()
	if err != nil {
		return dst, ErrEmpty
	}
	n := len(dst)
	for i := 0; i < int(l); i++ {
		dst = append(dst, 0)
	}
	s.buf.PeekInto(0, dst[n:])
	s.buf.Drop(int(l))
	return dst, nil
}
