package ring

// Writer fills a reservation. The reserved bytes become readable only when
// the reservation is committed, either explicitly or when its last byte is
// written. A Writer is owned by its Buffer and is only valid until the
// reservation is committed or aborted.
type Writer struct {
	buf     *Buffer
	size    int
	written int
}

// Reserve reserves n bytes past the tail. Only one reservation may be
// outstanding at a time. While it is, each Push moves the n reserved
// slots one position forward, so pushes cost O(n) instead of O(1).
func (b *Buffer) Reserve(n int) (*Writer, error) {
	defer b.cs.Enter()()
	if b.writer != nil {
		return nil, ErrBusy
	}
	if n < 0 || n > b.free() {
		return nil, ErrFull
	}
	b.res = Writer{buf: b, size: n}
	w := &b.res
	b.writer, b.reserved = w, n
	if n == 0 {
		b.commit()
	}
	return w, nil
}

// Remaining returns the number of reserved bytes not yet written.
func (w *Writer) Remaining() int {
	if w.buf == nil {
		return 0
	}
	defer w.buf.cs.Enter()()
	return w.size - w.written
}

// WriteByte writes the next reserved byte.
func (w *Writer) WriteByte(v byte) error {
	b := w.buf
	if b == nil {
		return ErrFull
	}
	defer b.cs.Enter()()
	if w.buf == nil || w.written >= w.size {
		return ErrFull
	}
	b.data[b.index(b.count+w.written)] = v
	if w.written++; w.written == w.size {
		b.commit()
	}
	return nil
}

// Commit makes the written bytes readable and releases the rest of the
// reservation.
func (w *Writer) Commit() {
	b := w.buf
	if b == nil {
		return
	}
	defer b.cs.Enter()()
	if w.buf != nil {
		w.size = w.written
		b.commit()
	}
}

// Abort releases the reservation without making anything readable.
func (w *Writer) Abort() {
	b := w.buf
	if b == nil {
		return
	}
	defer b.cs.Enter()()
	if w.buf != nil {
		b.release()
	}
}

func (b *Buffer) commit() {
	w := b.writer
	b.count += w.size
	b.tail = b.index(b.count)
	b.release()
}
