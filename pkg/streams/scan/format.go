package scan

import (
	"encoding/binary"

	"github.com/robotalks/streams.go/pkg/streams/chunk"
)

// Kind is the kind of a Format element.
type Kind uint8

// Element kinds.
const (
	KindToken Kind = iota
	KindScalar
	KindChunk
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindScalar:
		return "scalar"
	case KindChunk:
		return "chunk"
	}
	return "unknown"
}

// MaxScalarWidth is the widest Scalar element.
const MaxScalarWidth = 64

// MaxChunkLength is the largest declared chunk length accepted.
// Longer digit runs fail the branch.
const MaxChunkLength = 0xffff

// Element is one matcher of a Format.
type Element[T any] struct {
	Kind Kind

	token []byte
	width int
	set   func(*T, []byte)
	store func(*T) *chunk.Store
	owned bool // store is reached through the target
	term  []Element[T]
}

// Format describes one expected byte shape.
// Formats are immutable: every builder method returns a new Format.
type Format[T any] struct {
	elems []Element[T]
}

// NewFormat creates an empty Format for target type T.
func NewFormat[T any]() Format[T] {
	return Format[T]{}
}

// Elements returns the elements of the Format.
func (f Format[T]) Elements() []Element[T] {
	return f.elems
}

// Len returns the number of elements.
func (f Format[T]) Len() int {
	return len(f.elems)
}

func (f Format[T]) with(e Element[T]) Format[T] {
	elems := make([]Element[T], len(f.elems), len(f.elems)+1)
	copy(elems, f.elems)
	return Format[T]{elems: append(elems, e)}
}

// Token appends a literal.
func (f Format[T]) Token(s string) Format[T] {
	return f.with(Element[T]{Kind: KindToken, token: []byte(s)})
}

// TokenBytes appends a literal given as bytes.
func (f Format[T]) TokenBytes(b ...byte) Format[T] {
	return f.with(Element[T]{Kind: KindToken, token: append([]byte(nil), b...)})
}

// Scalar appends a fixed-width field. set receives the raw bytes; the
// slice is only valid during the call.
func (f Format[T]) Scalar(width int, set func(target *T, raw []byte)) Format[T] {
	return f.with(Element[T]{Kind: KindScalar, width: width, set: set})
}

// Uint8 appends a one-byte field.
func (f Format[T]) Uint8(field func(*T) *uint8) Format[T] {
	return f.Scalar(1, func(t *T, raw []byte) {
		*field(t) = raw[0]
	})
}

// Uint16 appends a little-endian two-byte field.
func (f Format[T]) Uint16(field func(*T) *uint16) Format[T] {
	return f.Scalar(2, func(t *T, raw []byte) {
		*field(t) = binary.LittleEndian.Uint16(raw)
	})
}

// Uint16BE appends a big-endian two-byte field.
func (f Format[T]) Uint16BE(field func(*T) *uint16) Format[T] {
	return f.Scalar(2, func(t *T, raw []byte) {
		*field(t) = binary.BigEndian.Uint16(raw)
	})
}

// Uint32 appends a little-endian four-byte field.
func (f Format[T]) Uint32(field func(*T) *uint32) Format[T] {
	return f.Scalar(4, func(t *T, raw []byte) {
		*field(t) = binary.LittleEndian.Uint32(raw)
	})
}

// Bytes appends a field of width bytes copied into the slice returned by field.
func (f Format[T]) Bytes(width int, field func(*T) []byte) Format[T] {
	return f.Scalar(width, func(t *T, raw []byte) {
		copy(field(t), raw)
	})
}

// Chunk appends a variable-length payload stored into the target's chunk
// store. The payload length is a run of ASCII decimal digits followed by
// terminator.
func (f Format[T]) Chunk(store func(*T) *chunk.Store, terminator Format[T]) Format[T] {
	return f.with(Element[T]{Kind: KindChunk, store: store, owned: true, term: terminator.elems})
}

// ChunkTo is Chunk with a store that doesn't belong to the target.
func (f Format[T]) ChunkTo(store *chunk.Store, terminator Format[T]) Format[T] {
	return f.with(Element[T]{
		Kind:  KindChunk,
		store: func(*T) *chunk.Store { return store },
		term:  terminator.elems,
	})
}

// Branch is a Format with the handler invoked when it matches.
type Branch[T any] struct {
	Format  Format[T]
	Handler func(target *T)
}

// On creates a Branch.
func On[T any](format Format[T], handler func(target *T)) Branch[T] {
	return Branch[T]{Format: format, Handler: handler}
}
