package scan

import "github.com/robotalks/streams.go/pkg/streams/chunk"

type opKind uint8

const (
	opToken opKind = iota
	opScalar
	opDigits  // chunk length digits
	opPayload // chunk payload, length taken from the digits
)

// op is one step of a compiled Format. A Chunk element compiles to
// opDigits, the terminator ops, then opPayload.
type op[T any] struct {
	kind  opKind
	token []byte
	width int
	set   func(*T, []byte)
	store func(*T) *chunk.Store
	owned bool
}

type program[T any] struct {
	ops     []op[T]
	handler func(*T)
}

type status uint8

const (
	more status = iota
	failed
	done
)

// cursor is the matching state of one branch.
type cursor struct {
	pc     int
	sub    int // bytes consumed by ops[pc]
	length int // declared chunk length
	n      int // bytes consumed since the start offset
	live   bool
}

func compile[T any](index int, b Branch[T]) (p program[T], width int, err error) {
	if b.Format.Len() == 0 {
		return p, 0, &FormatError{Branch: index, Element: -1, Reason: "empty format"}
	}
	p.handler = b.Handler
	for n, e := range b.Format.elems {
		if e.Kind != KindChunk {
			var o op[T]
			if o, err = compileLeaf(index, n, e); err != nil {
				return
			}
			if o.width > width {
				width = o.width
			}
			p.ops = append(p.ops, o)
			continue
		}
		if e.store == nil {
			return p, 0, &FormatError{Branch: index, Element: n, Reason: "chunk without store"}
		}
		if len(e.term) == 0 {
			return p, 0, &FormatError{Branch: index, Element: n, Reason: "chunk without terminator"}
		}
		p.ops = append(p.ops, op[T]{kind: opDigits})
		for _, t := range e.term {
			if t.Kind == KindChunk {
				return p, 0, &FormatError{Branch: index, Element: n, Reason: "nested chunk in terminator"}
			}
			o, err := compileLeaf(index, n, t)
			if err != nil {
				return p, 0, err
			}
			if o.width > width {
				width = o.width
			}
			p.ops = append(p.ops, o)
		}
		p.ops = append(p.ops, op[T]{kind: opPayload, store: e.store, owned: e.owned})
	}
	return p, width, nil
}

func compileLeaf[T any](index, n int, e Element[T]) (op[T], error) {
	switch e.Kind {
	case KindToken:
		if len(e.token) == 0 {
			return op[T]{}, &FormatError{Branch: index, Element: n, Reason: "empty token"}
		}
		return op[T]{kind: opToken, token: e.token}, nil
	case KindScalar:
		if e.width <= 0 || e.width > MaxScalarWidth {
			return op[T]{}, &FormatError{Branch: index, Element: n, Reason: "invalid scalar width"}
		}
		return op[T]{kind: opScalar, width: e.width, set: e.set}, nil
	}
	return op[T]{}, &FormatError{Branch: index, Element: n, Reason: "unknown element " + e.Kind.String()}
}

// commit carries the side effects while a matched branch is replayed.
type commit[T any] struct {
	target   *T
	scratch  []byte
	w        *chunk.Writer
	rejected int
}

func (x *commit[T]) scalar(o *op[T]) {
	if o.set != nil && x.target != nil {
		o.set(x.target, x.scratch[:o.width])
	}
}

func (x *commit[T]) begin(o *op[T], length int) {
	x.w = nil
	if o.owned && x.target == nil {
		return
	}
	store := o.store(x.target)
	if store == nil {
		return
	}
	w, err := store.BeginWrite(length)
	if err != nil {
		x.rejected++
		return
	}
	x.w = w
}

func (x *commit[T]) payload(b byte) {
	if x.w != nil {
		x.w.WriteByte(b)
	}
}

// step feeds one byte to the cursor. limit is the most bytes a match may
// span. x is nil while matching and set when replaying a committed branch.
func (p *program[T]) step(c *cursor, b byte, limit int, x *commit[T]) status {
	c.n++
	for {
		o := &p.ops[c.pc]
		switch o.kind {
		case opToken:
			if o.token[c.sub] != b {
				return failed
			}
			if c.sub++; c.sub < len(o.token) {
				return more
			}
		case opScalar:
			if x != nil {
				x.scratch[c.sub] = b
			}
			if c.sub++; c.sub < o.width {
				return more
			}
			if x != nil {
				x.scalar(o)
			}
		case opDigits:
			if b >= '0' && b <= '9' {
				if c.length = c.length*10 + int(b-'0'); c.length > MaxChunkLength {
					return failed
				}
				c.sub++
				return more
			}
			if c.sub == 0 {
				return failed
			}
			// b is the first byte of the terminator.
			c.pc, c.sub = c.pc+1, 0
			continue
		case opPayload:
			if x != nil {
				x.payload(b)
			}
			if c.sub++; c.sub < c.length {
				return more
			}
		}
		return p.next(c, limit, x)
	}
}

// next moves the cursor past a finished op, through any payload that needs
// no bytes.
func (p *program[T]) next(c *cursor, limit int, x *commit[T]) status {
	c.pc, c.sub = c.pc+1, 0
	for ; c.pc < len(p.ops); c.pc++ {
		o := &p.ops[c.pc]
		switch o.kind {
		case opDigits:
			c.length = 0
		case opPayload:
			// a match that can never fit the source would stall it forever.
			if c.n+c.length > limit {
				return failed
			}
			if x != nil {
				x.begin(o, c.length)
			}
			if c.length == 0 {
				continue
			}
		}
		return more
	}
	return done
}
