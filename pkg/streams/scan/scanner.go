package scan

import (
	"errors"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/streams/chunk"
)

// Source is the buffer a Scanner reads from. ring.Buffer implements it.
type Source interface {
	Size() int
	Cap() int
	Peek(offset int) (byte, error)
	Drop(n int) int
}

// Outcome is the kind of a scan result.
type Outcome int

// Scan outcomes.
const (
	// Pending means no branch matched yet; bytes that may still start a
	// match are retained.
	Pending Outcome = iota
	// Discarded means no byte could start any branch and all were dropped.
	Discarded
	// Matched means a branch matched and its bytes were consumed.
	Matched
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Discarded:
		return "discarded"
	case Matched:
		return "matched"
	}
	return "unknown"
}

// Result is the result of one scan.
type Result struct {
	Outcome Outcome
	// Branch is the index of the matched branch, -1 if none.
	Branch int
	// Dropped is the number of leading bytes discarded as non-matching.
	Dropped int
	// Consumed is the number of bytes of the match.
	Consumed int
	// Rejected is the number of chunks consumed but not stored because
	// they didn't fit their store.
	Rejected int
}

// Matched indicates a branch matched.
func (r Result) Matched() bool {
	return r.Outcome == Matched
}

// Err returns ErrNoMatch without a match, chunk.ErrRejected if the match
// dropped a chunk payload, or nil.
func (r Result) Err() error {
	if r.Outcome != Matched {
		return ErrNoMatch
	}
	if r.Rejected > 0 {
		return chunk.ErrRejected
	}
	return nil
}

// ErrNoBranches indicates a Scanner created without branches.
var ErrNoBranches = errors.New("no branches")

// Scanner matches a fixed set of branches against a Source.
// A Scanner is used by one polling loop; Scan must not be called concurrently.
type Scanner[T any] struct {
	progs   []program[T]
	cursors []cursor
	scratch []byte
}

// New compiles branches into a Scanner.
func New[T any](branches ...Branch[T]) (*Scanner[T], error) {
	if len(branches) == 0 {
		return nil, ErrNoBranches
	}
	s := &Scanner[T]{
		progs:   make([]program[T], len(branches)),
		cursors: make([]cursor, len(branches)),
	}
	var width int
	for n, b := range branches {
		p, w, err := compile(n, b)
		if err != nil {
			return nil, err
		}
		if w > width {
			width = w
		}
		s.progs[n] = p
	}
	s.scratch = make([]byte, width)
	return s, nil
}

// MustNew is New that panics on invalid formats.
func MustNew[T any](branches ...Branch[T]) *Scanner[T] {
	s, err := New(branches...)
	if err != nil {
		panic(err)
	}
	return s
}

// Branches returns the number of branches.
func (s *Scanner[T]) Branches() int {
	return len(s.progs)
}

// Scan examines the bytes currently in src.
//
// On a match the matched bytes and everything before them are removed,
// Scalar fields are written into target, chunk payloads are stored, and the
// branch handler is called. Without a match, only bytes that can't start any
// branch are removed. target may be nil, in which case Scalars and chunks
// stored through the target are skipped.
func (s *Scanner[T]) Scan(src Source, target *T) Result {
	size, limit := src.Size(), src.Cap()
	for start := 0; start < size; start++ {
		live := len(s.progs)
		for i := range s.cursors {
			s.cursors[i] = cursor{live: true}
		}
		for pos := start; pos < size && live > 0; pos++ {
			b, err := src.Peek(pos)
			if err != nil {
				size = pos
				break
			}
			for i := range s.progs {
				c := &s.cursors[i]
				if !c.live {
					continue
				}
				switch s.progs[i].step(c, b, limit, nil) {
				case failed:
					c.live = false
					live--
				case done:
					return s.commit(src, target, i, start, pos+1)
				}
			}
		}
		if live > 0 {
			dropped := src.Drop(start)
			if dropped > 0 && glog.V(5) {
				glog.Infof("scan: dropped %d, %d pending", dropped, size-dropped)
			}
			return Result{Outcome: Pending, Branch: -1, Dropped: dropped}
		}
	}
	dropped := src.Drop(size)
	if dropped == 0 {
		return Result{Outcome: Pending, Branch: -1}
	}
	if glog.V(5) {
		glog.Infof("scan: discarded %d", dropped)
	}
	return Result{Outcome: Discarded, Branch: -1, Dropped: dropped}
}

func (s *Scanner[T]) commit(src Source, target *T, branch, start, end int) Result {
	p := &s.progs[branch]
	x := commit[T]{target: target, scratch: s.scratch}
	var c cursor
	limit := src.Cap()
	for pos := start; pos < end; pos++ {
		b, _ := src.Peek(pos)
		p.step(&c, b, limit, &x)
	}
	src.Drop(end)
	if glog.V(4) {
		glog.Infof("scan: branch %d matched %d bytes after %d dropped", branch, end-start, start)
	}
	if x.rejected > 0 {
		glog.Warningf("scan: branch %d: %d chunk(s) rejected", branch, x.rejected)
	}
	if p.handler != nil {
		p.handler(target)
	}
	return Result{Outcome: Matched, Branch: branch, Dropped: start, Consumed: end - start, Rejected: x.rejected}
}

// Scan compiles branches and scans src once.
func Scan[T any](src Source, target *T, branches ...Branch[T]) (Result, error) {
	s, err := New(branches...)
	if err != nil {
		return Result{Branch: -1}, err
	}
	return s.Scan(src, target), nil
}
