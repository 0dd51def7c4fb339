// Package scan recognizes declarative byte formats in a buffer that fills
// up incrementally.
//
// A Format is an ordered list of elements:
//
//	Token   literal bytes that must match exactly
//	Scalar  fixed-width raw bytes copied into a field of the target
//	Chunk   ASCII decimal length, a terminator format, then that many
//	        payload bytes stored in a chunk.Store
//
// A Scanner evaluates several Formats (branches) against the front of a
// buffer. Bytes that cannot start any branch are dropped as soon as that is
// known; bytes that are still a live prefix of some branch stay in the buffer
// until more data arrives. The first branch in declaration order to complete
// wins. Scanning never blocks and never allocates once the Scanner is built.
//
// Example:
//
//	type link struct {
//		chunks *chunk.Store
//	}
//
//	data := scan.NewFormat[link]().
//		Token("DATA").
//		Chunk(func(l *link) *chunk.Store { return l.chunks },
//			scan.NewFormat[link]().Token(":"))
//	s := scan.MustNew(scan.On(data, func(l *link) { ... }))
//	for {
//		if res := s.Scan(rx, &target); !res.Matched() {
//			break
//		}
//	}
package scan
