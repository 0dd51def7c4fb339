package sh

import (
	"github.com/robotalks/streams.go/pkg/publish"
	"github.com/robotalks/streams.go/pkg/publish/pb"
	"github.com/robotalks/streams.go/pkg/streams/formatfile"
	"github.com/robotalks/streams.go/pkg/streams/ring"
	"github.com/robotalks/streams.go/pkg/streams/scan"
)

// Session is a receive buffer and a scanner over a format set, fed by hand.
type Session struct {
	Formats *formatfile.Set
	Buffer  *ring.Buffer
	Record  *formatfile.Record
	Scanner *scan.Scanner[formatfile.Record]
}

// NewSession creates a Session.
func NewSession(set *formatfile.Set) (*Session, error) {
	scanner, err := set.NewScanner(nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		Formats: set,
		Buffer:  set.NewBuffer(),
		Record:  set.NewRecord(),
		Scanner: scanner,
	}, nil
}

// Push appends bytes to the buffer and returns how many fit.
func (s *Session) Push(data []byte) int {
	n, _ := s.Buffer.Write(data)
	return n
}

// ScanAll scans until no format matches. Chunks stay in the record's
// store. last is the result of the final scan.
func (s *Session) ScanAll() (matches []*pb.Match, last scan.Result) {
	for {
		last = s.Scanner.Scan(s.Buffer, s.Record)
		if !last.Matched() {
			return
		}
		matches = append(matches, publish.NewMatch("", "shell", s.Record, last))
	}
}

// DrainChunks reads all stored chunks.
func (s *Session) DrainChunks() [][]byte {
	return publish.DrainChunks(s.Record.Chunks)
}

// Clear empties the buffer and the chunk store.
func (s *Session) Clear() {
	s.Buffer.Clear()
	s.Record.Chunks.Clear()
}

// Contents returns a copy of the buffered bytes.
func (s *Session) Contents() []byte {
	data := make([]byte, s.Buffer.Size())
	s.Buffer.PeekInto(0, data)
	return data
}
