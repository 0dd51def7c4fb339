package publish

import (
	"sort"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/publish/pb"
	"github.com/robotalks/streams.go/pkg/streams/chunk"
	"github.com/robotalks/streams.go/pkg/streams/formatfile"
	"github.com/robotalks/streams.go/pkg/streams/scan"
)

// FromRecord builds a Match from a matched Record. Chunks are drained
// from the Record's store.
func FromRecord(device, source string, rec *formatfile.Record, res scan.Result) *pb.Match {
	m := NewMatch(device, source, rec, res)
	if rec.Chunks != nil {
		m.Chunks = DrainChunks(rec.Chunks)
	}
	return m
}

// NewMatch builds a Match without chunks. Values are copied. Fields follow
// rec.Fields, or are sorted by name when it's unset.
func NewMatch(device, source string, rec *formatfile.Record, res scan.Result) *pb.Match {
	m := &pb.Match{
		Device:    device,
		Source:    source,
		Format:    rec.Format,
		Branch:    int32(res.Branch),
		Rejected:  int32(res.Rejected),
		Timestamp: time.Now().UnixNano(),
	}
	names := rec.Fields
	if names == nil {
		names = make([]string, 0, len(rec.Values))
		for name := range rec.Values {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		m.Fields = append(m.Fields, &pb.Field{
			Name:  name,
			Value: append([]byte(nil), rec.Values[name]...),
		})
	}
	return m
}

// DrainChunks reads every chunk out of a store.
func DrainChunks(s *chunk.Store) [][]byte {
	var chunks [][]byte
	for !s.IsEmpty() {
		data, err := s.ReadChunk(nil)
		if err != nil {
			glog.Warningf("chunk store: %v", err)
			s.Clear()
			break
		}
		chunks = append(chunks, data)
	}
	return chunks
}
