package publish

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/publish/pb"
	"github.com/robotalks/streams.go/pkg/streams/chunk"
	"github.com/robotalks/streams.go/pkg/streams/formatfile"
	"github.com/robotalks/streams.go/pkg/streams/ring"
)

type memSink struct {
	lock    sync.Mutex
	matches []*pb.Match
	closed  bool
}

func (s *memSink) Publish(_ context.Context, m *pb.Match) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.matches = append(s.matches, m)
	return nil
}

func (s *memSink) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	return nil
}

func (s *memSink) count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.matches)
}

func TestNewSink(t *testing.T) {
	s, err := NewSink("", "")
	require.NoError(t, err)
	require.Equal(t, Discard, s)
	require.NoError(t, s.Publish(context.Background(), &pb.Match{}))

	s, err = NewSink("log:", "")
	require.NoError(t, err)
	require.IsType(t, LogSink{}, s)

	_, err = NewSink("ftp://host/x", "")
	require.Error(t, err)
}

func TestFromRecord(t *testing.T) {
	set, err := formatfile.Parse([]byte(`
formats:
  - name: reading
    match:
      - token: "R"
      - scalar: {name: id, width: 1}
      - chunk:
          terminator:
            - token: ";"
  - name: status
    match:
      - token: "S"
      - scalar: {name: code, width: 2}
`))
	require.NoError(t, err)
	rec := set.NewRecord()
	scanner, err := set.NewScanner(nil)
	require.NoError(t, err)

	buf := ring.New(32)
	buf.WriteString("R73;abc")
	res := scanner.Scan(buf, rec)
	require.True(t, res.Matched())

	m := FromRecord("dev", "src", rec, res)
	require.Equal(t, "dev", m.Device)
	require.Equal(t, "src", m.Source)
	require.Equal(t, "reading", m.Format)
	require.EqualValues(t, 0, m.Branch)
	v, ok := m.Field("id")
	require.True(t, ok)
	require.Equal(t, []byte("7"), v)
	require.Len(t, m.Fields, 1)
	require.Equal(t, [][]byte{[]byte("abc")}, m.Chunks)
	require.True(t, rec.Chunks.IsEmpty())

	// values are copied
	rec.Values["id"][0] = 'x'
	v, _ = m.Field("id")
	require.Equal(t, []byte("7"), v)
}

func TestDrainChunks(t *testing.T) {
	s := chunk.NewSize(16)
	for _, data := range []string{"ab", "", "c"} {
		w, err := s.BeginWrite(len(data))
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	chunks := DrainChunks(s)
	require.Len(t, chunks, 3)
	require.Equal(t, "ab", string(chunks[0]))
	require.Empty(t, chunks[1])
	require.Equal(t, "c", string(chunks[2]))
	require.True(t, s.IsEmpty())
}

func TestPublisherOnLoop(t *testing.T) {
	sink := &memSink{}
	p := NewPublisher(sink, 4)
	loop := fx.NewLoop()
	loop.Interval = time.Millisecond
	var once sync.Once
	loop.AddController(fx.PrLvSense, fx.ControlFunc(func(ctx fx.ControlContext) error {
		once.Do(func() {
			ctx.AddMessages(&pb.Match{Device: "d", Format: "a"}, "other", &pb.Match{Device: "d", Format: "b"})
		})
		return nil
	}))
	loop.Add(p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, time.Millisecond)
	cancel()
	require.Equal(t, context.Canceled, <-done)
	sink.lock.Lock()
	defer sink.lock.Unlock()
	require.Equal(t, "a", sink.matches[0].Format)
	require.Equal(t, "b", sink.matches[1].Format)
	require.True(t, sink.closed)
}

func TestPublisherQueueFull(t *testing.T) {
	p := NewPublisher(&memSink{}, 1)
	require.True(t, p.Enqueue(&pb.Match{}))
	require.False(t, p.Enqueue(&pb.Match{}))
}
