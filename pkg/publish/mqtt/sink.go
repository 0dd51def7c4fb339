package mqtt

import (
	"context"
	"time"

	"github.com/robotalks/streams.go/pkg/publish/pb"
)

// Sink publishes matches to <prefix><device>/<format>.
type Sink struct {
	Queue *Queue
}

// NewSink connects to the broker at brokerURL. clientID is used unless
// the URL carries one.
func NewSink(brokerURL, clientID string) (*Sink, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID(clientID)
	}
	q := NewQueue(opts, prefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Sink{Queue: q}, nil
}

// Topic returns the topic of a match, relative to the prefix.
func Topic(m *pb.Match) string {
	return m.Device + "/" + m.Format
}

// Publish publishes an encoded match.
func (s *Sink) Publish(ctx context.Context, m *pb.Match) error {
	payload, err := pb.Encode(m)
	if err != nil {
		return err
	}
	token := s.Queue.Pub(Topic(m), payload)
	if deadline, ok := ctx.Deadline(); ok {
		if !token.WaitTimeout(time.Until(deadline)) {
			return context.DeadlineExceeded
		}
	} else {
		token.Wait()
	}
	return token.Error()
}

// Close disconnects.
func (s *Sink) Close() error {
	return s.Queue.Close()
}
