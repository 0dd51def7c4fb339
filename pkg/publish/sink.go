// Package publish forwards matched frames to message brokers.
package publish

import (
	"context"
	"fmt"
	"net/url"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/publish/mqtt"
	"github.com/robotalks/streams.go/pkg/publish/nats"
	"github.com/robotalks/streams.go/pkg/publish/pb"
	"github.com/robotalks/streams.go/pkg/publish/redis"
)

// Sink receives matches.
type Sink interface {
	Publish(ctx context.Context, m *pb.Match) error
	Close() error
}

// NewSink creates a Sink from a URL. The scheme selects the broker:
// mqtt, nats, redis, or log for glog output. An empty URL discards.
// clientID names the connection where the broker supports it.
func NewSink(sinkURL, clientID string) (Sink, error) {
	if sinkURL == "" {
		return Discard, nil
	}
	u, err := url.Parse(sinkURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "mqtt", "ssl", "ws", "wss":
		return mqtt.NewSink(sinkURL, clientID)
	case "nats":
		return nats.NewSink(sinkURL, clientID)
	case "redis", "rediss":
		return redis.NewSink(sinkURL)
	case "log":
		return LogSink{}, nil
	}
	return nil, fmt.Errorf("unsupported sink %q", sinkURL)
}

type discard struct{}

func (discard) Publish(context.Context, *pb.Match) error { return nil }
func (discard) Close() error                             { return nil }

// Discard drops every match.
var Discard Sink = discard{}

// LogSink writes matches to the log.
type LogSink struct{}

// Publish implements Sink.
func (LogSink) Publish(_ context.Context, m *pb.Match) error {
	glog.Infof("MATCH %s", m.String())
	return nil
}

// Close implements Sink.
func (LogSink) Close() error { return nil }
