// Package nats publishes matches to a NATS subject.
package nats

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/nats-io/nats.go"

	"github.com/robotalks/streams.go/pkg/publish/pb"
)

// DefaultSubject is used when the URL has no path.
const DefaultSubject = "streams"

// CloseTimeout bounds flushing pending messages on Close.
const CloseTimeout = 5 * time.Second

// Conn is the part of *nats.Conn used by Sink.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Sink publishes encoded matches to Subject.
type Sink struct {
	Conn    Conn
	Subject string
}

// ParseURL splits nats://host:port/subject into the server URL and the
// subject.
func ParseURL(sinkURL string) (server, subject string, err error) {
	u, err := url.Parse(sinkURL)
	if err != nil {
		return "", "", err
	}
	subject = strings.Trim(u.Path, "/")
	if subject == "" {
		subject = DefaultSubject
	}
	u.Path, u.RawPath = "", ""
	return u.String(), subject, nil
}

// NewSink connects to the server in sinkURL.
func NewSink(sinkURL, name string, opts ...nats.Option) (*Sink, error) {
	server, subject, err := ParseURL(sinkURL)
	if err != nil {
		return nil, err
	}
	if name != "" {
		opts = append(opts, nats.Name(name))
	}
	nc, err := nats.Connect(server, opts...)
	if err != nil {
		return nil, err
	}
	glog.Infof("nats: publishing to %q", subject)
	return &Sink{Conn: nc, Subject: subject}, nil
}

// Publish implements publish.Sink.
func (s *Sink) Publish(ctx context.Context, m *pb.Match) error {
	data, err := pb.Encode(m)
	if err != nil {
		return err
	}
	if err := s.Conn.Publish(s.Subject, data); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); ok {
		return s.Conn.FlushWithContext(ctx)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (s *Sink) Close() error {
	defer s.Conn.Close()
	return s.Conn.FlushTimeout(CloseTimeout)
}
