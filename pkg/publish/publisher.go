package publish

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/publish/pb"
)

// DefaultQueueSize is the number of matches waiting for the Sink.
const DefaultQueueSize = 64

// Publisher collects *pb.Match messages from the loop and publishes them
// in the background.
type Publisher struct {
	Sink    Sink
	Timeout time.Duration

	queue chan *pb.Match
}

// NewPublisher creates a Publisher.
func NewPublisher(sink Sink, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Publisher{
		Sink:    sink,
		Timeout: 5 * time.Second,
		queue:   make(chan *pb.Match, queueSize),
	}
}

// AddToLoop implements framework.LoopAdder.
func (p *Publisher) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, p)
}

// Control implements framework.Controller.
func (p *Publisher) Control(ctx fx.ControlContext) error {
	ctx.ProcessMessages(func(msg fx.Message) bool {
		m, ok := msg.(*pb.Match)
		if !ok {
			return false
		}
		p.Enqueue(m)
		return true
	})
	return nil
}

// Enqueue queues a match without blocking. It reports false when the
// queue is full and the match is dropped.
func (p *Publisher) Enqueue(m *pb.Match) bool {
	select {
	case p.queue <- m:
		return true
	default:
		glog.Warningf("publish queue full, match %s/%s dropped", m.Device, m.Format)
		return false
	}
}

// Run implements framework.Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	defer p.Sink.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-p.queue:
			p.publish(ctx, m)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, m *pb.Match) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	if err := p.Sink.Publish(ctx, m); err != nil {
		glog.Errorf("publish %s/%s error: %v", m.Device, m.Format, err)
	}
}
