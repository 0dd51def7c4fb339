package source

import (
	"context"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/critical"
	"github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/streams/ring"
)

// Stats counts the bytes seen by a Pump.
type Stats struct {
	Received uint64
	Dropped  uint64
}

// Pump copies bytes from a Reader into a Buffer.
type Pump struct {
	Name   string
	Reader io.Reader
	Buffer *ring.Buffer
	// OnReceive is called with the number of bytes read.
	OnReceive func(n int)
	// OnDrop is called with the number of bytes dropped because the
	// buffer was full.
	OnDrop func(n int)
	// Notify is called after bytes were pushed, e.g. Loop.TriggerNext.
	Notify func()
	// ReadSize is the most bytes read at once. Defaults to 64.
	ReadSize int

	stats critical.Value[Stats]
}

// NewPump creates a Pump.
func NewPump(r io.Reader, buf *ring.Buffer) *Pump {
	return &Pump{Reader: r, Buffer: buf}
}

// Stats returns a snapshot of the counters.
func (p *Pump) Stats() Stats {
	return p.stats.Load()
}

// AddToLoop implements framework.LoopAdder.
func (p *Pump) AddToLoop(l *framework.Loop) {
	if p.Notify == nil {
		p.Notify = l.TriggerNext
	}
	l.AddRunnable(framework.NamedRun(p.name(), p))
}

func (p *Pump) name() string {
	if p.Name != "" {
		return p.Name
	}
	return "pump"
}

// Run reads until the Reader fails or ctx is done. If the Reader is also
// an io.Closer, it's closed to unblock a pending Read when ctx is done.
// io.EOF ends Run without error.
func (p *Pump) Run(ctx context.Context) error {
	var err error
	if closer, ok := p.Reader.(io.Closer); ok {
		err = framework.RunWithContextCloser(ctx, closer, p.readLoop)
	} else {
		err = framework.RunWithContext(ctx, p.readLoop)
	}
	if err == io.EOF {
		return nil
	}
	return err
}

func (p *Pump) readLoop() error {
	size := p.ReadSize
	if size <= 0 {
		size = 64
	}
	buf := make([]byte, size)
	for {
		n, err := p.Reader.Read(buf)
		if n > 0 {
			p.push(buf[:n])
		}
		if err != nil {
			return err
		}
	}
}

func (p *Pump) push(data []byte) {
	pushed, _ := p.Buffer.Write(data)
	dropped := len(data) - pushed
	p.stats.Update(func(s *Stats) {
		s.Received += uint64(len(data))
		s.Dropped += uint64(dropped)
	})
	if p.OnReceive != nil {
		p.OnReceive(len(data))
	}
	if dropped > 0 {
		glog.V(2).Infof("%s: buffer full, %d byte(s) dropped", p.name(), dropped)
		if p.OnDrop != nil {
			p.OnDrop(dropped)
		}
	}
	if pushed > 0 && p.Notify != nil {
		p.Notify()
	}
}
