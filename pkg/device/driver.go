// Package device contains the polling side of byte-stream device drivers.
package device

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/streams/ring"
	"github.com/robotalks/streams.go/pkg/streams/scan"
)

// DefaultMaxMatchesPerPoll bounds how many frames one poll decodes.
const DefaultMaxMatchesPerPoll = 16

// Observer is told about every scan a Driver performs.
type Observer interface {
	ObserveScan(driver string, res scan.Result)
}

// Driver scans its receive buffer once per loop iteration.
type Driver[T any] struct {
	Name     string
	Buffer   *ring.Buffer
	Scanner  *scan.Scanner[T]
	Target   *T
	Observer Observer
	// Emit converts a match into a message passed to controllers running
	// later in the same iteration. Optional.
	Emit func(res scan.Result, target *T) fx.Message
	// MaxMatchesPerPoll bounds the frames decoded per Control call.
	// The next iteration is triggered immediately when it's reached.
	MaxMatchesPerPoll int
}

// New creates a Driver.
func New[T any](name string, buf *ring.Buffer, scanner *scan.Scanner[T], target *T) *Driver[T] {
	return &Driver[T]{
		Name:              name,
		Buffer:            buf,
		Scanner:           scanner,
		Target:            target,
		MaxMatchesPerPoll: DefaultMaxMatchesPerPoll,
	}
}

// AddToLoop implements framework.LoopAdder.
func (d *Driver[T]) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, d)
}

// Poll scans until no branch matches or MaxMatchesPerPoll is reached,
// calling emit after every match. limited reports the limit was reached.
func (d *Driver[T]) Poll(emit func(scan.Result)) (matches int, limited bool) {
	max := d.MaxMatchesPerPoll
	if max <= 0 {
		max = DefaultMaxMatchesPerPoll
	}
	for matches < max {
		res := d.Scanner.Scan(d.Buffer, d.Target)
		if d.Observer != nil {
			d.Observer.ObserveScan(d.Name, res)
		}
		if !res.Matched() {
			return matches, false
		}
		matches++
		if emit != nil {
			emit(res)
		}
	}
	glog.V(3).Infof("%s: %d matches in one poll, %d byte(s) left", d.Name, matches, d.Buffer.Size())
	return matches, true
}

// Control implements framework.Controller.
func (d *Driver[T]) Control(ctx fx.ControlContext) error {
	var emit func(scan.Result)
	if d.Emit != nil {
		emit = func(res scan.Result) {
			if msg := d.Emit(res, d.Target); msg != nil {
				ctx.AddMessages(msg)
			}
		}
	}
	if _, limited := d.Poll(emit); limited {
		ctx.TriggerNext()
	}
	return nil
}
