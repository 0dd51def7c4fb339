package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Loop is the cooperative main loop. Every iteration polls all controllers
// in priority order. Iterations run on a ticker, or immediately after
// TriggerNext, e.g. when a producer has pushed new bytes.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	posted []Message
	lock   sync.Mutex

	wakeUpCh chan struct{}
	once     sync.Once
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: 100 * time.Millisecond}
}

func (l *Loop) wakeUp() chan struct{} {
	l.once.Do(func() {
		l.wakeUpCh = make(chan struct{}, 1)
	})
	return l.wakeUpCh
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level.
// Controllers which are also Runnable are started with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnables started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// PostMessage enqueues a message for the next iteration.
// It's safe to call from any goroutine.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.posted = append(l.posted, msg)
	l.lock.Unlock()
	l.TriggerNext()
}

// TriggerNext schedules the next iteration immediately.
// It's safe to call from any goroutine.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUp() <- struct{}{}:
	default:
	}
}

// Run implements Runnable. It stops when ctx is done or any Runnable
// added to the loop fails.
func (l *Loop) Run(ctx context.Context) error {
	wakeUpCh := l.wakeUp()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	failCh := make(chan error, 1)
	runner := NewRunnerWith(ctx)
	for _, r := range l.runners {
		r := r
		runner.Go(RunFunc(func(ctx context.Context) error {
			err := r.Run(ctx)
			if err != nil && err != context.Canceled {
				select {
				case failCh <- err:
				default:
				}
				cancel()
			}
			return err
		}))
	}
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-failCh:
				return err
			default:
				return ctx.Err()
			}
		case <-ticker.C:
			l.RunOnce(ctx)
		case <-wakeUpCh:
			l.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single iteration.
func (l *Loop) RunOnce(ctx context.Context) {
	iter := &iteration{loop: l, ctx: ctx, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.posted = l.posted, nil
	l.lock.Unlock()
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if len(iter.messages) > 0 {
		glog.V(3).Infof("%d message(s) not consumed", len(iter.messages))
	}
}

type iteration struct {
	loop          *Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) PriorityLevel() int       { return t.priorityLevel }
func (t *iteration) TriggerNext()             { t.loop.TriggerNext() }

func (t *iteration) AddMessages(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

func (t *iteration) ProcessMessages(fn func(Message) bool) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	for i := len(remains); i < len(t.messages); i++ {
		t.messages[i] = nil
	}
	t.messages = remains
}
