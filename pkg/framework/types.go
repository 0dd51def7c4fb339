package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners,
// e.g. byte producers feeding a buffer.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is anything passed between controllers of the same loop,
// e.g. a decoded frame from a driver to a publisher.
type Message interface{}

// Controller is polled once per loop iteration. It must not block.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// ControlContext provides the context of current polling iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// AddMessages appends messages for controllers running later in
	// this iteration.
	AddMessages(msgs ...Message)
	// ProcessMessages calls fn with every pending message, in order.
	// Messages for which fn returns true are removed.
	ProcessMessages(fn func(Message) bool)
	// TriggerNext schedules the next iteration immediately.
	TriggerNext()
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefined priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is the level drivers scan their buffers at.
	PrLvSense = PrLvHigh
	// PrLvControl is the level for logic consuming decoded frames.
	PrLvControl = PrLvNormal
	// PrLvPostProc is the level for publishing and bookkeeping.
	PrLvPostProc = PrLvIdle - 1
)
