package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunOnceOrderAndMessages(t *testing.T) {
	var order []int
	var got []Message
	l := NewLoop().
		AddController(PrLvPostProc, ControlFunc(func(ctx ControlContext) error {
			order = append(order, ctx.PriorityLevel())
			ctx.ProcessMessages(func(msg Message) bool {
				got = append(got, msg)
				return msg.(int) != 2
			})
			return nil
		})).
		AddController(PrLvSense, ControlFunc(func(ctx ControlContext) error {
			order = append(order, ctx.PriorityLevel())
			ctx.AddMessages(1, 2, 3)
			return nil
		}))
	l.PostMessage(0)
	l.RunOnce(context.Background())
	require.Equal(t, []int{PrLvSense, PrLvPostProc}, order)
	require.Equal(t, []Message{0, 1, 2, 3}, got)
}

func TestRunStopsOnRunnableFailure(t *testing.T) {
	failure := errors.New("source closed")
	l := NewLoop().AddRunnable(RunFunc(func(context.Context) error {
		return failure
	}))
	l.Interval = time.Hour
	err := l.Run(context.Background())
	require.Equal(t, failure, err)
}

func TestTriggerNextRunsIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	polled := make(chan struct{}, 1)
	l := NewLoop().AddController(PrLvSense, ControlFunc(func(ControlContext) error {
		select {
		case polled <- struct{}{}:
		default:
		}
		return nil
	}))
	l.Interval = time.Hour
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	l.TriggerNext()
	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("not polled")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
