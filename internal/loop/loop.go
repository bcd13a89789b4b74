// Package loop runs scripting work on a single goroutine.
//
// Event callbacks, timer callbacks, and REPL/IPC evaluation all execute
// as discrete tasks interleaved on one goroutine, so nothing in the
// scripting core needs locks and no two pieces of script code ever run
// concurrently. Deferred work is scheduled as a future task, never as an
// in-flight coroutine holding state across a suspension.
package loop

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrStopped is returned by Post after the loop has shut down.
var ErrStopped = errors.New("loop: stopped")

// Task is one unit of scripting work.
type Task func()

// Loop executes posted tasks in order on its Run goroutine.
type Loop struct {
	tasks chan Task
	done  chan struct{}
	log   *zap.Logger
}

// New creates a Loop. A nil logger is replaced with a no-op logger.
func New(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		tasks: make(chan Task, 64),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Run processes tasks until ctx is canceled. A panicking task is
// recovered and logged; it does not take the loop down. Run returns the
// context error after the loop drains.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			// Drain what is already queued so a caller that posted
			// before cancellation still runs.
			for {
				select {
				case t := <-l.tasks:
					l.run(t)
				default:
					return ctx.Err()
				}
			}
		case t := <-l.tasks:
			l.run(t)
		}
	}
}

// Post queues a task for execution on the loop goroutine.
func (l *Loop) Post(t Task) error {
	select {
	case <-l.done:
		return ErrStopped
	case l.tasks <- t:
		return nil
	}
}

// PostAfter schedules a task to be posted after d. The returned cancel
// function stops the timer if it has not fired.
func (l *Loop) PostAfter(d time.Duration, t Task) (cancel func()) {
	timer := time.AfterFunc(d, func() {
		if err := l.Post(t); err != nil {
			l.log.Debug("deferred task dropped", zap.Error(err))
		}
	})
	return func() { timer.Stop() }
}

func (l *Loop) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("task panicked", zap.Any("panic", r))
		}
	}()
	t()
}
