package service

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// Task is a delayed operation with exactly one outcome: the value produced by
// its function, or ErrCanceled when canceled before the delay elapsed.
type Task[T any] struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
	val   T
	err   error
}

// After schedules fn to run once d has elapsed.
func After[T any](d time.Duration, fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	t.timer = time.AfterFunc(d, func() {
		v, err := fn()
		t.finish(v, err)
	})
	return t
}

func (t *Task[T]) finish(v T, err error) {
	t.once.Do(func() {
		t.val, t.err = v, err
		close(t.done)
	})
}

// Done is closed once the task has an outcome.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the outcome is known or ctx ends. A ctx error does not
// cancel the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel stops a task whose function has not started yet. It reports whether
// the cancellation took effect.
func (t *Task[T]) Cancel() bool {
	if !t.timer.Stop() {
		return false
	}
	var zero T
	t.finish(zero, domain.ErrCanceled)
	return true
}
