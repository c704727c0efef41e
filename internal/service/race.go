package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// raceDeadline runs fn under a deadline of d derived from ctx.
//
// Whichever side finishes first decides the result: fn's value or error, or
// ErrTimeout once the deadline (or a parent deadline) passes. The deadline timer is
// released on every path, and fn's goroutine reports into a buffered channel so it
// can exit after losing the race. fn should return once its context is done.
func raceDeadline[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		var o outcome
		defer func() {
			if p := recover(); p != nil {
				o = outcome{err: fmt.Errorf("extraction panicked: %v", p)}
			}
			done <- o
		}()
		o.val, o.err = fn(ctx)
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w (%s)", ErrTimeout, d)
		}
		return zero, ctx.Err()
	}
}
