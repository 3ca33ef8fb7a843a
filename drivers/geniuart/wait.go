package geniuart

import (
	"context"
	"runtime"
)

// Waiter polls done until it reports true. It returns false if it gave up
// before that happened.
type Waiter interface {
	Until(done func() bool) bool
}

// Spin polls without bound. It is the only correct choice where no scheduler
// exists, and it never returns false.
type Spin struct{}

func (Spin) Until(done func() bool) bool {
	for !done() {
	}
	return true
}

// Budget gives up after Polls unsuccessful checks. Polls <= 0 checks once.
type Budget struct {
	Polls int
}

func (b Budget) Until(done func() bool) bool {
	for i := 0; ; i++ {
		if done() {
			return true
		}
		if i+1 >= b.Polls {
			return false
		}
	}
}

// ContextWaiter polls until done or Ctx is cancelled, yielding the processor
// between polls.
type ContextWaiter struct {
	Ctx context.Context
}

func (w ContextWaiter) Until(done func() bool) bool {
	for {
		if done() {
			return true
		}
		select {
		case <-w.Ctx.Done():
			return false
		default:
		}
		runtime.Gosched()
	}
}
