package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize is large enough that hung gateway calls cannot starve
// other requests.
const DefaultPoolSize = 512

// Pool bounds how many blocking external-process calls run at once. Work
// handed to Do runs on its own goroutine so a panic in it is reported as an
// error instead of taking the request down.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool returns a pool with size slots. A size of zero or less means
// unbounded.
func NewPool(size int) *Pool {
	if size < 1 {
		return &Pool{}
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Do waits for a free slot, runs fn on it and returns fn's error.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("acquire worker slot: %w", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		defer p.release()
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("worker panicked: %v", r)
			}
		}()
		done <- fn()
	}()

	return <-done
}

func (p *Pool) release() {
	if p.sem != nil {
		p.sem.Release(1)
	}
}
