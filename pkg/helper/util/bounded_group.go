// Package util carries the small concurrency helpers shared by the
// scheduler.
package util

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BoundedGroup runs goroutines with an upper bound on how many execute at
// once: an errgroup gated by a weighted semaphore. A limit of zero or less
// means no bound.
type BoundedGroup struct {
	group *errgroup.Group
	ctx   context.Context
	slots *semaphore.Weighted
}

// NewBoundedGroup creates a BoundedGroup whose goroutines share ctx.
func NewBoundedGroup(ctx context.Context, limit int) *BoundedGroup {
	g, ctx := errgroup.WithContext(ctx)
	bg := &BoundedGroup{group: g, ctx: ctx}
	if limit > 0 {
		bg.slots = semaphore.NewWeighted(int64(limit))
	}
	return bg
}

// Go schedules fn on the group. When a bound is set, fn waits for a free
// slot before running; a context cancellation while waiting becomes fn's
// error.
func (g *BoundedGroup) Go(fn func() error) {
	g.group.Go(func() error {
		if g.slots != nil {
			if err := g.slots.Acquire(g.ctx, 1); err != nil {
				return err
			}
			defer g.slots.Release(1)
		}
		return fn()
	})
}

// Wait blocks until every scheduled fn has returned and reports the first
// error.
func (g *BoundedGroup) Wait() error {
	return g.group.Wait()
}
