// Package pool bounds concurrent category fetches with an ants goroutine pool.
package pool

import (
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// Ensure AntsPool implements the interface.
var _ driven.WorkerPool = (*AntsPool)(nil)

// AntsPool is a driven.WorkerPool backed by ants. Submit blocks while every
// worker is busy.
type AntsPool struct {
	pool *ants.Pool
}

// NewAntsPool creates a pool with size workers.
func NewAntsPool(size int) (*AntsPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	return &AntsPool{pool: p}, nil
}

// Submit schedules task on a free worker.
func (p *AntsPool) Submit(task func()) error {
	return p.pool.Submit(task)
}

// Resize changes the number of workers.
func (p *AntsPool) Resize(size int) {
	if size > 0 {
		p.pool.Tune(size)
	}
}

// Cap returns the number of workers.
func (p *AntsPool) Cap() int {
	return p.pool.Cap()
}

// Release stops the pool. Submit fails afterwards.
func (p *AntsPool) Release() {
	p.pool.Release()
}
