// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package parallel runs independent CPU shading jobs on a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed pool of goroutines pulling jobs from one queue.
//
// Jobs submitted in one ExecuteAll call must not write to the same memory;
// the software renderer hands each job a disjoint band of rows.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	running atomic.Bool
	closeMu sync.Mutex
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan func(), workers*4),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// ExecuteAll runs every job and waits for all of them to finish.
// On a closed pool the jobs run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.closeMu.Lock()
	if !p.running.Load() {
		p.closeMu.Unlock()
		for _, fn := range work {
			fn()
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(work))
	for _, fn := range work {
		p.jobs <- func() {
			defer done.Done()
			fn()
		}
	}
	p.closeMu.Unlock()
	done.Wait()
}

// Close stops the workers after queued jobs finish. Safe to call twice.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closeMu.Unlock()
		return
	}
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
