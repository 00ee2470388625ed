package kdtree

import (
	"runtime"
	"sync"
)

// Per-worker scratch state. Each context is owned by exactly one worker (or
// by the goroutine driving an inline build) and is reused across all nodes
// that worker processes.
type workerContext struct {
	id     int
	events []sahEvent
}

// A task executed by the worker pool.
type poolTask func(ctx *workerContext)

// A fixed-size pool of build workers. Tasks may submit further tasks; if the
// queue is full the submitting worker runs the task itself so the pool can
// never deadlock on its own backlog.
type workerPool struct {
	tasks   chan poolTask
	pending sync.WaitGroup
	workers sync.WaitGroup
	size    int
}

// Start a worker pool. A size of 0 uses one worker per available CPU.
func newWorkerPool(size int) *workerPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	p := &workerPool{
		tasks: make(chan poolTask, 4*size),
		size:  size,
	}

	p.workers.Add(size)
	for id := 0; id < size; id++ {
		go p.run(&workerContext{id: id})
	}
	return p
}

func (p *workerPool) run(ctx *workerContext) {
	defer p.workers.Done()
	for task := range p.tasks {
		task(ctx)
		p.pending.Done()
	}
}

// Queue a task. The caller context is used to run the task inline if the
// queue is full; a nil context blocks until a worker accepts the task.
func (p *workerPool) submit(caller *workerContext, task poolTask) {
	p.pending.Add(1)
	if caller == nil {
		p.tasks <- task
		return
	}

	select {
	case p.tasks <- task:
	default:
		task(caller)
		p.pending.Done()
	}
}

// Wait for all submitted tasks (including tasks they submitted) to complete.
func (p *workerPool) wait() {
	p.pending.Wait()
}

// Stop all workers. The pool must not be used afterwards.
func (p *workerPool) close() {
	close(p.tasks)
	p.workers.Wait()
}
