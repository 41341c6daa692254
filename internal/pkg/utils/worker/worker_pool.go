package worker

import "sync"

// WorkerPool manages a pool of workers sharing one buffered task queue
type WorkerPool struct {
	workers  []*Worker
	queue    chan Task
	stopOnce sync.Once
}

// NewWorkerPool creates a new WorkerPool with the specified number of workers
func NewWorkerPool(numWorkers, bufferSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	pool := &WorkerPool{
		workers: make([]*Worker, numWorkers),
		queue:   make(chan Task, bufferSize),
	}

	for i := 0; i < numWorkers; i++ {
		worker := NewWorker(pool.queue)
		worker.Start()
		pool.workers[i] = worker
	}

	return pool
}

// Submit queues a task, blocking while the queue is full
func (p *WorkerPool) Submit(task Task) {
	p.queue <- task
}

// Close stops accepting tasks and waits until every queued task has run
func (p *WorkerPool) Close() {
	p.stopOnce.Do(func() {
		close(p.queue)
		for _, worker := range p.workers {
			<-worker.done
		}
	})
}

// Stop stops all workers in the pool, abandoning queued tasks
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		for _, worker := range p.workers {
			worker.Stop()
		}
	})
}

// Size returns the number of workers
func (p *WorkerPool) Size() int {
	return len(p.workers)
}
