package worker

// Task represents a unit of work to be processed by a worker
type Task func()

// Worker is a goroutine that processes tasks from the pool's shared queue
type Worker struct {
	taskQueue <-chan Task
	stop      chan struct{}
	done      chan struct{}
}

// NewWorker creates a new Worker reading from queue
func NewWorker(queue <-chan Task) *Worker {
	return &Worker{
		taskQueue: queue,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start starts the worker to process tasks
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		for {
			select {
			case task, ok := <-w.taskQueue:
				if !ok {
					return
				}
				task()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop stops the worker without draining the queue
func (w *Worker) Stop() {
	close(w.stop)
}
