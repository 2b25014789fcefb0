package schedule

import "sync"

// Scheduler defers a continuation until after the current render pass.
type Scheduler interface {
	Tick(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Tick implements Scheduler.
func (f SchedulerFunc) Tick(fn func()) { f(fn) }

// Queue is a FIFO of deferred continuations.
// Tick is safe to call from any goroutine; Flush must be called from the
// goroutine that owns the widgets.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	notify chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Tick implements Scheduler.
func (q *Queue) Tick(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives a value after Tick is called on an
// empty or non-empty queue. Hosts that flush from an event loop select on it.
func (q *Queue) Ready() <-chan struct{} {
	return q.notify
}

// Pending returns the number of queued continuations.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs queued continuations until the queue is empty, including ones
// queued by continuations that ran during this flush. It returns how many
// continuations ran.
func (q *Queue) Flush() int {
	ran := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return ran
		}
		for _, task := range tasks {
			task()
			ran++
		}
	}
}

// FlushOnce runs only the continuations queued before the call.
// Continuations they queue stay pending.
func (q *Queue) FlushOnce() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

var defaultQueue = NewQueue()

// Default returns the process-wide queue used when a builder is not given
// a scheduler explicitly.
func Default() *Queue {
	return defaultQueue
}

// Flush drains the default queue.
func Flush() int {
	return defaultQueue.Flush()
}
