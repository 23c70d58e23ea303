// Package idle provides cooperative task queues for low-priority
// background work. A queue runs its tasks strictly in enqueue order,
// one at a time, yielding between units so interactive work is never
// delayed by more than one task's duration.
//
// Two implementations are provided. TaskQueue drains itself on a
// background goroutine and suits hosts without an idle-callback
// mechanism of their own. ManualQueue runs only when the host pumps it,
// which matches event loops that expose idle time slices explicitly and
// makes tests deterministic.
package idle

import (
	"runtime"
	"sync"
)

// Task is one unit of idle work.
type Task func()

// Queue accepts units of work and executes them during otherwise-unused
// time. Cancel drops units that have not started; a unit already
// mid-execution is never interrupted. Cancel does not block and is safe
// to call from a task. Enqueue after Cancel is a no-op.
type Queue interface {
	Enqueue(Task)
	Cancel()
}

// TaskQueue is a Queue drained by a background goroutine.
// Tasks run in FIFO order, one at a time, with a scheduler yield
// between units. The goroutine exits after Cancel.
type TaskQueue struct {
	mu        sync.Mutex
	tasks     []Task
	cancelled bool
	wake      chan struct{} // buffered(1): non-blocking nudge for the worker
}

// NewTaskQueue creates a queue and starts its worker goroutine.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{wake: make(chan struct{}, 1)}
	go q.run()
	return q
}

// Enqueue adds a task to the back of the queue.
func (q *TaskQueue) Enqueue(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	if q.cancelled {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
	q.signal()
}

// Cancel drops all pending tasks and stops the worker once any task
// currently executing returns.
func (q *TaskQueue) Cancel() {
	q.mu.Lock()
	q.cancelled = true
	q.tasks = nil
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of tasks that have not started.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *TaskQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *TaskQueue) run() {
	for {
		q.mu.Lock()
		if q.cancelled {
			q.mu.Unlock()
			return
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			<-q.wake
			continue
		}
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		t()
		// Yield between units so the queue never monopolizes a processor.
		runtime.Gosched()
	}
}

// ManualQueue is a Queue the host pumps from its own idle callbacks.
// Nothing runs until RunNext or RunAll is called.
type ManualQueue struct {
	mu        sync.Mutex
	tasks     []Task
	cancelled bool
}

// NewManualQueue creates an empty host-pumped queue.
func NewManualQueue() *ManualQueue {
	return &ManualQueue{}
}

// Enqueue adds a task to the back of the queue.
func (q *ManualQueue) Enqueue(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancelled {
		return
	}
	q.tasks = append(q.tasks, t)
}

// Cancel drops all pending tasks. Subsequent Enqueue calls are ignored.
func (q *ManualQueue) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelled = true
	q.tasks = nil
}

// RunNext executes the oldest pending task. It returns false if the
// queue was empty or cancelled. The task runs without the queue lock
// held, so it may enqueue further work.
func (q *ManualQueue) RunNext() bool {
	q.mu.Lock()
	if q.cancelled || len(q.tasks) == 0 {
		q.mu.Unlock()
		return false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.mu.Unlock()

	t()
	return true
}

// RunAll pumps the queue until it is empty or cancelled and returns the
// number of tasks executed. Tasks enqueued while draining run too.
func (q *ManualQueue) RunAll() int {
	n := 0
	for q.RunNext() {
		n++
	}
	return n
}

// Len returns the number of pending tasks.
func (q *ManualQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
