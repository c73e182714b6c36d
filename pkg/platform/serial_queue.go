package platform

import (
	"sync"

	"github.com/go-drift/datacontroller/pkg/errors"
)

// SerialQueue runs submitted closures one at a time, in submission order, on
// a single dedicated goroutine.
//
// A closure that panics is reported through errors.ReportPanic and does not
// stop the queue.
type SerialQueue struct {
	name    string
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewSerialQueue starts a queue. The name is used in panic reports.
func NewSerialQueue(name string) *SerialQueue {
	q := &SerialQueue{
		name: name,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Async enqueues fn. Returns false if the queue is closed or fn is nil.
func (q *SerialQueue) Async(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
	q.signal()
	return true
}

// Sync enqueues fn and blocks until it has run.
// Calling Sync from a closure running on the same queue deadlocks.
func (q *SerialQueue) Sync(fn func()) bool {
	done := make(chan struct{})
	if !q.Async(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	<-done
	return true
}

// Wait blocks until every closure enqueued before the call has run.
func (q *SerialQueue) Wait() {
	q.Sync(func() {})
}

// Pending returns the number of closures waiting to run.
func (q *SerialQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Closed reports whether Close has been called.
func (q *SerialQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// Close stops accepting work, runs what is already queued and waits for the
// worker goroutine to exit. Close is idempotent.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.signal()
	<-q.done
}

func (q *SerialQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *SerialQueue) run() {
	defer close(q.done)
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.queue) == 0 {
				stopped := q.stopped
				q.mu.Unlock()
				if stopped {
					return
				}
				break
			}
			fn := q.queue[0]
			q.queue[0] = nil
			q.queue = q.queue[1:]
			q.mu.Unlock()
			q.invoke(fn)
		}
	}
}

func (q *SerialQueue) invoke(fn func()) {
	defer errors.Recover(q.name, nil)
	fn()
}
