package platform

import "sync"

// MainQueue collects closures that must run on the interactive thread, in
// order, and lets that thread run them early with Drain.
//
// Every Perform also schedules a Drain through the dispatcher, so queued work
// runs on its own eventually. Drain exists for callers that need the
// interactive-thread side settled right now, such as a blocking wait for
// pending transactions.
type MainQueue struct {
	mu         sync.Mutex
	blocks     []func()
	dispatcher Dispatcher
}

// NewMainQueue returns a queue that schedules drains through d.
// A nil dispatcher means blocks only run on an explicit Drain.
func NewMainQueue(d Dispatcher) *MainQueue {
	return &MainQueue{dispatcher: d}
}

// Perform enqueues fn to run on the interactive thread.
func (q *MainQueue) Perform(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.blocks = append(q.blocks, fn)
	q.mu.Unlock()
	if q.dispatcher != nil {
		q.dispatcher.Dispatch(q.Drain)
	}
}

// Drain runs queued closures until the queue is empty, including closures
// enqueued while draining. It must be called on the interactive thread.
func (q *MainQueue) Drain() {
	for {
		q.mu.Lock()
		if len(q.blocks) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.blocks[0]
		q.blocks[0] = nil
		q.blocks = q.blocks[1:]
		q.mu.Unlock()
		fn()
	}
}

// Len returns the number of queued closures.
func (q *MainQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.blocks)
}
