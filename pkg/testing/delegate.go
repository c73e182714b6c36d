package testing

import (
	"sync"

	"github.com/go-drift/datacontroller/pkg/datacontroller"
)

// Phase names a publication notification.
type Phase string

const (
	PhaseWillPublish Phase = "will"
	PhaseDidPublish  Phase = "did"
)

// Event is one recorded publication notification.
type Event struct {
	Phase     Phase
	ChangeSet datacontroller.ChangeSet
}

// RecordingDelegate records publication notifications in order.
// Hooks, if set, run after the event is recorded.
type RecordingDelegate struct {
	mu     sync.Mutex
	events []Event

	OnWillPublish func(cs datacontroller.ChangeSet)
	OnDidPublish  func(cs datacontroller.ChangeSet)
}

// WillPublish implements datacontroller.Delegate.
func (d *RecordingDelegate) WillPublish(cs datacontroller.ChangeSet) {
	d.record(PhaseWillPublish, cs)
	if d.OnWillPublish != nil {
		d.OnWillPublish(cs)
	}
}

// DidPublish implements datacontroller.Delegate.
func (d *RecordingDelegate) DidPublish(cs datacontroller.ChangeSet) {
	d.record(PhaseDidPublish, cs)
	if d.OnDidPublish != nil {
		d.OnDidPublish(cs)
	}
}

// Events returns a copy of the recorded events.
func (d *RecordingDelegate) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.events...)
}

// Published returns the change-sets that finished publishing, in order.
func (d *RecordingDelegate) Published() []datacontroller.ChangeSet {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []datacontroller.ChangeSet
	for _, e := range d.events {
		if e.Phase == PhaseDidPublish {
			out = append(out, e.ChangeSet)
		}
	}
	return out
}

// Reset clears the recorded events.
func (d *RecordingDelegate) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}

func (d *RecordingDelegate) record(phase Phase, cs datacontroller.ChangeSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Phase: phase, ChangeSet: cs})
}
