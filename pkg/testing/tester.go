package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/datacontroller"
	"github.com/go-drift/datacontroller/pkg/platform"
)

// ErrSettleTimeout is returned when DrainWithTimeout exceeds its timeout.
var ErrSettleTimeout = errors.New("DrainWithTimeout timed out: transactions did not settle")

// ControllerTester drives a Controller from a RunLoop standing in for the
// interactive thread.
type ControllerTester struct {
	loop       *platform.RunLoop
	controller *datacontroller.Controller
	delegate   *RecordingDelegate
}

// NewControllerTester creates a tester for src. opts.Dispatcher is replaced
// by the tester's run loop. Call Cleanup() when done, or use
// NewControllerTesterWithT() instead.
func NewControllerTester(src datacontroller.DataSource, opts datacontroller.Options) *ControllerTester {
	loop := platform.NewRunLoop()
	delegate := &RecordingDelegate{}
	opts.Dispatcher = loop
	return &ControllerTester{
		loop:       loop,
		controller: datacontroller.New(src, delegate, opts),
		delegate:   delegate,
	}
}

// NewControllerTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewControllerTesterWithT(t *testing.T, src datacontroller.DataSource, opts datacontroller.Options) *ControllerTester {
	tester := NewControllerTester(src, opts)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup stops the controller's editing queue and the run loop.
func (t *ControllerTester) Cleanup() {
	t.controller.Close()
	t.loop.Close()
}

// Controller returns the controller under test. Its methods must only be
// called through OnMain.
func (t *ControllerTester) Controller() *datacontroller.Controller {
	return t.controller
}

// Delegate returns the recording delegate.
func (t *ControllerTester) Delegate() *RecordingDelegate {
	return t.delegate
}

// OnMain runs fn on the run loop and waits for it.
func (t *ControllerTester) OnMain(fn func()) {
	t.loop.Sync(fn)
}

// Submit submits cs on the run loop.
func (t *ControllerTester) Submit(cs datacontroller.ChangeSet) error {
	var err error
	t.OnMain(func() { err = t.controller.Submit(cs) })
	return err
}

// SubmitAndDrain submits cs and waits for it to publish.
func (t *ControllerTester) SubmitAndDrain(cs datacontroller.ChangeSet) error {
	var err error
	t.OnMain(func() {
		err = t.controller.Submit(cs)
		t.controller.DrainPending()
	})
	return err
}

// Drain runs DrainPending on the run loop.
func (t *ControllerTester) Drain() {
	t.OnMain(t.controller.DrainPending)
}

// DrainWithTimeout is Drain with an upper bound on the wait. On timeout the
// data source is detached, layout in flight is abandoned and
// ErrSettleTimeout is returned; see Controller.DrainPendingContext.
func (t *ControllerTester) DrainWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	var err error
	t.OnMain(func() { err = t.controller.DrainPendingContext(ctx) })
	if err != nil {
		return ErrSettleTimeout
	}
	return nil
}

// Visible returns the visible snapshot, read on the run loop.
func (t *ControllerTester) Visible() *collection.ElementMap {
	var m *collection.ElementMap
	t.OnMain(func() { m = t.controller.VisibleMap() })
	return m
}

// Pending returns the pending snapshot, read on the run loop.
func (t *ControllerTester) Pending() *collection.ElementMap {
	var m *collection.ElementMap
	t.OnMain(func() { m = t.controller.PendingMap() })
	return m
}

// Find evaluates a finder against the visible snapshot.
func (t *ControllerTester) Find(finder Finder) FinderResult {
	return FindIn(t.Visible(), finder)
}
