// Package datacontroller keeps a virtualized list's element snapshots in
// step with its data source.
//
// Updates are submitted as change-sets on the interactive thread. Each
// submission is reconciled synchronously into a new pending snapshot, laid
// out on the controller's serial editing queue, and then published as the
// visible snapshot back on the interactive thread:
//
//	ctrl := datacontroller.New(source, delegate, datacontroller.Options{Dispatcher: loop})
//	loop.Sync(func() {
//	    _ = ctrl.Submit(changeset.Reload())
//	    ctrl.DrainPending()
//	    visible := ctrl.VisibleMap()
//	    _ = visible
//	})
//
// Transactions publish in submission order and never interleave.
package datacontroller

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/platform"
)

// Options configures a Controller.
type Options struct {
	// Workers bounds layout parallelism. Zero uses runtime.GOMAXPROCS(0).
	Workers int
	// BatchSize is the layout batch size. Zero derives it from Workers;
	// layout.BatchAll measures each transaction in one batch.
	BatchSize int
	// Dispatcher runs publication on the interactive thread. Nil uses
	// platform.GlobalDispatcher.
	Dispatcher platform.Dispatcher
	// Logger receives debug records. Nil discards.
	Logger *slog.Logger
}

// Controller is the transaction scheduler for one list.
//
// Submit, DrainPending, RelayoutAll, SetDataSource and the snapshot getters
// must be called on the interactive thread. The snapshots they return are
// immutable and may be read anywhere.
type Controller struct {
	source   atomic.Pointer[sourceRef]
	delegate Delegate
	engine   *layout.Engine
	logger   *slog.Logger
	editing  *platform.SerialQueue
	main     *platform.MainQueue

	// Interactive-thread state.
	pending        *collection.ElementMap
	visible        *collection.ElementMap
	itemCounts     []int
	nextSectionID  int
	version        uint64
	hasInitialLoad bool
}

// New returns a controller for source. delegate may be nil.
func New(source DataSource, delegate Delegate, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = platform.GlobalDispatcher
	}
	empty := collection.NewElementMap()
	c := &Controller{
		delegate: delegate,
		engine: layout.NewEngine(layout.Options{
			Workers:   opts.Workers,
			BatchSize: opts.BatchSize,
			Logger:    logger,
		}),
		logger:  logger,
		editing: platform.NewSerialQueue("datacontroller.editing"),
		main:    platform.NewMainQueue(dispatcher),
		pending: empty,
		visible: empty,
	}
	c.SetDataSource(source)
	return c
}

// SetDataSource replaces the data source and probes its capabilities.
// Passing nil detaches it: layout in flight is abandoned and later
// submissions fail until a source is set again.
func (c *Controller) SetDataSource(source DataSource) {
	if source == nil {
		c.source.Store(nil)
		return
	}
	ref := &sourceRef{src: source, caps: ProbeCapabilities(source)}
	c.source.Store(ref)
	c.logger.Debug("data source set", slog.String("type", fmt.Sprintf("%T", source)), slog.String("caps", ref.caps.String()))
}

// Capabilities returns the optional interfaces of the current data source.
func (c *Controller) Capabilities() Capabilities {
	if ref := c.source.Load(); ref != nil {
		return ref.caps
	}
	return 0
}

// PendingMap returns the snapshot of the most recent submission, which may
// still be laying out.
func (c *Controller) PendingMap() *collection.ElementMap {
	return c.pending
}

// VisibleMap returns the last published snapshot.
func (c *Controller) VisibleMap() *collection.ElementMap {
	return c.visible
}

// Engine returns the layout engine.
func (c *Controller) Engine() *layout.Engine {
	return c.engine
}

// Submit reconciles cs into a new pending snapshot and schedules its layout
// and publication.
//
// Updates submitted before the first reload are dropped and completed
// immediately. An update whose deltas do not match the data source's counts
// returns an error wrapping *errors.InvalidUpdateError and leaves every
// snapshot untouched. After Close, Submit completes cs unfinished and
// returns an error wrapping errors.ErrClosed.
func (c *Controller) Submit(cs ChangeSet) error {
	txn := uuid.NewString()
	log := c.logger.With(slog.String("txn", txn))

	if c.editing.Closed() {
		return c.reject(txn, cs, errors.KindClosed, errors.ErrClosed)
	}

	if !c.hasInitialLoad && !cs.IncludesReload() {
		log.Debug("update dropped before initial reload")
		cs.Complete(true)
		return nil
	}

	ref := c.source.Load()
	if ref == nil {
		return c.reject(txn, cs, errors.KindProviderUnavailable, errors.ErrProviderUnavailable)
	}

	newCounts := fetchItemCounts(ref.src)
	delta, err := cs.Validate(c.itemCounts, newCounts)
	if err != nil {
		var invalid *errors.InvalidUpdateError
		if stderrors.As(err, &invalid) && invalid.Responsible == "" {
			invalid.Responsible = fmt.Sprintf("%T", ref.src)
		}
		return c.reject(txn, cs, errors.KindInvalidUpdate, err)
	}

	prev := c.saveState()
	c.itemCounts = newCounts
	if delta.Reload {
		c.hasInitialLoad = true
	}

	m := c.pending.MutableCopy()
	c.reconcile(m, delta, ref)
	c.version++
	next := m.Freeze(c.version)
	c.pending = next

	if !c.editing.Async(func() { c.layoutAndPublish(txn, cs, next) }) {
		c.restoreState(prev)
		return c.reject(txn, cs, errors.KindClosed, errors.ErrClosed)
	}

	log.Debug("transaction reconciled",
		slog.Uint64("version", next.Version()),
		slog.Int("sections", next.NumberOfSections()),
		slog.Int("elements", next.Count()))
	return nil
}

// reject reports a failed submission and completes cs unfinished.
func (c *Controller) reject(txn string, cs ChangeSet, kind errors.ErrorKind, err error) error {
	cerr := &errors.ControllerError{
		Op:          "datacontroller.Submit",
		Kind:        kind,
		Err:         err,
		Transaction: txn,
	}
	errors.Report(cerr)
	cs.Complete(false)
	return cerr
}

// submitState is the interactive-thread state a submission may change.
type submitState struct {
	pending        *collection.ElementMap
	itemCounts     []int
	nextSectionID  int
	version        uint64
	hasInitialLoad bool
}

func (c *Controller) saveState() submitState {
	return submitState{
		pending:        c.pending,
		itemCounts:     c.itemCounts,
		nextSectionID:  c.nextSectionID,
		version:        c.version,
		hasInitialLoad: c.hasInitialLoad,
	}
}

func (c *Controller) restoreState(p submitState) {
	c.pending = p.pending
	c.itemCounts = p.itemCounts
	c.nextSectionID = p.nextSectionID
	c.version = p.version
	c.hasInitialLoad = p.hasInitialLoad
}

// DrainPending blocks until every submitted transaction has been laid out
// and published. It waits for the editing queue, then runs the publications
// it queued inline.
func (c *Controller) DrainPending() {
	c.editing.Wait()
	c.main.Drain()
}

// DrainPendingContext is DrainPending bounded by ctx. If ctx ends first the
// data source is detached, so layout in flight is abandoned and the
// remaining transactions publish unmeasured; it then returns ctx.Err().
// Set a data source again to keep using the controller.
func (c *Controller) DrainPendingContext(ctx context.Context) error {
	done := make(chan struct{})
	if !c.editing.Async(func() { close(done) }) {
		c.main.Drain()
		return nil
	}
	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		c.logger.Debug("drain interrupted, detaching data source", slog.Any("err", err))
		c.SetDataSource(nil)
		<-done
	}
	c.main.Drain()
	return err
}

// Close stops the editing queue after the queued transactions have been
// laid out. Their publications still need the interactive thread, or a
// final DrainPending. Later submissions fail with errors.ErrClosed.
func (c *Controller) Close() {
	c.editing.Close()
}

func (c *Controller) alive() bool {
	return c.source.Load() != nil
}

func fetchItemCounts(src DataSource) []int {
	n := src.NumberOfSections()
	counts := make([]int, n)
	for s := range n {
		counts[s] = src.NumberOfItems(s)
	}
	return counts
}
