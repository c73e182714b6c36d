package datacontroller

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/layout"
)

// layoutAndPublish runs on the editing queue. It measures every element of
// next that still needs layout, then queues publication on the interactive
// thread.
//
// If the data source goes away the layout result is empty, but next is
// still published: its structure is valid, and the unmeasured elements are
// picked up by the next transaction's layout.
func (c *Controller) layoutAndPublish(txn string, cs ChangeSet, next *collection.ElementMap) {
	log := c.logger.With(slog.String("txn", txn))

	var items []layout.Measurable
	for _, e := range next.All() {
		if e.NeedsLayout() {
			items = append(items, e)
		}
	}

	start := time.Now()
	results := c.engine.Run(context.Background(), items, c.alive)
	if len(items) > 0 && results == nil {
		errors.Report(&errors.ControllerError{
			Op:          "datacontroller.layout",
			Kind:        errors.KindProviderUnavailable,
			Err:         errors.ErrProviderUnavailable,
			Transaction: txn,
		})
	}
	log.Debug("transaction laid out",
		slog.Int("elements", len(items)),
		slog.Int("measured", len(results)),
		slog.Duration("took", time.Since(start)))

	c.main.Perform(func() { c.publish(txn, cs, next) })
}

// publish runs on the interactive thread.
func (c *Controller) publish(txn string, cs ChangeSet, next *collection.ElementMap) {
	if c.delegate != nil {
		c.delegate.WillPublish(cs)
	}
	c.visible = next
	if c.delegate != nil {
		c.delegate.DidPublish(cs)
	}
	cs.Complete(true)
	c.logger.Debug("transaction published", slog.String("txn", txn), slog.Uint64("version", next.Version()))
}
