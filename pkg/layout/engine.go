package layout

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

const (
	// BatchMultiplier is the number of elements per worker in a default batch.
	BatchMultiplier = 5
	// BatchAll disables batching: the whole call is one batch.
	BatchAll = -1
)

// Options configures an Engine.
type Options struct {
	// Workers bounds per-batch parallelism. Zero uses runtime.GOMAXPROCS(0).
	Workers int
	// BatchSize is the number of elements per batch. Zero uses
	// Workers*BatchMultiplier; BatchAll processes everything at once.
	BatchSize int
	// Logger receives debug records. Nil discards.
	Logger *slog.Logger
	// OnBatch, if set, is called after each batch has been fully measured.
	OnBatch func(batch int, measured []Measurement)
}

// Measurement is the result of laying out one Measurable.
type Measurement struct {
	// Index is the position of the element in the input slice.
	Index int
	// Node is the materialized node.
	Node Node
	// Size is the measured size. Zero when the size range has no area.
	Size rendering.Size
	// Measured reports whether Measure ran during this call.
	Measured bool
}

// Engine materializes and measures nodes in ordered, bounded batches.
// An Engine holds no per-call state and may be shared.
type Engine struct {
	workers   int
	batchSize int
	logger    *slog.Logger
	onBatch   func(int, []Measurement)
}

// NewEngine returns an engine for opts.
func NewEngine(opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batch := opts.BatchSize
	if batch == 0 {
		batch = workers * BatchMultiplier
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		workers:   workers,
		batchSize: batch,
		logger:    logger,
		onBatch:   opts.OnBatch,
	}
}

// Workers returns the parallelism bound.
func (e *Engine) Workers() int {
	return e.workers
}

// BatchSize returns the configured batch size, or BatchAll.
func (e *Engine) BatchSize() int {
	return e.batchSize
}

// Run lays out items and returns one Measurement per item, in input order.
//
// alive is polled before the call, before each batch and before each
// element. If it reports false, or ctx is done, the remaining work is
// abandoned and Run returns nil: the caller should retry later. Nodes that
// were already measured keep their cached layout.
func (e *Engine) Run(ctx context.Context, items []Measurable, alive func() bool) []Measurement {
	if len(items) == 0 {
		return nil
	}
	isAlive := func() bool { return alive == nil || alive() }
	if !isAlive() {
		e.logger.Debug("layout skipped", slog.Any("reason", errors.ErrProviderUnavailable))
		return nil
	}

	size := e.batchSize
	if size <= 0 {
		size = len(items)
	}

	results := make([]Measurement, len(items))
	for batch, start := 0, 0; start < len(items); batch, start = batch+1, start+size {
		end := min(start+size, len(items))
		if ctx.Err() != nil || !isAlive() {
			e.logger.Debug("layout abandoned", slog.Int("batch", batch))
			return nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if !isAlive() {
					return errors.ErrProviderUnavailable
				}
				results[i] = e.measure(i, items[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			e.logger.Debug("layout abandoned", slog.Int("batch", batch), slog.Any("err", err))
			return nil
		}
		if e.onBatch != nil {
			e.onBatch(batch, results[start:end])
		}
	}
	return results
}

func (e *Engine) measure(index int, item Measurable) (m Measurement) {
	m.Index = index
	defer errors.Recover("layout.measure", func(any) {
		m.Node = EmptyNode{}
		m.Size = rendering.SizeZero
		m.Measured = false
	})

	m.Node = item.Node()
	r := item.SizeRange()
	if !r.HasSignificantArea() {
		return m
	}
	if size, ok := item.CachedSize(); ok {
		m.Size = size
		return m
	}
	m.Size = m.Node.Measure(r)
	m.Measured = true
	item.StoreLayout(r, m.Size)
	return m
}
