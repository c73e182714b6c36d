package scenario

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/datacontroller"
	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/platform"
	"github.com/go-drift/datacontroller/pkg/textsource"
)

// Output formats.
const (
	FormatSummary = "summary"
	FormatYAML    = "yaml"
)

// Runner plays scenarios against a controller.
type Runner struct {
	// Out receives the report. Nil discards.
	Out io.Writer
	// Format is FormatSummary (default) or FormatYAML.
	Format string
	// Options configures the controller. Dispatcher is ignored.
	Options datacontroller.Options
	// Width is the initial row width. Zero uses the source default.
	Width float64
	// Timeout bounds the wait for each step to publish. Zero waits until
	// ctx ends.
	Timeout time.Duration
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string
	Version  uint64
	Counts   []int
	Elements int
	// Relayout marks a width change; Changed lists the rows it resized.
	Relayout bool
	Changed  []collection.IndexPath
	// Err is the submission error, if any.
	Err error
}

// Invalid reports whether the step was rejected as an invalid update.
func (r StepResult) Invalid() bool {
	return errors.IsInvalidUpdate(r.Err)
}

// Run plays sc and returns one result per step, the initial reload first.
// Invalid updates are recorded and the run continues; other failures stop it.
//
// When a step does not publish within Timeout, or ctx ends while a step is
// draining, the data source is detached so in-flight layout is abandoned,
// and the run stops with the context's error.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	logger := r.Options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	src := textsource.New(sectionData(sc.Sections)...)
	if r.Width > 0 {
		src.SetWidth(r.Width)
	}
	loop := platform.NewRunLoop()
	defer loop.Close()
	opts := r.Options
	opts.Dispatcher = loop
	ctrl := datacontroller.New(src, nil, opts)
	defer ctrl.Close()

	engine := ctrl.Engine()
	logger.Debug("scenario started",
		slog.String("name", sc.Name),
		slog.Int("workers", engine.Workers()),
		slog.Int("batch_size", engine.BatchSize()))

	p := &player{runner: r, loop: loop, ctrl: ctrl, src: src}
	steps := append([]Step{{Name: "initial reload", Reload: true}}, sc.Steps...)
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.play(ctx, step)
		if err != nil {
			return results, err
		}
		logger.Debug("step played", slog.String("step", step.Name), slog.Uint64("version", res.Version))
		results = append(results, res)
		if err := r.report(out, p.visible(), res); err != nil {
			return results, err
		}
	}
	return results, nil
}

// player marshals controller calls onto the run loop.
type player struct {
	runner *Runner
	loop   *platform.RunLoop
	ctrl   *datacontroller.Controller
	src    *textsource.Source
}

func (p *player) play(ctx context.Context, step Step) (StepResult, error) {
	res := StepResult{Name: step.Name, Relayout: step.IsRelayout()}
	if res.Relayout {
		p.src.SetWidth(step.Width)
		p.loop.Sync(func() { res.Changed = p.ctrl.RelayoutAll() })
	} else {
		step.Apply(p.src)
		p.loop.Sync(func() { res.Err = p.ctrl.Submit(step.ChangeSet()) })
		if res.Err != nil && !res.Invalid() {
			return res, fmt.Errorf("%s: %w", step.Name, res.Err)
		}
		if err := p.drain(ctx); err != nil {
			return res, fmt.Errorf("%s: %w", step.Name, err)
		}
	}

	visible := p.visible()
	res.Version = visible.Version()
	res.Counts = visible.ItemCounts()
	res.Elements = visible.Count()
	return res, nil
}

func (p *player) drain(ctx context.Context) error {
	if p.runner.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runner.Timeout)
		defer cancel()
	}
	var err error
	p.loop.Sync(func() { err = p.ctrl.DrainPendingContext(ctx) })
	if stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("not published within %s: %w", p.runner.Timeout, err)
	}
	return err
}

func (p *player) visible() *collection.ElementMap {
	var m *collection.ElementMap
	p.loop.Sync(func() { m = p.ctrl.VisibleMap() })
	return m
}

func (r *Runner) report(out io.Writer, visible *collection.ElementMap, res StepResult) error {
	var err error
	switch {
	case res.Err != nil:
		_, err = fmt.Fprintf(out, "%-20s rejected: %v\n", res.Name, res.Err)
	case res.Relayout:
		_, err = fmt.Fprintf(out, "%-20s v%d relayout changed=%v\n", res.Name, res.Version, res.Changed)
	default:
		_, err = fmt.Fprintf(out, "%-20s v%d sections=%d counts=%v elements=%d\n",
			res.Name, res.Version, len(res.Counts), res.Counts, res.Elements)
	}
	if err != nil || r.Format != FormatYAML {
		return err
	}
	data, err := textsource.Capture(visible).Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
