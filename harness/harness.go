package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/weiihann/resow/dataset"
	"github.com/weiihann/resow/report"
	"github.com/weiihann/resow/sorting"
	"github.com/weiihann/resow/stats"
	"github.com/weiihann/resow/workload"
)

const banner = "==========="

// TimingLog receives one timing block per run. Implementations append;
// they never rewrite earlier blocks.
type TimingLog interface {
	Append(ctx context.Context, b report.Block) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sends the human-readable phase messages to w.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		r.progress = w
	}
}

// WithClock replaces time.Now for phase timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// Runner orchestrates the phases of a benchmark run.
type Runner struct {
	Logger *slog.Logger
	Log    TimingLog

	progress io.Writer
	now      func() time.Time
	heading  lipgloss.Style
	rule     lipgloss.Style
}

// NewRunner creates a Runner that appends its timings to log. A nil log
// disables the timing log.
func NewRunner(logger *slog.Logger, log TimingLog, opts ...Option) *Runner {
	r := &Runner{
		Logger:   logger,
		Log:      log,
		progress: io.Discard,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	renderer := lipgloss.NewRenderer(r.progress)
	r.heading = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	r.rule = renderer.NewStyle().Faint(true)

	return r
}

// Run executes every phase for cfg. Phases keep running after an earlier
// one fails; the returned error joins every phase failure and the Result
// is populated as far as the run got.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	strategy, err := sorting.Lookup(cfg.Mode)
	if err != nil {
		return nil, err
	}

	logger := r.Logger.With(
		slog.String("stem", cfg.Stem),
		slog.String("mode", cfg.Mode),
	)

	res := &Result{
		Config:      cfg,
		Algorithm:   strategy.Name(),
		DatasetPath: cfg.DatasetPath(),
		ResultPath:  cfg.ResultPath(),
		Summary:     stats.Undefined(),
		Timing: report.Block{
			DatasetSize: cfg.DatasetSize,
			BufferSize:  cfg.BufferSize,
			Algorithm:   strategy.Name(),
		},
	}

	var errs []error

	fail := func(phase string, err error) {
		logger.ErrorContext(ctx, "phase failed",
			slog.String("phase", phase),
			slog.String("error", err.Error()),
		)
		errs = append(errs, fmt.Errorf("%s: %w", phase, err))
	}

	canceled := func() bool {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			return true
		}

		return false
	}

	logger.InfoContext(ctx, "starting run",
		slog.Int("dataset_size", cfg.DatasetSize),
		slog.Int("buffer_size", cfg.BufferSize),
		slog.String("algorithm", strategy.Name()),
	)

	r.println(r.rule.Render(banner))

	// Step 1: Generate the dataset unless it already exists.
	if _, err := os.Stat(res.DatasetPath); errors.Is(err, fs.ErrNotExist) {
		r.println("Generating the dataset...")

		summary, genErr := workload.CreateFile(res.DatasetPath, workload.Config{
			Size:  cfg.DatasetSize,
			Bound: workload.DefaultBound,
			Seed:  cfg.Seed,
		})
		if genErr != nil {
			fail("generate", genErr)
		} else {
			res.Generated = true

			logger.InfoContext(ctx, "dataset generated",
				slog.String("path", res.DatasetPath),
				slog.Int("values", summary.Values),
				slog.Int64("bytes", summary.Bytes),
				slog.Float64("bound", summary.Bound),
			)
			r.println("Dataset is generated.")
		}

		r.println(r.rule.Render(banner))
	} else if err != nil {
		fail("stat", err)
	}

	if canceled() {
		return res, errors.Join(errs...)
	}

	// Step 2: Load.
	var (
		values  []float64
		loadErr error
	)

	res.Timing.Load = r.phase(
		"Loading the dataset...",
		"Finish loading the dataset.",
		"load file",
		func() {
			values, loadErr = dataset.LoadFile(res.DatasetPath, cfg.DatasetSize, cfg.BufferSize)
		},
	)
	res.Values = len(values)

	if loadErr != nil {
		fail("load", loadErr)
	}

	if canceled() {
		return res, errors.Join(errs...)
	}

	// Step 3: Statistics, one timed reduction each.
	reductions := []struct {
		name    string
		start   string
		done    string
		verb    string
		fn      func([]float64) (float64, error)
		dst     *float64
		elapsed *time.Duration
	}{
		{"avg", "Computing the average value...", "Finish computing the average value.",
			"compute the average value", stats.Avg, &res.Summary.Avg, &res.Timing.Avg},
		{"max", "Finding the max number...", "Finish finding the max number.",
			"find the max number", stats.Max, &res.Summary.Max, &res.Timing.Max},
		{"min", "Finding the min number...", "Finish finding the min number.",
			"find the min number", stats.Min, &res.Summary.Min, &res.Timing.Min},
	}

	for _, red := range reductions {
		var redErr error

		*red.elapsed = r.phase(red.start, red.done, red.verb, func() {
			*red.dst, redErr = red.fn(values)
		})

		if redErr != nil {
			fail(red.name, redErr)
		}

		if canceled() {
			return res, errors.Join(errs...)
		}
	}

	// Step 4: Sort.
	res.Timing.Sort = r.phase(
		"Sorting the dataset...",
		"Finish sorting the dataset.",
		"sort the dataset",
		func() { strategy.Sort(values) },
	)

	res.Description = stats.Describe(values)
	logger.DebugContext(ctx, "dataset described",
		slog.Int("n", res.Description.N),
		slog.Float64("median", res.Description.Median),
		slog.Float64("std_dev", res.Description.StdDev),
		slog.Float64("p5", res.Description.P5),
		slog.Float64("p95", res.Description.P95),
	)

	if canceled() {
		return res, errors.Join(errs...)
	}

	// Step 5: Write the result file.
	var writeErr error

	res.Timing.Write = r.phase(
		"Writing the dataset...",
		"Finish writing the dataset.",
		"write the dataset",
		func() {
			writeErr = dataset.WriteFile(res.ResultPath, values, res.Summary, cfg.BufferSize)
		},
	)

	if writeErr != nil {
		fail("write", writeErr)
	}

	// Step 6: Append the timing block.
	if r.Log != nil {
		if err := r.Log.Append(ctx, res.Timing); err != nil {
			fail("timing log", err)
		}
	}

	logger.InfoContext(ctx, "run complete",
		slog.Duration("total", res.Timing.Total()),
		slog.Int("failures", len(errs)),
	)

	return res, errors.Join(errs...)
}

// phase runs fn between two progress messages and returns its elapsed time.
func (r *Runner) phase(start, done, verb string, fn func()) time.Duration {
	r.println(r.heading.Render(start))

	begin := r.now()
	fn()
	elapsed := r.now().Sub(begin)

	r.println(done)
	r.println(fmt.Sprintf("It takes %d microseconds to %s.", elapsed.Microseconds(), verb))
	r.println(r.rule.Render(banner))

	return elapsed
}

func (r *Runner) println(s string) {
	fmt.Fprintln(r.progress, s)
}
