// Package batch fans the pipeline out across many (employee, day) units.
// Units are independent: no shared mutable state, no ordering requirement,
// and one unit's failure never touches another's result.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// UnitResult pairs a unit with its outcome.
type UnitResult struct {
	Unit   pipeline.Unit
	Result pipeline.Result
	Err    error
}

// Report is the append-and-merge aggregation of a batch run.
type Report struct {
	RunID     string
	Results   []UnitResult
	Succeeded int
	Failed    int
}

// Runner executes batches against one shared analyzer.
type Runner struct {
	analyzer *pipeline.Analyzer
	workers  int
}

// NewRunner creates a runner. workers <= 0 sizes the pool to available CPU
// cores minus one.
func NewRunner(analyzer *pipeline.Analyzer, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}
	return &Runner{analyzer: analyzer, workers: workers}
}

// Run analyzes all units concurrently. Unit errors are recorded in the
// report, not returned; the only returned error is context cancellation.
func (r *Runner) Run(ctx context.Context, units []pipeline.Unit, showProgress bool) (Report, error) {
	report := Report{
		RunID:   uuid.NewString(),
		Results: make([]UnitResult, len(units)),
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(units)), "analyzing worker-days")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var mu sync.Mutex
	for i := range units {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := r.analyzer.Analyze(units[i])
			if err != nil {
				common.LogError(err, "unit analysis failed", common.Fields{
					"employee_id": units[i].EmployeeID,
					"day":         units[i].Day.Format("2006-01-02"),
				})
			}

			mu.Lock()
			report.Results[i] = UnitResult{Unit: units[i], Result: res, Err: err}
			if err != nil {
				report.Failed++
			} else {
				report.Succeeded++
			}
			mu.Unlock()

			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}
