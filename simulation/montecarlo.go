package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"go.uber.org/atomic"

	"github.com/ruteri/go-padnet/padalloc"
)

// Runner repeats every scenario the configured number of times and
// aggregates the results into a Report.
type Runner struct {
	cfg *Config
	log *slog.Logger

	completed atomic.Int64
	total     int64
}

// NewRunner validates the configuration and prepares a runner. The logger
// may be nil, in which case the default slog logger is used.
func NewRunner(cfg *Config, log *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		cfg:   cfg,
		log:   log,
		total: int64(cfg.Executions * len(Scenarios())),
	}, nil
}

// Progress returns the number of completed executions and the total the run
// will perform. Safe to call concurrently with Run.
func (r *Runner) Progress() (completed, total int64) {
	return r.completed.Load(), r.total
}

// Run executes all scenarios and returns the aggregated report. Executions
// are spread over the configured worker pool; cancellation of ctx abandons
// the remaining executions and returns the context error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Policy:     r.cfg.Policy,
		PadCount:   r.cfg.PadCount,
		Gap:        r.cfg.Gap,
		Executions: r.cfg.Executions,
		Seed:       r.cfg.Seed,
		Baseline:   0.75 * float64(r.cfg.PadCount),
	}

	for si, sc := range Scenarios() {
		r.log.Info("running scenario",
			"scenario", sc.Name,
			"executions", r.cfg.Executions,
			"policy", r.cfg.Policy)

		results, err := r.runScenario(ctx, si, sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		report.Scenarios = append(report.Scenarios, newScenarioStats(sc, results))
	}

	return report, nil
}

// runScenario fans the scenario's executions out over the worker pool. Every
// execution is fully determined by its derived seed, so the slice of results
// does not depend on worker scheduling.
func (r *Runner) runScenario(ctx context.Context, scenarioIdx int, sc Scenario) ([]ExecutionResult, error) {
	results := make([]ExecutionResult, r.cfg.Executions)

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	setErr := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for w := 0; w < r.cfg.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Keep draining jobs after an error so the producer
			// never blocks on a channel nobody reads.
			for i := range jobs {
				res, err := r.runExecution(scenarioIdx, sc, i)
				if err != nil {
					setErr(err)
					continue
				}
				results[i] = res
				r.completed.Inc()
			}
		}()
	}

	for i := 0; i < r.cfg.Executions; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runExecution performs one independent execution with its own allocator and
// RNG. The seed derivation keeps scenario/execution pairs disjoint.
func (r *Runner) runExecution(scenarioIdx int, sc Scenario, execution int) (ExecutionResult, error) {
	alloc, err := padalloc.New(r.cfg.Policy, r.cfg.PadCount, r.cfg.Gap)
	if err != nil {
		return ExecutionResult{}, err
	}

	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(scenarioIdx*r.cfg.Executions+execution)))
	active := pickActive(rng, sc.ActiveParties)
	return RunExecution(alloc, active, rng)
}
