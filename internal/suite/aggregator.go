package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amitnovick/compilation-ex4-testers/internal/caserunner"
	"github.com/amitnovick/compilation-ex4-testers/internal/compare"
	"github.com/amitnovick/compilation-ex4-testers/internal/config"
	"github.com/amitnovick/compilation-ex4-testers/internal/hooks"
	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// Runner drives the suite: it walks the filtered category list, evaluates
// every case against the artifact, and folds outcomes into a SuiteReport.
// Per-case faults (timeout, launch failure, mismatch) are folded into the
// report and never abort the run.
type Runner struct {
	cfg      *config.RunConfig
	artifact *models.BuildArtifact

	hookRunner *hooks.Runner

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates during a run.
type ProgressListener func(event ProgressEvent)

// EventType identifies the kind of progress event.
type EventType string

const (
	EventSuiteStart    EventType = "suite_start"
	EventCategoryStart EventType = "category_start"
	EventCaseComplete  EventType = "case_complete"
	EventCategoryDone  EventType = "category_done"
	EventSuiteComplete EventType = "suite_complete"
)

// ProgressEvent is one progress update.
type ProgressEvent struct {
	EventType  EventType
	Category   string
	CaseName   string
	CaseNum    int
	TotalCases int
	Status     models.Status
	Cause      string
	DurationMs int64
	Tally      *models.CategoryTally
}

// NewRunner creates a suite runner for a built artifact.
func NewRunner(cfg *config.RunConfig, artifact *models.BuildArtifact) *Runner {
	return &Runner{
		cfg:        cfg,
		artifact:   artifact,
		hookRunner: &hooks.Runner{Verbose: cfg.Verbose()},
	}
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run discovers, filters, and evaluates the suite, returning the immutable
// report. Only discovery errors and hook failures are returned as errors;
// everything that happens to an individual case lands in the report.
func (r *Runner) Run(ctx context.Context) (*models.SuiteReport, error) {
	startTime := time.Now()
	spec := r.cfg.Spec()

	categories, err := Discover(r.cfg.SuiteDir(), spec, r.cfg.RunOfficial(), r.cfg.RunUnofficial())
	if err != nil {
		return nil, fmt.Errorf("discovering test cases: %w", err)
	}

	categories, err = Filter(categories, r.cfg.CategoryFilter(), r.cfg.CaseFilter())
	if err != nil {
		return nil, err
	}

	totalCases := 0
	for _, cat := range categories {
		totalCases += len(cat.Cases)
	}
	if totalCases == 0 {
		return nil, fmt.Errorf("no test cases found under %s", r.cfg.SuiteDir())
	}

	if len(spec.Hooks.AfterRun) > 0 {
		defer func() {
			if err := r.hookRunner.Execute(ctx, "after_run", spec.Hooks.AfterRun); err != nil {
				fmt.Printf("[WARN] after_run hook error: %v\n", err)
			}
		}()
	}
	if len(spec.Hooks.BeforeRun) > 0 {
		if err := r.hookRunner.Execute(ctx, "before_run", spec.Hooks.BeforeRun); err != nil {
			return nil, fmt.Errorf("before_run hook failed: %w", err)
		}
	}

	r.notifyProgress(ProgressEvent{EventType: EventSuiteStart, TotalCases: totalCases})

	var outcomes [][]models.CaseOutcome
	if r.cfg.Parallel() {
		outcomes, err = r.runConcurrent(ctx, categories)
	} else {
		outcomes, err = r.runSequential(ctx, categories)
	}
	if err != nil {
		return nil, err
	}

	report := fold(categories, outcomes, startTime)

	r.notifyProgress(ProgressEvent{
		EventType:  EventSuiteComplete,
		DurationMs: report.DurationMs,
	})

	return report, nil
}

// runSequential evaluates each category's cases in order, one process at a
// time. This is the reference behavior: deterministic ordering and resource
// usage for grading reproducibility.
func (r *Runner) runSequential(ctx context.Context, categories []Category) ([][]models.CaseOutcome, error) {
	outcomes := make([][]models.CaseOutcome, len(categories))
	caseNum := 0

	for ci, cat := range categories {
		timeout, err := r.categoryTimeout(cat.Name)
		if err != nil {
			return nil, err
		}

		r.notifyProgress(ProgressEvent{EventType: EventCategoryStart, Category: cat.Name})

		outcomes[ci] = make([]models.CaseOutcome, len(cat.Cases))
		passed := 0
		for i := range cat.Cases {
			caseNum++
			outcome := r.evaluateCase(ctx, &cat.Cases[i], timeout)
			outcomes[ci][i] = outcome
			if outcome.Passed() {
				passed++
			}

			r.notifyProgress(ProgressEvent{
				EventType:  EventCaseComplete,
				Category:   cat.Name,
				CaseName:   outcome.CaseName,
				CaseNum:    caseNum,
				Status:     outcome.Status,
				Cause:      outcome.Cause,
				DurationMs: outcome.DurationMs,
			})
		}

		r.notifyProgress(ProgressEvent{
			EventType: EventCategoryDone,
			Category:  cat.Name,
			Tally:     &models.CategoryTally{Category: cat.Name, Passed: passed, Total: len(cat.Cases)},
		})
	}

	return outcomes, nil
}

// runConcurrent evaluates independent cases with a bounded worker pool.
// Results land in index-addressed slots and progress events are emitted in
// discovery order after the pool drains, so the rendered report is identical
// to a sequential run.
func (r *Runner) runConcurrent(ctx context.Context, categories []Category) ([][]models.CaseOutcome, error) {
	outcomes := make([][]models.CaseOutcome, len(categories))
	timeouts := make([]time.Duration, len(categories))
	for ci, cat := range categories {
		outcomes[ci] = make([]models.CaseOutcome, len(cat.Cases))
		timeout, err := r.categoryTimeout(cat.Name)
		if err != nil {
			return nil, err
		}
		timeouts[ci] = timeout
	}

	g := &errgroup.Group{}
	g.SetLimit(r.cfg.Workers())

	for ci := range categories {
		for i := range categories[ci].Cases {
			ci, i := ci, i
			g.Go(func() error {
				outcomes[ci][i] = r.evaluateCase(ctx, &categories[ci].Cases[i], timeouts[ci])
				return nil
			})
		}
	}
	// Case goroutines never return errors; faults are folded into outcomes.
	_ = g.Wait()

	caseNum := 0
	for ci, cat := range categories {
		r.notifyProgress(ProgressEvent{EventType: EventCategoryStart, Category: cat.Name})
		passed := 0
		for i := range cat.Cases {
			caseNum++
			outcome := outcomes[ci][i]
			if outcome.Passed() {
				passed++
			}
			r.notifyProgress(ProgressEvent{
				EventType:  EventCaseComplete,
				Category:   cat.Name,
				CaseName:   outcome.CaseName,
				CaseNum:    caseNum,
				Status:     outcome.Status,
				Cause:      outcome.Cause,
				DurationMs: outcome.DurationMs,
			})
		}
		r.notifyProgress(ProgressEvent{
			EventType: EventCategoryDone,
			Category:  cat.Name,
			Tally:     &models.CategoryTally{Category: cat.Name, Passed: passed, Total: len(cat.Cases)},
		})
	}

	return outcomes, nil
}

func (r *Runner) categoryTimeout(category string) (time.Duration, error) {
	sec, err := r.cfg.Spec().CaseTimeoutSec(category)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}

// evaluateCase runs one case and classifies the result. This is the fault
// isolation boundary: every failure mode of the analyzer process becomes a
// CaseOutcome, never an error.
func (r *Runner) evaluateCase(ctx context.Context, tc *models.TestCase, timeout time.Duration) models.CaseOutcome {
	result, err := caserunner.Run(ctx, r.artifact, tc, timeout)

	outcome := r.classify(tc, result, err)
	outcome.Category = tc.Category
	outcome.CaseName = tc.CaseName
	if result != nil {
		outcome.DurationMs = result.Duration.Milliseconds()
	}
	return outcome
}

func (r *Runner) classify(tc *models.TestCase, result *models.ExecutionResult, err error) models.CaseOutcome {
	switch {
	case errors.Is(err, caserunner.ErrTimeout):
		// Partial output of a timed-out case is never compared.
		return models.CaseOutcome{Status: models.StatusTimeout, Cause: err.Error()}
	case errors.Is(err, caserunner.ErrNoReport):
		return models.CaseOutcome{Status: models.StatusErrored, Cause: err.Error()}
	case err != nil:
		return models.CaseOutcome{Status: models.StatusErrored, Cause: err.Error()}
	case result.ExitCode != 0:
		cause := fmt.Sprintf("analyzer exited with code %d", result.ExitCode)
		if s := strings.TrimSpace(result.Stderr); s != "" {
			cause += "; stderr: " + s
		}
		return models.CaseOutcome{Status: models.StatusErrored, Cause: cause}
	default:
		return compare.Compare(result.Report, tc.Expected)
	}
}

// fold accumulates per-case outcomes into the final report. Aggregation is a
// pure fold: each outcome updates exactly one category tally and the overall
// counts.
func fold(categories []Category, outcomes [][]models.CaseOutcome, startTime time.Time) *models.SuiteReport {
	report := &models.SuiteReport{Timestamp: startTime}

	for ci, cat := range categories {
		tally := models.CategoryTally{Category: cat.Name}
		for _, outcome := range outcomes[ci] {
			tally.Total++
			report.Total++
			switch outcome.Status {
			case models.StatusPassed:
				tally.Passed++
				report.Passed++
			case models.StatusFailed:
				report.Failed++
			case models.StatusTimeout:
				report.Timeouts++
			case models.StatusErrored:
				report.Errors++
			}
			if !outcome.Passed() {
				report.Failures = append(report.Failures, outcome)
			}
		}
		report.Tallies = append(report.Tallies, tally)
	}

	report.DurationMs = time.Since(startTime).Milliseconds()
	return report
}
