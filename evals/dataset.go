package evals

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task answers one case input, usually by running the storyteller agent.
type Task func(ctx context.Context, input string) (string, error)

type CaseResult struct {
	Case     Case
	Output   string
	Verdict  Verdict
	Duration time.Duration
	Err      error // task or judge failure; the case counts as failed
}

func (r CaseResult) Passed() bool {
	return r.Err == nil && r.Verdict.Pass
}

type Dataset struct {
	Cases []Case
	Judge Judge
}

// Evaluate runs every case concurrently. A failing case is recorded in its
// CaseResult and does not stop the others.
func (d *Dataset) Evaluate(ctx context.Context, task Task) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	logger.Info("Starting evaluation", zap.String("run_id", report.RunID), zap.Int("cases", len(d.Cases)))

	tasks := make([]<-chan async.Result[CaseResult], 0, len(d.Cases))
	for _, c := range d.Cases {
		tasks = append(tasks, d.runCase(ctx, task, c))
	}

	results, err := async.AwaitAll(tasks...)
	if err != nil {
		return nil, err
	}

	report.Results = results
	report.Duration = time.Since(report.Started)
	logger.Info("Finished evaluation",
		zap.String("run_id", report.RunID),
		zap.Int("passed", report.PassedCount()),
		zap.Int("total", len(results)))
	return report, nil
}

func (d *Dataset) runCase(ctx context.Context, task Task, c Case) <-chan async.Result[CaseResult] {
	return async.Go(func() (CaseResult, error) {
		start := time.Now()
		result := CaseResult{Case: c}

		output, err := task(ctx, c.Input)
		if err != nil {
			logger.Error("Evaluation task failed", zap.String("case", c.Name), zap.Error(err))
			result.Err = err
			result.Duration = time.Since(start)
			return result, nil
		}
		result.Output = output
		result.Duration = time.Since(start)

		verdict, err := d.Judge.Judge(ctx, c, output)
		if err != nil {
			logger.Error("Judge failed", zap.String("case", c.Name), zap.Error(err))
			result.Err = err
			return result, nil
		}
		result.Verdict = verdict
		return result, nil
	})
}
