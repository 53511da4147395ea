package projection

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunAll projects every scenario concurrently against the shared baseline.
// Results keep the order of scenarios. The first failure cancels the rest.
func RunAll(ctx context.Context, logger *zap.Logger, baseline *Baseline, scenarios []Scenario, scaling Scaling) ([]*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseline == nil {
		return nil, fmt.Errorf("no baseline provided")
	}

	results := make([]*Result, len(scenarios))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			result, err := baseline.Project(logger, scenario, scaling)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("projected %d scenarios", len(results)),
		zap.String("op", "projection.RunAll"),
	)
	return results, nil
}
