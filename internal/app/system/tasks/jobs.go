// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	tokenstore "github.com/budgetbuddy/server/internal/app/store/tokens"
	"github.com/budgetbuddy/server/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Job is one periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Start runs each job on its own ticker until ctx is canceled. Job
// errors are logged, never fatal.
func Start(ctx context.Context, logger *zap.Logger, jobs ...Job) {
	for _, job := range jobs {
		go func(job Job) {
			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					runCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
					if err := job.Run(runCtx); err != nil {
						logger.Error("job failed",
							zap.String("job", job.Name), zap.Error(err))
					}
					cancel()
				}
			}
		}(job)
	}
}

// DeadTokenPruneJob creates a job that deletes device tokens the push
// provider reported permanently unregistered. Tokens are dead-stamped
// by the dispatcher at send time; the grace period keeps a stamp around
// long enough to debug delivery issues.
func DeadTokenPruneJob(tokens *tokenstore.Store, logger *zap.Logger, grace time.Duration) Job {
	return Job{
		Name:     "dead-token-prune",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := tokens.PruneDead(ctx, grace)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("pruned dead device tokens",
					zap.Int64("count", count),
					zap.Duration("grace", grace))
			}
			return nil
		},
	}
}
