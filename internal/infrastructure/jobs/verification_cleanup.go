package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"techsavvy.backend/internal/domain/repositories"
	"techsavvy.backend/pkg/logger"
)

const cleanupBatchSize = 500

// VerificationCleanupJob soft-deletes verification code rows once their
// audit retention elapses. Expiry itself is judged at validation time; this
// job only keeps the table from growing without bound.
type VerificationCleanupJob struct {
	repo      repositories.VerificationCodeRepository
	interval  time.Duration
	retention time.Duration
	stop      chan struct{}
}

func NewVerificationCleanupJob(repo repositories.VerificationCodeRepository, interval, retention time.Duration) *VerificationCleanupJob {
	return &VerificationCleanupJob{
		repo:      repo,
		interval:  interval,
		retention: retention,
		stop:      make(chan struct{}),
	}
}

func (j *VerificationCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting verification cleanup job",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "verification cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "verification cleanup job stopped")
			return
		case <-ticker.C:
			j.purge(ctx)
		}
	}
}

func (j *VerificationCleanupJob) Stop() {
	close(j.stop)
}

func (j *VerificationCleanupJob) purge(ctx context.Context) {
	cutoff := time.Now().Add(-j.retention)
	purged, err := j.repo.PurgeExpired(ctx, cutoff, cleanupBatchSize)
	if err != nil {
		logger.Error(ctx, "error purging verification codes", zap.Error(err))
		return
	}
	if purged > 0 {
		logger.Info(ctx, "purged verification codes",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff),
		)
	}
}
