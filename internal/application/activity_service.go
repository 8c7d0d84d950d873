package application

import (
	"context"
	"fmt"
	"time"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/logging"
	"github.com/pos-platform/sales-service/pkg/metrics"
)

// retentionBatchSize bounds one delete page of the retention sweep so a
// large backlog never turns into a single unbounded delete.
const retentionBatchSize = 500

// ActivityService reads the audit trail and enforces its retention
// window. It never writes entries; that is the AuditWriter's job.
type ActivityService struct {
	activities activityRepository
	logger     *logging.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewActivityService(activities activityRepository, logger *logging.Logger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{
		activities: activities,
		logger:     logger.WithComponent("activities"),
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns the most recent activity entries, newest first.
func (s *ActivityService) List(ctx context.Context, limit int64) ([]*domain.ActivityLogEntry, error) {
	entries, err := s.activities.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return entries, nil
}

// PurgeExpired removes entries older than the retention window, one
// bounded batch at a time, until no expired entries remain. It is safe to
// call concurrently and to restart after a partial run.
func (s *ActivityService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-domain.ActivityRetention)

	var total int64
	for {
		removed, err := s.activities.DeleteBatchOlderThan(ctx, cutoff, retentionBatchSize)
		if err != nil {
			return total, fmt.Errorf("failed to purge activities: %w", err)
		}
		total += removed
		if removed < retentionBatchSize {
			break
		}
	}

	if total > 0 {
		s.metrics.RecordActivityPurged(total)
		s.logger.WithContext(ctx).Info("activity retention sweep", "removed", total)
	}
	return total, nil
}

// RunRetentionSweeper purges expired entries on a fixed interval until
// ctx is cancelled. Intended to run in its own goroutine.
func (s *ActivityService) RunRetentionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.WithContext(ctx).Warn("retention sweep failed", "error", err.Error())
			}
		}
	}
}
